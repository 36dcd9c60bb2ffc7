package constants

import "testing"

func TestCipherSuiteString(t *testing.T) {
	tests := []struct {
		suite CipherSuite
		want  string
	}{
		{TLS_AES_128_GCM_SHA256, "TLS_AES_128_GCM_SHA256"},
		{TLS_AES_256_GCM_SHA384, "TLS_AES_256_GCM_SHA384"},
		{TLS_CHACHA20_POLY1305_SHA256, "TLS_CHACHA20_POLY1305_SHA256"},
		{CipherSuite(0x9999), "Unknown"},
	}

	for _, tt := range tests {
		got := tt.suite.String()
		if got != tt.want {
			t.Errorf("CipherSuite(%#04x).String() = %q, want %q", uint16(tt.suite), got, tt.want)
		}
	}
}

func TestCipherSuiteIsKnown(t *testing.T) {
	tests := []struct {
		suite CipherSuite
		want  bool
	}{
		{TLS_AES_128_GCM_SHA256, true},
		{TLS_AES_256_GCM_SHA384, true},
		{TLS_CHACHA20_POLY1305_SHA256, true},
		{CipherSuite(0x0000), false},
		{CipherSuite(0xFFFF), false},
	}

	for _, tt := range tests {
		got := tt.suite.IsKnown()
		if got != tt.want {
			t.Errorf("CipherSuite(%#04x).IsKnown() = %v, want %v", uint16(tt.suite), got, tt.want)
		}
	}
}

func TestCipherSuiteKeyLen(t *testing.T) {
	tests := []struct {
		suite CipherSuite
		want  int
	}{
		{TLS_AES_128_GCM_SHA256, 16},
		{TLS_AES_256_GCM_SHA384, 32},
		{TLS_CHACHA20_POLY1305_SHA256, 32},
		{CipherSuite(0x9999), 0},
	}

	for _, tt := range tests {
		got := tt.suite.KeyLen()
		if got != tt.want {
			t.Errorf("CipherSuite(%#04x).KeyLen() = %d, want %d", uint16(tt.suite), got, tt.want)
		}
	}
}

func TestCipherSuiteUsesSHA384(t *testing.T) {
	if !TLS_AES_256_GCM_SHA384.UsesSHA384() {
		t.Error("TLS_AES_256_GCM_SHA384.UsesSHA384() = false, want true")
	}
	for _, s := range []CipherSuite{TLS_AES_128_GCM_SHA256, TLS_CHACHA20_POLY1305_SHA256} {
		if s.UsesSHA384() {
			t.Errorf("%v.UsesSHA384() = true, want false", s)
		}
	}
}

func TestCipherSuiteIDsUnique(t *testing.T) {
	suites := []CipherSuite{TLS_AES_128_GCM_SHA256, TLS_AES_256_GCM_SHA384, TLS_CHACHA20_POLY1305_SHA256}
	seen := make(map[CipherSuite]bool, len(suites))
	for _, s := range suites {
		if seen[s] {
			t.Errorf("duplicate cipher suite id %#04x", uint16(s))
		}
		seen[s] = true
	}
}

func TestWireSizes(t *testing.T) {
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"X25519KeySize", X25519KeySize, 32},
		{"AEADNonceSize", AEADNonceSize, 12},
		{"AEADTagSize", AEADTagSize, 16},
		{"FinishedVerifyDataMaxSize", FinishedVerifyDataMaxSize, 48},
		{"MaxHandshakeMessageSize", MaxHandshakeMessageSize, 1<<24 - 1},
		{"MaxRecordPayloadSize", MaxRecordPayloadSize, 1 << 14},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestVersionConstants(t *testing.T) {
	if LegacyVersionTLS12 != 0x0303 {
		t.Errorf("LegacyVersionTLS12 = %#04x, want 0x0303", LegacyVersionTLS12)
	}
	if SupportedVersionTLS13 != 0x0304 {
		t.Errorf("SupportedVersionTLS13 = %#04x, want 0x0304", SupportedVersionTLS13)
	}
}

func TestHkdfLabels(t *testing.T) {
	labels := []string{
		LabelDerived, LabelCHSTraffic, LabelSHSTraffic,
		LabelCAPTraffic, LabelSAPTraffic, LabelKey, LabelIV, LabelFinished,
	}
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if l == "" {
			t.Error("HKDF label is empty")
		}
		if seen[l] {
			t.Errorf("duplicate HKDF label %q", l)
		}
		seen[l] = true
	}
	if HkdfLabelPrefix != "tls13 " {
		t.Errorf("HkdfLabelPrefix = %q, want %q", HkdfLabelPrefix, "tls13 ")
	}
}

func TestNamedGroupsAndSignatureSchemesUnique(t *testing.T) {
	groups := []NamedGroup{X25519, Secp256r1, Secp384r1}
	seenGroups := make(map[NamedGroup]bool, len(groups))
	for _, g := range groups {
		if seenGroups[g] {
			t.Errorf("duplicate named group %#04x", uint16(g))
		}
		seenGroups[g] = true
	}

	schemes := []SignatureScheme{RsaPssRsaeSha256, EcdsaSecp256r1Sha256, RsaPkcs1Sha256}
	seenSchemes := make(map[SignatureScheme]bool, len(schemes))
	for _, s := range schemes {
		if seenSchemes[s] {
			t.Errorf("duplicate signature scheme %#04x", uint16(s))
		}
		seenSchemes[s] = true
	}
}
