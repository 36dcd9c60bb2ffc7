// Package constants defines wire-format constants and security parameters
// for the TLS 1.3 client core, as fixed by RFC 8446.
package constants

// Record content types (RFC 8446 §5.1).
const (
	ContentTypeChangeCipherSpec uint8 = 20
	ContentTypeAlert            uint8 = 21
	ContentTypeHandshake        uint8 = 22
	ContentTypeApplicationData  uint8 = 23
)

// Handshake message types (RFC 8446 §4).
const (
	HandshakeTypeClientHello         uint8 = 1
	HandshakeTypeServerHello         uint8 = 2
	HandshakeTypeEncryptedExtensions uint8 = 8
	HandshakeTypeCertificate         uint8 = 11
	HandshakeTypeCertificateVerify   uint8 = 15
	HandshakeTypeFinished            uint8 = 20
)

// LegacyVersionTLS12 is the wire value ClientHello/ServerHello carry in
// their version field for middlebox compatibility; the real version is
// negotiated via the supported_versions extension.
const LegacyVersionTLS12 uint16 = 0x0303

// SupportedVersionTLS13 is the only entry this core ever offers or accepts.
const SupportedVersionTLS13 uint16 = 0x0304

// CipherSuite identifies a TLS 1.3 AEAD cipher suite (RFC 8446 §B.4).
type CipherSuite uint16

const (
	TLS_AES_128_GCM_SHA256       CipherSuite = 0x1301
	TLS_AES_256_GCM_SHA384       CipherSuite = 0x1302
	TLS_CHACHA20_POLY1305_SHA256 CipherSuite = 0x1303
)

// String returns the IANA name of the cipher suite.
func (cs CipherSuite) String() string {
	switch cs {
	case TLS_AES_128_GCM_SHA256:
		return "TLS_AES_128_GCM_SHA256"
	case TLS_AES_256_GCM_SHA384:
		return "TLS_AES_256_GCM_SHA384"
	case TLS_CHACHA20_POLY1305_SHA256:
		return "TLS_CHACHA20_POLY1305_SHA256"
	default:
		return "Unknown"
	}
}

// IsKnown reports whether cs is one of the three suites this core speaks.
func (cs CipherSuite) IsKnown() bool {
	switch cs {
	case TLS_AES_128_GCM_SHA256, TLS_AES_256_GCM_SHA384, TLS_CHACHA20_POLY1305_SHA256:
		return true
	default:
		return false
	}
}

// KeyLen returns the AEAD key length in bytes for the suite.
func (cs CipherSuite) KeyLen() int {
	switch cs {
	case TLS_AES_128_GCM_SHA256:
		return 16
	case TLS_AES_256_GCM_SHA384, TLS_CHACHA20_POLY1305_SHA256:
		return 32
	default:
		return 0
	}
}

// UsesSHA384 reports whether the suite selects SHA-384 as its hash
// (AES-256-GCM only); every other suite uses SHA-256.
func (cs CipherSuite) UsesSHA384() bool {
	return cs == TLS_AES_256_GCM_SHA384
}

// NamedGroup identifies a key-exchange group (RFC 8446 §4.2.7).
type NamedGroup uint16

const (
	X25519    NamedGroup = 0x001D
	Secp256r1 NamedGroup = 0x0017
	Secp384r1 NamedGroup = 0x0018
)

// SignatureScheme identifies a signature algorithm (RFC 8446 §4.2.3).
type SignatureScheme uint16

const (
	RsaPssRsaeSha256     SignatureScheme = 0x0804
	EcdsaSecp256r1Sha256 SignatureScheme = 0x0403
	RsaPkcs1Sha256       SignatureScheme = 0x0401
)

// PSKKeyExchangeModeDHE is the only PSK mode ever advertised (RFC 8446
// §4.2.9); PSK flows themselves are out of scope (spec Non-goal), the
// extension is advertised only because real TLS 1.3 servers expect it.
const PSKKeyExchangeModeDHE uint8 = 1

// Extension types (RFC 8446 §4.2).
const (
	ExtServerName          uint16 = 0
	ExtSupportedGroups     uint16 = 10
	ExtSignatureAlgorithms uint16 = 13
	ExtALPN                uint16 = 16
	ExtSupportedVersions   uint16 = 43
	ExtPSKKeyExchangeModes uint16 = 45
	ExtKeyShare            uint16 = 51
)

// ServerNameTypeHostName is the only server_name entry type defined.
const ServerNameTypeHostName uint8 = 0

// HKDF-Expand-Label labels (RFC 8446 §7.1).
const (
	LabelDerived    = "derived"
	LabelCHSTraffic = "c hs traffic"
	LabelSHSTraffic = "s hs traffic"
	LabelCAPTraffic = "c ap traffic"
	LabelSAPTraffic = "s ap traffic"
	LabelKey        = "key"
	LabelIV         = "iv"
	LabelFinished   = "finished"
)

// HkdfLabelPrefix is prepended to every label per the wire encoding of
// HkdfLabel.label (RFC 8446 §7.1): opaque label<7..255> = "tls13 " + Label.
const HkdfLabelPrefix = "tls13 "

// AEAD sizes.
const (
	AEADNonceSize = 12
	AEADTagSize   = 16
)

// X25519KeySize is the size in bytes of an X25519 private scalar, public
// key, and shared secret (RFC 7748).
const X25519KeySize = 32

// FinishedVerifyDataMaxSize bounds a Finished message body; actual size
// equals the negotiated hash length (32 for SHA-256, 48 for SHA-384).
const FinishedVerifyDataMaxSize = 48

// MaxHandshakeMessageSize bounds the 24-bit handshake length field.
const MaxHandshakeMessageSize = 1<<24 - 1

// MaxRecordPayloadSize is the largest plaintext fragment per TLS record
// (RFC 8446 §5.1); larger handshake messages span multiple records.
const MaxRecordPayloadSize = 1 << 14
