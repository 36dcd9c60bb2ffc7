package crypto_test

import (
	"bytes"
	"testing"

	"github.com/sara-star-quant/tls13-client/internal/constants"
	"github.com/sara-star-quant/tls13-client/pkg/crypto"
)

func TestNewAEADRoundTrip(t *testing.T) {
	suites := []constants.CipherSuite{
		constants.TLS_AES_128_GCM_SHA256,
		constants.TLS_AES_256_GCM_SHA384,
		constants.TLS_CHACHA20_POLY1305_SHA256,
	}

	for _, suite := range suites {
		key := bytes.Repeat([]byte{0x42}, suite.KeyLen())
		aead, err := crypto.NewAEAD(suite, key)
		if err != nil {
			t.Fatalf("NewAEAD(%s): %v", suite, err)
		}

		nonce := make([]byte, aead.NonceSize())
		plaintext := []byte("application_data")
		ciphertext := aead.Seal(nil, nonce, plaintext, nil)

		opened, err := aead.Open(nil, nonce, ciphertext, nil)
		if err != nil {
			t.Fatalf("Open(%s): %v", suite, err)
		}
		if !bytes.Equal(opened, plaintext) {
			t.Errorf("%s: round trip mismatch: got %q want %q", suite, opened, plaintext)
		}
	}
}

func TestNewAEADRejectsWrongKeyLength(t *testing.T) {
	if _, err := crypto.NewAEAD(constants.TLS_AES_128_GCM_SHA256, make([]byte, 8)); err == nil {
		t.Error("expected error for undersized key")
	}
}

func TestNewAEADRejectsUnknownSuite(t *testing.T) {
	if _, err := crypto.NewAEAD(constants.CipherSuite(0xFFFF), make([]byte, 16)); err == nil {
		t.Error("expected error for unknown cipher suite")
	}
}

func TestNewAEADTamperedCiphertextFailsOpen(t *testing.T) {
	suite := constants.TLS_CHACHA20_POLY1305_SHA256
	key := bytes.Repeat([]byte{0x07}, suite.KeyLen())
	aead, err := crypto.NewAEAD(suite, key)
	if err != nil {
		t.Fatalf("NewAEAD: %v", err)
	}

	nonce := make([]byte, aead.NonceSize())
	ciphertext := aead.Seal(nil, nonce, []byte("secret"), nil)
	ciphertext[0] ^= 0xFF

	if _, err := aead.Open(nil, nonce, ciphertext, nil); err == nil {
		t.Error("expected Open to fail on tampered ciphertext")
	}
}
