// aead.go constructs the raw cipher.AEAD for a negotiated cipher suite.
// Nonce derivation (IV XOR sequence number, RFC 8446 §5.3) and sequence
// bookkeeping belong to the record layer; this file only supplies the
// AEAD primitive itself.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/sara-star-quant/tls13-client/internal/constants"
	qerrors "github.com/sara-star-quant/tls13-client/internal/errors"
)

// NewAEAD builds the cipher.AEAD for suite using key, which must be
// exactly suite.KeyLen() bytes.
func NewAEAD(suite constants.CipherSuite, key []byte) (cipher.AEAD, error) {
	if !suite.IsKnown() {
		return nil, qerrors.NewCryptoError("NewAEAD", qerrors.ErrUnsupportedSuite)
	}
	if len(key) != suite.KeyLen() {
		return nil, qerrors.NewCryptoError("NewAEAD", qerrors.ErrMalformedMessage)
	}

	switch suite {
	case constants.TLS_AES_128_GCM_SHA256, constants.TLS_AES_256_GCM_SHA384:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, qerrors.NewCryptoError("NewAEAD", err)
		}
		gcm, err := cipher.NewGCM(block)
		if err != nil {
			return nil, qerrors.NewCryptoError("NewAEAD", err)
		}
		return gcm, nil

	case constants.TLS_CHACHA20_POLY1305_SHA256:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, qerrors.NewCryptoError("NewAEAD", err)
		}
		return aead, nil

	default:
		return nil, qerrors.NewCryptoError("NewAEAD", qerrors.ErrUnsupportedSuite)
	}
}
