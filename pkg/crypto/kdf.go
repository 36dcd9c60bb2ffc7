// kdf.go wraps golang.org/x/crypto/hkdf as the HKDF primitive treated as
// an external collaborator: extract(salt, ikm) -> secret and
// expand_label(secret, label, context, length) -> bytes implementing the
// RFC 8446 §7.1 HkdfLabel wire encoding.
//
// The TLS 1.3 key-schedule sequencing itself (Early -> Handshake ->
// Application secrets, Derive-Secret, Finished MAC) is core logic and
// lives in package tls13, which calls through this package for the raw
// HKDF operations.
package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/sara-star-quant/tls13-client/internal/constants"
	qerrors "github.com/sara-star-quant/tls13-client/internal/errors"
)

// HashAlgorithm identifies the negotiated transcript/HKDF hash.
type HashAlgorithm int

const (
	SHA256 HashAlgorithm = iota
	SHA384
)

// New returns the hash.Hash constructor for the algorithm.
func (h HashAlgorithm) New() func() hash.Hash {
	if h == SHA384 {
		return sha512.New384
	}
	return sha256.New
}

// Len returns the output length in bytes (the Hlen of RFC 8446 §7.1).
func (h HashAlgorithm) Len() int {
	if h == SHA384 {
		return sha512.Size384
	}
	return sha256.Size
}

// HashAlgorithmForSuite selects SHA-384 for AES-256-GCM, SHA-256
// otherwise.
func HashAlgorithmForSuite(suite constants.CipherSuite) HashAlgorithm {
	if suite.UsesSHA384() {
		return SHA384
	}
	return SHA256
}

// HKDFExtract computes HKDF-Extract(salt, ikm) for the given hash.
func HKDFExtract(h HashAlgorithm, salt, ikm []byte) []byte {
	return hkdf.Extract(h.New(), ikm, salt)
}

// HKDFExpandLabel implements HKDF-Expand-Label (RFC 8446 §7.1):
//
//	HKDF-Expand-Label(Secret, Label, Context, Length) =
//	    HKDF-Expand(Secret, HkdfLabel, Length)
//
// where HkdfLabel is the length-prefixed struct:
//
//	uint16 length = Length
//	opaque label<7..255> = "tls13 " + Label
//	opaque context<0..255> = Context
func HKDFExpandLabel(h HashAlgorithm, secret []byte, label string, context []byte, length int) ([]byte, error) {
	fullLabel := constants.HkdfLabelPrefix + label
	if len(fullLabel) > 255 || len(context) > 255 {
		return nil, qerrors.NewCryptoError("HKDFExpandLabel", qerrors.ErrMalformedMessage)
	}

	info := make([]byte, 0, 2+1+len(fullLabel)+1+len(context))
	info = append(info, byte(length>>8), byte(length))
	info = append(info, byte(len(fullLabel)))
	info = append(info, fullLabel...)
	info = append(info, byte(len(context)))
	info = append(info, context...)

	out := make([]byte, length)
	r := hkdf.Expand(h.New(), secret, info)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, qerrors.NewCryptoError("HKDFExpandLabel", err)
	}
	return out, nil
}

// TranscriptHash hashes messages with the negotiated algorithm.
func TranscriptHash(h HashAlgorithm, messages []byte) []byte {
	hh := h.New()()
	hh.Write(messages)
	return hh.Sum(nil)
}

// HMAC computes HMAC-H(key, data) using the negotiated hash, for
// Finished verify_data.
func HMAC(h HashAlgorithm, key, data []byte) []byte {
	mac := hmac.New(h.New(), key)
	mac.Write(data)
	return mac.Sum(nil)
}
