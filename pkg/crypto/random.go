// Package crypto wraps the cryptographic primitives the TLS 1.3 core
// treats as external collaborators: HKDF, X25519, and the
// CSPRNG used for ClientHello randomness and the client's ephemeral key.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	qerrors "github.com/sara-star-quant/tls13-client/internal/errors"
)

// Random reads n cryptographically secure random bytes, sourced from the
// OS CSPRNG via crypto/rand.
func Random(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, qerrors.NewCryptoError("Random", err)
	}
	return b, nil
}

// ConstantTimeCompare reports whether a and b are equal, in time
// independent of their contents (but not their lengths). Used for
// Finished MAC verification.
func ConstantTimeCompare(a, b []byte) bool {
	return len(a) == len(b) && subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites b with zeros. The Go runtime may retain copies
// elsewhere and the compiler may elide the write in some cases; this is
// best-effort hygiene, not a hard guarantee.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ZeroizeAll zeroizes every slice given.
func ZeroizeAll(slices ...[]byte) {
	for _, s := range slices {
		Zeroize(s)
	}
}
