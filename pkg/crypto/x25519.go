// x25519.go implements the X25519 key-exchange primitive consumed by the
// TLS 1.3 key schedule: generate_keypair() -> (priv32, pub32);
// shared_secret(priv32, peer_pub32) -> secret32.
//
// X25519 itself (scalar clamping, the Montgomery ladder) is treated as
// an external collaborator rather than re-derived by hand; this file is
// the concrete implementation, built on circl's constant-time X25519
// rather than re-deriving the arithmetic.
package crypto

import (
	"crypto/rand"

	"github.com/cloudflare/circl/dh/x25519"

	"github.com/sara-star-quant/tls13-client/internal/constants"
	qerrors "github.com/sara-star-quant/tls13-client/internal/errors"
)

// KeyPair holds a client X25519 ephemeral keypair. Produced exactly once
// per connection, before ClientHello emission.
type KeyPair struct {
	Private x25519.Key
	Public  x25519.Key
}

// GenerateX25519KeyPair draws a fresh private scalar from the CSPRNG and
// derives the matching public point.
func GenerateX25519KeyPair() (*KeyPair, error) {
	var kp KeyPair
	if _, err := rand.Read(kp.Private[:]); err != nil {
		return nil, qerrors.NewCryptoError("GenerateX25519KeyPair", err)
	}
	x25519.KeyGen(&kp.Public, &kp.Private)
	return &kp, nil
}

// PublicBytes returns the 32-byte wire encoding of the public key.
func (kp *KeyPair) PublicBytes() []byte {
	b := make([]byte, constants.X25519KeySize)
	copy(b, kp.Public[:])
	return b
}

// SharedSecret computes the X25519 Diffie-Hellman shared secret with a
// peer's 32-byte public key. Returns ErrKeyExchangeFailed if peerPublic
// is the wrong length or the result is the all-zero point (RFC 7748 §6.1
// flags this as a non-contributory key that MUST be rejected).
func (kp *KeyPair) SharedSecret(peerPublic []byte) ([]byte, error) {
	if len(peerPublic) != constants.X25519KeySize {
		return nil, qerrors.NewCryptoError("SharedSecret", qerrors.ErrKeyExchangeFailed)
	}

	var peer, shared x25519.Key
	copy(peer[:], peerPublic)
	x25519.Shared(&shared, &kp.Private, &peer)

	if isAllZero(shared[:]) {
		return nil, qerrors.NewCryptoError("SharedSecret", qerrors.ErrKeyExchangeFailed)
	}

	out := make([]byte, constants.X25519KeySize)
	copy(out, shared[:])
	return out, nil
}

func isAllZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return acc == 0
}

// Zeroize overwrites the private scalar so it does not linger in memory
// after the handshake completes or errors out.
func (kp *KeyPair) Zeroize() {
	for i := range kp.Private {
		kp.Private[i] = 0
	}
}
