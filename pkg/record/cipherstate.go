// Package record implements the record-layer adapter: a thin facade
// over the wire connection that performs AEAD encrypt/decrypt and
// sequence-number management, and swaps cipher state on each
// key-schedule epoch change. The AEAD nonce construction follows RFC
// 8446 §5.3 (static IV XOR big-endian sequence number).
package record

import "github.com/sara-star-quant/tls13-client/internal/constants"

// CipherState is the (suite, key, iv, starting_sequence) tuple used by
// install_read_cipher_state/install_write_cipher_state.
type CipherState struct {
	Suite constants.CipherSuite
	Key   []byte
	IV    []byte // 12 bytes, the static per-direction IV (RFC 8446 §5.3)
}

// NewCipherState builds a CipherState. Sequence numbers always start at
// zero on installation (RFC 8446 §5.3); there is no field for it because
// every installed state begins counting fresh.
func NewCipherState(suite constants.CipherSuite, key, iv []byte) CipherState {
	return CipherState{Suite: suite, Key: append([]byte(nil), key...), IV: append([]byte(nil), iv...)}
}

// nonce computes the per-record nonce: the static IV with its rightmost
// 8 bytes XORed against the big-endian sequence number (RFC 8446 §5.3).
func nonce(iv []byte, seq uint64) []byte {
	n := make([]byte, len(iv))
	copy(n, iv)
	for i := 0; i < 8; i++ {
		n[len(n)-1-i] ^= byte(seq >> (8 * i))
	}
	return n
}
