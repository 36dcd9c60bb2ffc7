// Package tls13 implements the core of a TLS 1.3 client: the handshake
// state machine, the HKDF-based key schedule, the handshake-message
// reassembler, and the orchestrator that drives a plaintext TCP stream
// through a full handshake into authenticated application-data exchange.
package tls13

import "bytes"

// Transcript is the append-only accumulator of complete handshake
// message frames in wire order, used both to hash for key derivation
// and to key the Finished MAC. It owns no interpretation of message
// contents; it only remembers bytes.
type Transcript struct {
	buf bytes.Buffer
}

// Append adds a complete handshake frame (type[1] || length_u24[3] ||
// body) to the transcript. Callers must append in wire order exactly
// once per message; notably, ServerFinished is appended only after its
// MAC has been verified.
func (t *Transcript) Append(frame []byte) {
	t.buf.Write(frame)
}

// Bytes returns the current transcript contents. The returned slice
// aliases the transcript's internal buffer and must not be mutated by
// callers that intend to keep appending.
func (t *Transcript) Bytes() []byte {
	return t.buf.Bytes()
}

// Snapshot returns a copy of the current transcript contents, safe to
// retain across further Append calls (used to keep the
// up-to-CertificateVerify boundary around while ServerFinished's
// alternative-boundary MAC is evaluated).
func (t *Transcript) Snapshot() []byte {
	out := make([]byte, t.buf.Len())
	copy(out, t.buf.Bytes())
	return out
}

// Len reports the current transcript length in bytes.
func (t *Transcript) Len() int {
	return t.buf.Len()
}
