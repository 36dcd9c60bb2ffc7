package tls13

import (
	"github.com/sara-star-quant/tls13-client/internal/constants"
	"github.com/sara-star-quant/tls13-client/pkg/handshake"
)

// recordSource is the minimal capability the Reassembler needs from the
// record-layer adapter: one more plaintext record payload and its
// (decrypted) content type. Modeled as a capability rather than the
// concrete *record.Layer so the reassembler can be driven by a
// deterministic in-memory source in tests.
type recordSource interface {
	Receive() (contentType uint8, payload []byte, err error)
}

// Reassembler buffers record payloads and emits one complete handshake
// frame per call to Next. It silently discards non-
// handshake content, notably the middlebox-compat ChangeCipherSpec
// (type 20), and is a pure function of the concatenated input bytes: how
// those bytes were split across records never changes the frames it
// produces.
type Reassembler struct {
	source recordSource
	buf    []byte
}

// NewReassembler creates a Reassembler that pulls records from source.
func NewReassembler(source recordSource) *Reassembler {
	return &Reassembler{source: source}
}

// Next returns the next complete handshake frame (type[1] ||
// length_u24[3] || body), pulling and discarding non-handshake records
// as needed, and leaves any trailing partial frame buffered for the next
// call.
func (r *Reassembler) Next() ([]byte, error) {
	for {
		if frame, ok := r.tryExtract(); ok {
			return frame, nil
		}

		contentType, payload, err := r.source.Receive()
		if err != nil {
			return nil, err
		}
		if contentType != constants.ContentTypeHandshake {
			// Middlebox-compat ChangeCipherSpec and any other
			// non-handshake content is discarded without touching buf.
			continue
		}
		r.buf = append(r.buf, payload...)
	}
}

// tryExtract attempts to pull one complete frame out of the buffered
// bytes without blocking on the record source.
func (r *Reassembler) tryExtract() ([]byte, bool) {
	_, length, ok := handshake.ParseHeader(r.buf)
	if !ok {
		return nil, false
	}
	total := handshake.HeaderLen + int(length)
	if len(r.buf) < total {
		return nil, false
	}
	frame := make([]byte, total)
	copy(frame, r.buf[:total])
	r.buf = r.buf[total:]
	return frame, true
}
