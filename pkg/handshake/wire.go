package handshake

import (
	"bytes"
	"encoding/binary"

	qerrors "github.com/sara-star-quant/tls13-client/internal/errors"
)

// writer accumulates a TLS-encoded structure with RFC 8446's
// length-prefixed-vector conventions.
type writer struct {
	buf bytes.Buffer
}

func (w *writer) u8(v uint8)   { w.buf.WriteByte(v) }
func (w *writer) u16(v uint16) { var b [2]byte; binary.BigEndian.PutUint16(b[:], v); w.buf.Write(b[:]) }
func (w *writer) u24(v uint32) {
	w.buf.WriteByte(byte(v >> 16))
	w.buf.WriteByte(byte(v >> 8))
	w.buf.WriteByte(byte(v))
}
func (w *writer) raw(b []byte) { w.buf.Write(b) }

// vec8 writes a 1-byte length prefix followed by b.
func (w *writer) vec8(b []byte) { w.u8(uint8(len(b))); w.raw(b) }

// vec16 writes a 2-byte length prefix followed by b.
func (w *writer) vec16(b []byte) { w.u16(uint16(len(b))); w.raw(b) }

// vec24 writes a 3-byte length prefix followed by b.
func (w *writer) vec24(b []byte) { w.u24(uint32(len(b))); w.raw(b) }

func (w *writer) bytes() []byte { return w.buf.Bytes() }

// reader consumes a TLS-encoded structure, returning ErrMalformedMessage
// on any short read rather than panicking.
type reader struct {
	b   []byte
	off int
}

func newReader(b []byte) *reader { return &reader{b: b} }

func (r *reader) remaining() int { return len(r.b) - r.off }

func (r *reader) need(n int) error {
	if r.remaining() < n {
		return qerrors.ErrMalformedMessage
	}
	return nil
}

func (r *reader) u8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.b[r.off]
	r.off++
	return v, nil
}

func (r *reader) u16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint16(r.b[r.off:])
	r.off += 2
	return v, nil
}

func (r *reader) u24() (uint32, error) {
	if err := r.need(3); err != nil {
		return 0, err
	}
	v := uint32(r.b[r.off])<<16 | uint32(r.b[r.off+1])<<8 | uint32(r.b[r.off+2])
	r.off += 3
	return v, nil
}

func (r *reader) raw(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.b[r.off:r.off+n])
	r.off += n
	return out, nil
}

func (r *reader) vec8() ([]byte, error) {
	n, err := r.u8()
	if err != nil {
		return nil, err
	}
	return r.raw(int(n))
}

func (r *reader) vec16() ([]byte, error) {
	n, err := r.u16()
	if err != nil {
		return nil, err
	}
	return r.raw(int(n))
}

func (r *reader) vec24() ([]byte, error) {
	n, err := r.u24()
	if err != nil {
		return nil, err
	}
	return r.raw(int(n))
}

func (r *reader) done() bool { return r.remaining() == 0 }
