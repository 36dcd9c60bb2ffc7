package record

import (
	"bufio"
	"encoding/binary"
	"io"
	"net"
	"sync"

	"github.com/sara-star-quant/tls13-client/internal/constants"
	qerrors "github.com/sara-star-quant/tls13-client/internal/errors"
	"github.com/sara-star-quant/tls13-client/pkg/crypto"
)

// outerHeaderLen is the fixed TLSPlaintext/TLSCiphertext record header:
// content type (1), legacy_record_version (2), length (2).
const outerHeaderLen = 5

// Layer is the Record-Layer Adapter: it hands the
// orchestrator content-type/payload pairs and internally manages
// fragmentation, AEAD sealing/opening, and the read/write sequence
// numbers, swapping cipher state whenever the key schedule advances to
// a new epoch via InstallReadCipherState/InstallWriteCipherState.
type Layer struct {
	conn   net.Conn
	reader *bufio.Reader

	writeMu    sync.Mutex
	writeState *installedCipher
	writeSeq   uint64

	readMu    sync.Mutex
	readState *installedCipher
	readSeq   uint64
}

type installedCipher struct {
	state CipherState
	aead  interface {
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
		Overhead() int
		NonceSize() int
	}
}

// New wraps conn as a record layer with no cipher state installed; the
// first records sent/received (ClientHello, ChangeCipherSpec) are
// plaintext, content types 22 (handshake) and 20 (change_cipher_spec).
func New(conn net.Conn) *Layer {
	return &Layer{conn: conn, reader: bufio.NewReaderSize(conn, 16*1024)}
}

// InstallWriteCipherState installs the AEAD key/IV used for subsequent
// Send calls and resets the write sequence number to zero.
func (l *Layer) InstallWriteCipherState(state CipherState) error {
	aead, err := crypto.NewAEAD(state.Suite, state.Key)
	if err != nil {
		return err
	}
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	l.writeState = &installedCipher{state: state, aead: aead}
	l.writeSeq = 0
	return nil
}

// InstallReadCipherState installs the AEAD key/IV used for subsequent
// Receive calls and resets the read sequence number to zero.
func (l *Layer) InstallReadCipherState(state CipherState) error {
	aead, err := crypto.NewAEAD(state.Suite, state.Key)
	if err != nil {
		return err
	}
	l.readMu.Lock()
	defer l.readMu.Unlock()
	l.readState = &installedCipher{state: state, aead: aead}
	l.readSeq = 0
	return nil
}

// Send hands payload to the wire under the currently installed write
// cipher state, fragmenting across multiple records when payload
// exceeds the 2^14 record-size limit (RFC 8446 §5.1).
func (l *Layer) Send(contentType uint8, payload []byte) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if len(payload) == 0 {
		return l.sendFragment(contentType, nil)
	}
	for off := 0; off < len(payload); off += constants.MaxRecordPayloadSize {
		end := off + constants.MaxRecordPayloadSize
		if end > len(payload) {
			end = len(payload)
		}
		if err := l.sendFragment(contentType, payload[off:end]); err != nil {
			return err
		}
	}
	return nil
}

func (l *Layer) sendFragment(contentType uint8, fragment []byte) error {
	var outerType uint8
	var body []byte

	if l.writeState == nil {
		outerType = contentType
		body = fragment
	} else {
		outerType = constants.ContentTypeApplicationData
		inner := make([]byte, 0, len(fragment)+1)
		inner = append(inner, fragment...)
		inner = append(inner, contentType)

		header := recordHeader(outerType, len(inner)+l.writeState.aead.Overhead())
		n := nonce(l.writeState.state.IV, l.writeSeq)
		body = l.writeState.aead.Seal(nil, n, inner, header)
		l.writeSeq++
	}

	header := recordHeader(outerType, len(body))
	if _, err := l.conn.Write(header); err != nil {
		return qerrors.NewTransportError("Send", err)
	}
	if _, err := l.conn.Write(body); err != nil {
		return qerrors.NewTransportError("Send", err)
	}
	return nil
}

func recordHeader(contentType uint8, length int) []byte {
	h := make([]byte, outerHeaderLen)
	h[0] = contentType
	binary.BigEndian.PutUint16(h[1:3], constants.LegacyVersionTLS12)
	binary.BigEndian.PutUint16(h[3:5], uint16(length))
	return h
}

// Receive reads one wire record and returns its inner (decrypted, for
// encrypted records) content type and payload. The returned
// content_type is the type the orchestrator should act on; an AEAD
// verification failure is returned as an error so the caller can apply
// its own skip-and-continue policy for non-fatal content types.
func (l *Layer) Receive() (contentType uint8, payload []byte, err error) {
	l.readMu.Lock()
	defer l.readMu.Unlock()

	header := make([]byte, outerHeaderLen)
	if _, err := io.ReadFull(l.reader, header); err != nil {
		return 0, nil, qerrors.NewTransportError("Receive", err)
	}
	outerType := header[0]
	length := binary.BigEndian.Uint16(header[3:5])

	body := make([]byte, length)
	if _, err := io.ReadFull(l.reader, body); err != nil {
		return 0, nil, qerrors.NewTransportError("Receive", err)
	}

	// A plaintext ChangeCipherSpec can arrive at any point in the
	// handshake (RFC 8446 §D.4 middlebox-compat convention): its outer
	// type is never AEAD-wrapped, so it must be recognized here before
	// any installed read cipher state is even consulted, not caught
	// after a failed Open.
	if outerType == constants.ContentTypeChangeCipherSpec {
		return outerType, body, nil
	}

	if l.readState == nil {
		return outerType, body, nil
	}

	n := nonce(l.readState.state.IV, l.readSeq)
	plain, aeadErr := l.readState.aead.Open(nil, n, body, header)
	l.readSeq++
	if aeadErr != nil {
		return 0, nil, qerrors.NewCryptoError("Receive", qerrors.ErrMalformedMessage)
	}

	innerType, content, err := stripInnerType(plain)
	if err != nil {
		return 0, nil, err
	}
	return innerType, content, nil
}

// stripInnerType removes TLSInnerPlaintext's trailing zero padding and
// reports the real content type carried after the content (RFC 8446
// §5.2). This implementation never pads outbound records, so inbound
// unpadded records are the common case; padding from a real server is
// still honored.
func stripInnerType(plain []byte) (uint8, []byte, error) {
	i := len(plain) - 1
	for i >= 0 && plain[i] == 0 {
		i--
	}
	if i < 0 {
		return 0, nil, qerrors.NewProtocolError("stripInnerType", qerrors.ErrMalformedMessage)
	}
	return plain[i], plain[:i], nil
}

// Close closes the underlying connection.
func (l *Layer) Close() error {
	return l.conn.Close()
}
