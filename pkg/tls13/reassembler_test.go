package tls13

import (
	"bytes"
	"io"
	"testing"

	"github.com/sara-star-quant/tls13-client/internal/constants"
)

type fakeRecord struct {
	contentType uint8
	payload     []byte
}

type fakeSource struct {
	records []fakeRecord
	pos     int
}

func (f *fakeSource) Receive() (uint8, []byte, error) {
	if f.pos >= len(f.records) {
		return 0, nil, io.EOF
	}
	r := f.records[f.pos]
	f.pos++
	return r.contentType, r.payload, nil
}

func TestReassemblerSplitsAcrossRecords(t *testing.T) {
	frame := []byte{0x02, 0x00, 0x00, 0x06, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	src := &fakeSource{records: []fakeRecord{
		{constants.ContentTypeHandshake, frame[0:3]},
		{constants.ContentTypeHandshake, frame[3:6]},
		{constants.ContentTypeHandshake, frame[6:10]},
	}}
	r := NewReassembler(src)

	got, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !bytes.Equal(got, frame) {
		t.Errorf("got %x, want %x", got, frame)
	}
	if len(r.buf) != 0 {
		t.Errorf("buffer should be empty, has %d bytes", len(r.buf))
	}
}

func TestReassemblerIgnoresChangeCipherSpec(t *testing.T) {
	frame := []byte{0x08, 0x00, 0x00, 0x02, 0x00, 0x00}
	src := &fakeSource{records: []fakeRecord{
		{constants.ContentTypeChangeCipherSpec, []byte{0x01}},
		{constants.ContentTypeHandshake, frame},
	}}
	r := NewReassembler(src)

	got, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !bytes.Equal(got, frame) {
		t.Errorf("got %x, want %x", got, frame)
	}
}

func TestReassemblerPureFunctionOfByteStream(t *testing.T) {
	frame1 := []byte{0x02, 0x00, 0x00, 0x02, 0x01, 0x02}
	frame2 := []byte{0x08, 0x00, 0x00, 0x01, 0x09}
	stream := append(append([]byte{}, frame1...), frame2...)

	splitA := &fakeSource{records: []fakeRecord{{constants.ContentTypeHandshake, stream}}}
	splitB := &fakeSource{records: []fakeRecord{
		{constants.ContentTypeHandshake, stream[:5]},
		{constants.ContentTypeHandshake, stream[5:]},
	}}

	rA := NewReassembler(splitA)
	rB := NewReassembler(splitB)

	for i := 0; i < 2; i++ {
		gotA, errA := rA.Next()
		gotB, errB := rB.Next()
		if errA != nil || errB != nil {
			t.Fatalf("Next errors: %v / %v", errA, errB)
		}
		if !bytes.Equal(gotA, gotB) {
			t.Errorf("frame %d differs: %x vs %x", i, gotA, gotB)
		}
	}
}
