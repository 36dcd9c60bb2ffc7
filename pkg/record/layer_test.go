package record

import (
	"bytes"
	"net"
	"testing"

	"github.com/sara-star-quant/tls13-client/internal/constants"
)

func TestPlaintextSendReceive(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cl := New(client)
	sv := New(server)

	done := make(chan struct{})
	go func() {
		defer close(done)
		typ, payload, err := sv.Receive()
		if err != nil {
			t.Errorf("Receive: %v", err)
			return
		}
		if typ != constants.ContentTypeHandshake {
			t.Errorf("type = %d, want %d", typ, constants.ContentTypeHandshake)
		}
		if !bytes.Equal(payload, []byte("client hello body")) {
			t.Errorf("payload = %q", payload)
		}
	}()

	if err := cl.Send(constants.ContentTypeHandshake, []byte("client hello body")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	<-done
}

func TestEncryptedSendReceive(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cl := New(client)
	sv := New(server)

	key := bytes.Repeat([]byte{0x11}, 16)
	iv := bytes.Repeat([]byte{0x22}, 12)
	state := NewCipherState(constants.TLS_AES_128_GCM_SHA256, key, iv)

	if err := cl.InstallWriteCipherState(state); err != nil {
		t.Fatalf("InstallWriteCipherState: %v", err)
	}
	if err := sv.InstallReadCipherState(state); err != nil {
		t.Fatalf("InstallReadCipherState: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		typ, payload, err := sv.Receive()
		if err != nil {
			t.Errorf("Receive: %v", err)
			return
		}
		if typ != constants.ContentTypeApplicationData {
			t.Errorf("type = %d, want application_data", typ)
		}
		if !bytes.Equal(payload, []byte("hello over tls")) {
			t.Errorf("payload = %q", payload)
		}
	}()

	if err := cl.Send(constants.ContentTypeApplicationData, []byte("hello over tls")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	<-done
}

func TestReceivePassesThroughChangeCipherSpecAfterReadStateInstalled(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cl := New(client)
	sv := New(server)

	key := bytes.Repeat([]byte{0x11}, 16)
	iv := bytes.Repeat([]byte{0x22}, 12)
	state := NewCipherState(constants.TLS_AES_128_GCM_SHA256, key, iv)
	if err := sv.InstallReadCipherState(state); err != nil {
		t.Fatalf("InstallReadCipherState: %v", err)
	}

	// A server following the RFC 8446 §D.4 middlebox-compat convention
	// sends a plaintext ChangeCipherSpec after ServerHello, while the
	// client's read cipher state is already installed for the handshake
	// epoch. Receive must hand this back verbatim rather than attempting
	// (and failing) an AEAD open against it.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := cl.Send(constants.ContentTypeChangeCipherSpec, []byte{0x01}); err != nil {
			t.Errorf("Send: %v", err)
		}
	}()

	typ, payload, err := sv.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if typ != constants.ContentTypeChangeCipherSpec {
		t.Errorf("type = %d, want ChangeCipherSpec", typ)
	}
	if !bytes.Equal(payload, []byte{0x01}) {
		t.Errorf("payload = %v, want [0x01]", payload)
	}
	<-done

	// The read sequence number must not have advanced: a genuinely
	// encrypted record sent next should still decrypt with sequence 0.
	go func() {
		_ = cl.InstallWriteCipherState(state)
		_ = cl.Send(constants.ContentTypeApplicationData, []byte("first app data"))
	}()
	typ, payload, err = sv.Receive()
	if err != nil {
		t.Fatalf("Receive after CCS passthrough: %v", err)
	}
	if typ != constants.ContentTypeApplicationData {
		t.Errorf("type = %d, want application_data", typ)
	}
	if !bytes.Equal(payload, []byte("first app data")) {
		t.Errorf("payload = %q", payload)
	}
}

func TestReceiveRejectsTamperedCiphertext(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cl := New(client)
	sv := New(server)

	key := bytes.Repeat([]byte{0x33}, 32)
	iv := bytes.Repeat([]byte{0x44}, 12)
	state := NewCipherState(constants.TLS_CHACHA20_POLY1305_SHA256, key, iv)

	if err := cl.InstallWriteCipherState(state); err != nil {
		t.Fatalf("InstallWriteCipherState: %v", err)
	}
	if err := sv.InstallReadCipherState(state); err != nil {
		t.Fatalf("InstallReadCipherState: %v", err)
	}

	go func() {
		_ = cl.Send(constants.ContentTypeApplicationData, []byte("tamper me"))
	}()

	// A mismatched read cipher state should surface as an AEAD failure
	// rather than a panic, standing in for wire tampering.
	wrongState := NewCipherState(constants.TLS_CHACHA20_POLY1305_SHA256, bytes.Repeat([]byte{0x55}, 32), iv)
	if err := sv.InstallReadCipherState(wrongState); err != nil {
		t.Fatalf("InstallReadCipherState: %v", err)
	}
	if _, _, err := sv.Receive(); err == nil {
		t.Errorf("Receive should fail AEAD verification with mismatched key")
	}
}
