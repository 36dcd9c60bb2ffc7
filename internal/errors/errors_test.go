package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestTransportError(t *testing.T) {
	baseErr := errors.New("connection reset")
	terr := NewTransportError("Receive", baseErr)

	errStr := terr.Error()
	if !strings.Contains(errStr, "Receive") {
		t.Errorf("Error string should contain operation: %q", errStr)
	}
	if !strings.Contains(errStr, "connection reset") {
		t.Errorf("Error string should contain base error: %q", errStr)
	}
	if terr.Unwrap() != baseErr {
		t.Errorf("Unwrap() = %v, want %v", terr.Unwrap(), baseErr)
	}
	if terr.Op != "Receive" || terr.Err != baseErr {
		t.Errorf("fields not set correctly: %+v", terr)
	}
}

func TestProtocolError(t *testing.T) {
	baseErr := errors.New("invalid message")
	perr := NewProtocolError("ServerHello", baseErr)

	errStr := perr.Error()
	if !strings.Contains(errStr, "ServerHello") {
		t.Errorf("Error string should contain phase: %q", errStr)
	}
	if !strings.Contains(errStr, "invalid message") {
		t.Errorf("Error string should contain base error: %q", errStr)
	}
	if perr.Unwrap() != baseErr {
		t.Errorf("Unwrap() = %v, want %v", perr.Unwrap(), baseErr)
	}
	if perr.Phase != "ServerHello" || perr.Err != baseErr {
		t.Errorf("fields not set correctly: %+v", perr)
	}
}

func TestCryptoError(t *testing.T) {
	baseErr := ErrKeyExchangeFailed
	cerr := NewCryptoError("SharedSecret", baseErr)

	errStr := cerr.Error()
	if !strings.Contains(errStr, "SharedSecret") {
		t.Errorf("Error string should contain operation: %q", errStr)
	}
	if cerr.Unwrap() != baseErr {
		t.Errorf("Unwrap() = %v, want %v", cerr.Unwrap(), baseErr)
	}
}

func TestConfigError(t *testing.T) {
	cerr := NewConfigError("hostname", ErrMissingHostname)
	if !strings.Contains(cerr.Error(), "hostname") {
		t.Errorf("Error string should contain field: %q", cerr.Error())
	}
	if cerr.Unwrap() != ErrMissingHostname {
		t.Errorf("Unwrap() = %v, want %v", cerr.Unwrap(), ErrMissingHostname)
	}
}

func TestUsageError(t *testing.T) {
	uerr := NewUsageError("SendData", ErrNotConnected)
	if !strings.Contains(uerr.Error(), "SendData") {
		t.Errorf("Error string should contain operation: %q", uerr.Error())
	}
	if uerr.Unwrap() != ErrNotConnected {
		t.Errorf("Unwrap() = %v, want %v", uerr.Unwrap(), ErrNotConnected)
	}
}

func TestIsFunction(t *testing.T) {
	err := ErrInvalidState
	if !Is(err, ErrInvalidState) {
		t.Error("Is() should return true for matching sentinel error")
	}

	wrapped := NewCryptoError("operation", ErrFinishedMismatch)
	if !Is(wrapped, ErrFinishedMismatch) {
		t.Error("Is() should return true for wrapped sentinel error")
	}

	if Is(err, ErrFinishedMismatch) {
		t.Error("Is() should return false for non-matching error")
	}
}

func TestAsFunction(t *testing.T) {
	cerr := NewCryptoError("test-op", ErrKeyExchangeFailed)

	var target *CryptoError
	if !As(cerr, &target) {
		t.Error("As() should return true for matching type")
	}
	if target.Op != "test-op" {
		t.Errorf("As() extracted Op = %q, want %q", target.Op, "test-op")
	}

	var protocolErr *ProtocolError
	if As(cerr, &protocolErr) {
		t.Error("As() should return false for non-matching type")
	}
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrIllegalTransition", ErrIllegalTransition},
		{"ErrInvalidState", ErrInvalidState},
		{"ErrKeyScheduleNotReady", ErrKeyScheduleNotReady},
		{"ErrKeyExchangeFailed", ErrKeyExchangeFailed},
		{"ErrUnsupportedSuite", ErrUnsupportedSuite},
		{"ErrFinishedMismatch", ErrFinishedMismatch},
		{"ErrMalformedMessage", ErrMalformedMessage},
		{"ErrUnexpectedMessage", ErrUnexpectedMessage},
		{"ErrUnsupportedGroup", ErrUnsupportedGroup},
		{"ErrCipherNotOffered", ErrCipherNotOffered},
		{"ErrMessageTooLarge", ErrMessageTooLarge},
		{"ErrMissingHostname", ErrMissingHostname},
		{"ErrNoCipherSuites", ErrNoCipherSuites},
		{"ErrNotConnected", ErrNotConnected},
		{"ErrClosed", ErrClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Errorf("%s is nil", tt.name)
			}
			if tt.err.Error() == "" {
				t.Errorf("%s.Error() returned empty string", tt.name)
			}
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	baseErr := ErrKeyExchangeFailed
	wrapped := NewCryptoError("x25519-shared-secret", baseErr)

	if !errors.Is(wrapped, baseErr) {
		t.Error("Wrapped error should match base error with errors.Is")
	}

	doubleWrapped := NewProtocolError("ServerHello", wrapped)
	if !errors.Is(doubleWrapped, baseErr) {
		t.Error("Double-wrapped error should still match base error")
	}

	var cryptoErr *CryptoError
	if !errors.As(doubleWrapped, &cryptoErr) {
		t.Error("Should be able to extract CryptoError from double-wrapped error")
	}
	if cryptoErr.Op != "x25519-shared-secret" {
		t.Errorf("Extracted Op = %q, want %q", cryptoErr.Op, "x25519-shared-secret")
	}
}

func TestMixedErrorTypes(t *testing.T) {
	cryptoErr := NewCryptoError("Finished", ErrFinishedMismatch)
	protocolErr := NewProtocolError("handshake", cryptoErr)

	var ce *CryptoError
	if !errors.As(protocolErr, &ce) {
		t.Error("Should be able to extract CryptoError from ProtocolError wrapper")
	}

	var pe *ProtocolError
	if !errors.As(protocolErr, &pe) {
		t.Error("Should be able to extract ProtocolError")
	}

	if !errors.Is(protocolErr, ErrFinishedMismatch) {
		t.Error("Should match base sentinel error through multiple wrappers")
	}
}

func TestNilErrorHandling(t *testing.T) {
	if Is(nil, ErrInvalidState) {
		t.Error("Is(nil, target) should return false")
	}

	var target *CryptoError
	if As(nil, &target) {
		t.Error("As(nil, target) should return false")
	}
}
