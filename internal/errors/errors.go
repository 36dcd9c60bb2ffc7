// Package errors defines the error taxonomy for the TLS 1.3 client core.
// Errors are grouped into kinds (Transport, Protocol, Crypto, Config,
// Usage) so callers can branch on category without string matching.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the handshake state machine.
var (
	// ErrIllegalTransition indicates a transition not adjacent to the
	// current state in the §4.2 adjacency table was attempted.
	ErrIllegalTransition = errors.New("tls13: illegal state transition")

	// ErrInvalidState indicates an operation was attempted in a state
	// that does not support it (e.g. Connect on a client that has already
	// left its initial state).
	ErrInvalidState = errors.New("tls13: invalid state")
)

// Sentinel errors for the key schedule.
var (
	// ErrKeyScheduleNotReady indicates a derivation step ran before its
	// prerequisite step.
	ErrKeyScheduleNotReady = errors.New("tls13: key schedule prerequisite missing")

	// ErrKeyExchangeFailed indicates X25519 produced an invalid (e.g.
	// all-zero) shared secret, or a key had the wrong length.
	ErrKeyExchangeFailed = errors.New("tls13: key exchange failed")

	// ErrUnsupportedSuite indicates a cipher suite outside the three
	// this core implements was selected or requested.
	ErrUnsupportedSuite = errors.New("tls13: unsupported cipher suite")

	// ErrFinishedMismatch indicates a Finished MAC failed to verify
	// under either transcript boundary.
	ErrFinishedMismatch = errors.New("tls13: finished verify_data mismatch")
)

// Sentinel errors for protocol/message handling.
var (
	// ErrMalformedMessage indicates a handshake message failed to decode.
	ErrMalformedMessage = errors.New("tls13: malformed handshake message")

	// ErrUnexpectedMessage indicates a message arrived that the current
	// state did not expect.
	ErrUnexpectedMessage = errors.New("tls13: unexpected handshake message")

	// ErrUnsupportedGroup indicates the server's key_share named a group
	// other than X25519 (0x001D).
	ErrUnsupportedGroup = errors.New("tls13: unsupported key-share group")

	// ErrCipherNotOffered indicates the server selected a cipher suite
	// the client did not offer.
	ErrCipherNotOffered = errors.New("tls13: server selected unoffered cipher suite")

	// ErrMessageTooLarge indicates a handshake length field exceeded
	// MaxHandshakeMessageSize.
	ErrMessageTooLarge = errors.New("tls13: handshake message too large")
)

// Sentinel errors for configuration.
var (
	// ErrMissingHostname indicates SNI is required but no hostname was
	// configured.
	ErrMissingHostname = errors.New("tls13: hostname required")

	// ErrNoCipherSuites indicates the configured cipher preference list
	// contained no suite this core recognises.
	ErrNoCipherSuites = errors.New("tls13: no recognised cipher suites configured")
)

// Sentinel errors for connection usage.
var (
	// ErrNotConnected indicates send/receive was called before the
	// handshake reached CONNECTED.
	ErrNotConnected = errors.New("tls13: not connected")

	// ErrClosed indicates an operation was attempted after Close().
	ErrClosed = errors.New("tls13: connection closed")
)

// TransportError wraps a failure from the underlying byte transport
// (connect, read, write, unexpected EOF). Always fatal for the connection.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("tls13 transport: %s: %v", e.Op, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError wraps err as a TransportError for operation op.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{Op: op, Err: err}
}

// ProtocolError wraps a malformed or illegal handshake condition. Always
// fatal; the state machine moves to ERROR when one is raised.
type ProtocolError struct {
	Phase string
	Err   error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("tls13 protocol[%s]: %v", e.Phase, e.Err) }
func (e *ProtocolError) Unwrap() error { return e.Err }

// NewProtocolError wraps err as a ProtocolError observed during phase.
func NewProtocolError(phase string, err error) *ProtocolError {
	return &ProtocolError{Phase: phase, Err: err}
}

// CryptoError wraps a cryptographic primitive failure (X25519, key
// schedule, Finished verification). Always fatal.
type CryptoError struct {
	Op  string
	Err error
}

func (e *CryptoError) Error() string { return fmt.Sprintf("tls13 crypto: %s: %v", e.Op, e.Err) }
func (e *CryptoError) Unwrap() error { return e.Err }

// NewCryptoError wraps err as a CryptoError for operation op.
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// ConfigError indicates invalid client configuration, detected before
// any I/O occurs.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("tls13 config: %s: %v", e.Field, e.Err) }
func (e *ConfigError) Unwrap() error { return e.Err }

// NewConfigError wraps err as a ConfigError for the named field.
func NewConfigError(field string, err error) *ConfigError {
	return &ConfigError{Field: field, Err: err}
}

// UsageError indicates the caller invoked the public API out of its
// documented lifecycle (send/receive before CONNECTED, or after Close).
// Fatal for the call only; connection state is unchanged.
type UsageError struct {
	Op  string
	Err error
}

func (e *UsageError) Error() string { return fmt.Sprintf("tls13 usage: %s: %v", e.Op, e.Err) }
func (e *UsageError) Unwrap() error { return e.Err }

// NewUsageError wraps err as a UsageError for operation op.
func NewUsageError(op string, err error) *UsageError {
	return &UsageError{Op: op, Err: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain assignable to target.
func As(err error, target interface{}) bool { return errors.As(err, target) }
