package tls13

import qerrors "github.com/sara-star-quant/tls13-client/internal/errors"

// State names one phase of the handshake, naming the message the client
// expects next from the server. It is a tagged
// variant, not a class hierarchy: each value is an opaque marker, not a
// type with its own behavior.
type State int

const (
	StateInitial State = iota
	StateWaitServerHello
	StateWaitEncryptedExtensions
	StateWaitCertificate
	StateWaitCertificateVerify
	StateWaitFinished
	StateConnected
	StateError
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateWaitServerHello:
		return "wait_server_hello"
	case StateWaitEncryptedExtensions:
		return "wait_encrypted_extensions"
	case StateWaitCertificate:
		return "wait_certificate"
	case StateWaitCertificateVerify:
		return "wait_certificate_verify"
	case StateWaitFinished:
		return "wait_finished"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// adjacency is the static handshake transition table. Every state may
// additionally transition to StateError; that rule is applied uniformly
// in TryTransition rather than repeated in this table.
var adjacency = map[State]State{
	StateInitial:                 StateWaitServerHello,
	StateWaitServerHello:         StateWaitEncryptedExtensions,
	StateWaitEncryptedExtensions: StateWaitCertificate,
	StateWaitCertificate:         StateWaitCertificateVerify,
	StateWaitCertificateVerify:   StateWaitFinished,
	StateWaitFinished:            StateConnected,
}

// StateMachine sequences the handshake purely structurally; it owns no
// bytes and performs no I/O. The orchestrator is the only
// caller that drives transitions.
type StateMachine struct {
	current State
}

// NewStateMachine returns a machine in StateInitial.
func NewStateMachine() *StateMachine {
	return &StateMachine{current: StateInitial}
}

// CurrentState returns the machine's current state.
func (m *StateMachine) CurrentState() State {
	return m.current
}

// IsCompleted reports whether the machine reached CONNECTED.
func (m *StateMachine) IsCompleted() bool {
	return m.current == StateConnected
}

// IsError reports whether the machine is in the absorbing ERROR state.
func (m *StateMachine) IsError() bool {
	return m.current == StateError
}

// Reset returns the machine to StateInitial, clearing any error.
func (m *StateMachine) Reset() {
	m.current = StateInitial
}

// TryTransition validates target against the adjacency table. ERROR is
// absorbing: every transition attempted from it is rejected without
// further effect. Any other illegal transition moves the machine to
// ERROR before reporting IllegalTransition.
func (m *StateMachine) TryTransition(target State) error {
	if m.current == StateError {
		return qerrors.ErrIllegalTransition
	}
	if target == StateError {
		m.current = StateError
		return nil
	}
	if next, ok := adjacency[m.current]; !ok || next != target {
		m.current = StateError
		return qerrors.ErrIllegalTransition
	}
	m.current = target
	return nil
}
