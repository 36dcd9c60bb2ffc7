package tls13

import "testing"

func TestStateMachinePlainSequence(t *testing.T) {
	m := NewStateMachine()
	sequence := []State{
		StateWaitServerHello,
		StateWaitEncryptedExtensions,
		StateWaitCertificate,
		StateWaitCertificateVerify,
		StateWaitFinished,
		StateConnected,
	}
	for _, target := range sequence {
		if m.CurrentState() == StateConnected {
			t.Fatalf("reached CONNECTED before consuming the whole sequence")
		}
		if err := m.TryTransition(target); err != nil {
			t.Fatalf("TryTransition(%v): %v", target, err)
		}
	}
	if !m.IsCompleted() {
		t.Errorf("IsCompleted() = false, want true")
	}
}

func TestStateMachineSkipTransitionRejected(t *testing.T) {
	m := NewStateMachine()
	if err := m.TryTransition(StateWaitCertificate); err == nil {
		t.Fatalf("expected IllegalTransition error")
	}
	if !m.IsError() {
		t.Errorf("IsError() = false, want true after illegal transition")
	}
}

func TestStateMachineErrorIsAbsorbing(t *testing.T) {
	m := NewStateMachine()
	_ = m.TryTransition(StateWaitCertificate) // forces ERROR
	if err := m.TryTransition(StateWaitServerHello); err == nil {
		t.Fatalf("expected transitions out of ERROR to be rejected")
	}
	if m.CurrentState() != StateError {
		t.Errorf("CurrentState() = %v, want ERROR", m.CurrentState())
	}
}

func TestStateMachineReset(t *testing.T) {
	m := NewStateMachine()
	_ = m.TryTransition(StateWaitCertificate)
	m.Reset()
	if m.CurrentState() != StateInitial {
		t.Errorf("CurrentState() = %v, want INITIAL", m.CurrentState())
	}
	if m.IsError() {
		t.Errorf("IsError() should be false after Reset")
	}
}
