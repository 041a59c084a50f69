package barb

import (
	"errors"
	"testing"
)

func TestExecErrorIsSentinel(t *testing.T) {
	err := newExecError(ErrKindUnboundName, 0, 3, "", "unbound name %q", "x")
	if !errors.Is(err, ErrUnboundName) {
		t.Fatalf("expected errors.Is to match the unbound-name sentinel")
	}
	if errors.Is(err, ErrUnknownName) {
		t.Fatalf("expected errors.Is not to match an unrelated sentinel")
	}
}

func TestWrapHostErrorPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	wrapped := wrapHostError(cause, 1, 2, "trace")
	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected the wrapped error to unwrap to its cause")
	}
	if wrapped.Kind != ErrKindHostInvocationFailed {
		t.Fatalf("expected host-invocation-failed kind, got %v", wrapped.Kind)
	}
}

func TestMultiErrorAggregates(t *testing.T) {
	m := &MultiError{}
	if m.asError() != nil {
		t.Fatalf("expected an empty MultiError to resolve to nil")
	}
	m.add(newExecError(ErrKindUnboundName, 0, 1, "", "a"))
	m.add(newExecError(ErrKindUnknownName, 1, 1, "", "b"))
	err := m.asError()
	if err == nil {
		t.Fatalf("expected a non-nil error once entries exist")
	}
	if len(m.Errors) != 2 {
		t.Fatalf("expected 2 aggregated errors, got %d", len(m.Errors))
	}
}

func TestBarbExecutionErrorMessage(t *testing.T) {
	err := newExecError(ErrKindCondNotBool, 4, 2, "trace", "boom %d", 9)
	msg := err.Error()
	if msg == "" {
		t.Fatalf("expected a non-empty error string")
	}
}
