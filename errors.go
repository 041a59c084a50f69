package barb

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrorKind is one of the named error kinds from spec.md §7. Kinds are
// deliberately not a Go error type hierarchy — they're compared via
// errors.Is against the package-level sentinels below, while the
// concrete BarbExecutionError carries the offset/length/trace detail.
type ErrorKind string

const (
	ErrKindUnboundName               ErrorKind = "unbound-name"
	ErrKindUnknownName                ErrorKind = "unknown-name"
	ErrKindGeneratorArgUnresolved     ErrorKind = "generator-arg-unresolved"
	ErrKindAndLHSNotBool              ErrorKind = "and-lhs-not-bool"
	ErrKindOrLHSNotBool               ErrorKind = "or-lhs-not-bool"
	ErrKindStaticDepthUnsupported     ErrorKind = "static-depth-unsupported"
	ErrKindMixedPropertyMethodNested  ErrorKind = "mixed-property-method-nested-invoke"
	ErrKindAmbiguousStaticResolution  ErrorKind = "ambiguous-static-resolution"
	ErrKindHostInvocationFailed       ErrorKind = "host-invocation-failed"
	ErrKindBadTupleIndex              ErrorKind = "bad-tuple-index"
	ErrKindBadGeneratorTypes          ErrorKind = "bad-generator-types"
	ErrKindUnexpectedResult           ErrorKind = "unexpected-result"
	ErrKindUnexpectedCase             ErrorKind = "unexpected-case"
	ErrKindCondNotBool                ErrorKind = "condition-not-bool"
)

// Sentinel errors, one per kind, so callers can errors.Is(err,
// ErrUnboundName) without unpacking a BarbExecutionError.
var (
	ErrUnboundName              = errors.New(string(ErrKindUnboundName))
	ErrUnknownName               = errors.New(string(ErrKindUnknownName))
	ErrGeneratorArgUnresolved    = errors.New(string(ErrKindGeneratorArgUnresolved))
	ErrAndLHSNotBool             = errors.New(string(ErrKindAndLHSNotBool))
	ErrOrLHSNotBool              = errors.New(string(ErrKindOrLHSNotBool))
	ErrStaticDepthUnsupported    = errors.New(string(ErrKindStaticDepthUnsupported))
	ErrMixedPropertyMethodNested = errors.New(string(ErrKindMixedPropertyMethodNested))
	ErrAmbiguousStaticResolution = errors.New(string(ErrKindAmbiguousStaticResolution))
	ErrHostInvocationFailed      = errors.New(string(ErrKindHostInvocationFailed))
	ErrBadTupleIndex             = errors.New(string(ErrKindBadTupleIndex))
	ErrBadGeneratorTypes         = errors.New(string(ErrKindBadGeneratorTypes))
	ErrUnexpectedResult          = errors.New(string(ErrKindUnexpectedResult))
	ErrUnexpectedCase            = errors.New(string(ErrKindUnexpectedCase))
	ErrCondNotBool               = errors.New(string(ErrKindCondNotBool))
)

var sentinelByKind = map[ErrorKind]error{
	ErrKindUnboundName:               ErrUnboundName,
	ErrKindUnknownName:               ErrUnknownName,
	ErrKindGeneratorArgUnresolved:    ErrGeneratorArgUnresolved,
	ErrKindAndLHSNotBool:             ErrAndLHSNotBool,
	ErrKindOrLHSNotBool:              ErrOrLHSNotBool,
	ErrKindStaticDepthUnsupported:    ErrStaticDepthUnsupported,
	ErrKindMixedPropertyMethodNested: ErrMixedPropertyMethodNested,
	ErrKindAmbiguousStaticResolution: ErrAmbiguousStaticResolution,
	ErrKindHostInvocationFailed:      ErrHostInvocationFailed,
	ErrKindBadTupleIndex:             ErrBadTupleIndex,
	ErrKindBadGeneratorTypes:         ErrBadGeneratorTypes,
	ErrKindUnexpectedResult:          ErrUnexpectedResult,
	ErrKindUnexpectedCase:            ErrUnexpectedCase,
	ErrKindCondNotBool:               ErrCondNotBool,
}

// BarbExecutionError is the error surface raised by a final reduction.
// Offset/Length locate the offending node(s) in the original source;
// Trace names the kind of the node the error was raised at
// ("kind=<Kind>"). TraceID correlates this error across a
// diagnostic dump when several are aggregated by MultiError.
type BarbExecutionError struct {
	Kind    ErrorKind
	Message string
	Trace   string
	Offset  uint32
	Length  uint32
	TraceID uuid.UUID

	cause error
}

func newExecError(kind ErrorKind, offset, length uint32, trace, format string, args ...any) *BarbExecutionError {
	return &BarbExecutionError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Trace:   trace,
		Offset:  offset,
		Length:  length,
		TraceID: uuid.New(),
		cause:   sentinelByKind[kind],
	}
}

func (e *BarbExecutionError) Error() string {
	return fmt.Sprintf("barb: %s at [%d,%d): %s (trace %s)", e.Kind, e.Offset, e.Offset+e.Length, e.Message, e.TraceID)
}

// Unwrap exposes the kind sentinel so callers can errors.Is(err,
// ErrUnboundName) and similar against a concrete *BarbExecutionError.
func (e *BarbExecutionError) Unwrap() error { return e.cause }

// wrapHostError attaches an underlying host-invocation error, translating it
// into the host-invocation-failed kind per spec.md §7's propagation
// policy ("the reducer catches host-invocation errors and re-raises them
// as BarbExecutionError with the operand's source span").
func wrapHostError(err error, offset, length uint32, trace string) *BarbExecutionError {
	be := newExecError(ErrKindHostInvocationFailed, offset, length, trace, "host invocation failed: %v", err)
	be.cause = err
	return be
}

// MultiError aggregates every BarbExecutionError a final reduction would
// have raised when Settings.FailOnCatchAll is false: the walker's
// terminal "unexpected case" and other isolated errors are collected
// rather than aborting the pass, and the residual nodes are still
// returned alongside it (see the Open Question note in spec.md §9,
// resolved as "diagnostics are collected, not discarded" — see
// SPEC_FULL.md §11). The shape mirrors the teacher's own
// DepSummary.Diagnostics accumulation.
type MultiError struct {
	Errors []*BarbExecutionError
}

func (m *MultiError) Error() string {
	if m == nil || len(m.Errors) == 0 {
		return "barb: no errors"
	}
	parts := make([]string, len(m.Errors))
	for i, e := range m.Errors {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

func (m *MultiError) add(e *BarbExecutionError) {
	m.Errors = append(m.Errors, e)
}

func (m *MultiError) asError() error {
	if m == nil || len(m.Errors) == 0 {
		return nil
	}
	return m
}
