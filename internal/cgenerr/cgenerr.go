// Package cgenerr defines the fatal error kind the generator raises when
// a consumed analysis is internally inconsistent. These are never
// recoverable mid-function: the caller abandons the function and may
// continue with others.
package cgenerr

import (
	"errors"
	"fmt"
)

// Code enumerates the invariant violations the generator can detect.
type Code uint16

const (
	// NoVariable: a term requiring a resolved variable has none.
	NoVariable Code = iota + 1
	// NoMemoryLocation: a term requiring a memory location has none.
	NoMemoryLocation
	// UnknownRegionKind: the region walker hit an unrecognized Kind.
	UnknownRegionKind
	// CompoundConditionMismatch: a compound condition's leaf jump targets
	// neither thenBB nor elseBB.
	CompoundConditionMismatch
	// MissingArgumentTerm: an expected argument term from the entry or
	// call hook could not be found.
	MissingArgumentTerm
	// MemoryLocationAccessReached: the lowerer reached a bare
	// MemoryLocationAccess term, which must always have been resolved to
	// a variable before lowering.
	MemoryLocationAccessReached
	// DereferenceOfBoundVariable: a Dereference's address term
	// unexpectedly resolved to a variable of its own.
	DereferenceOfBoundVariable
	// MissingSwitchNode: a Switch region lacked its mandatory switch node.
	MissingSwitchNode
	// UnsupportedStmtKind: the statement lowerer hit an unrecognized kind.
	UnsupportedStmtKind
	// UnsupportedTermKind: the expression lowerer hit an unrecognized kind.
	UnsupportedTermKind
)

func (c Code) String() string {
	switch c {
	case NoVariable:
		return "no-variable"
	case NoMemoryLocation:
		return "no-memory-location"
	case UnknownRegionKind:
		return "unknown-region-kind"
	case CompoundConditionMismatch:
		return "compound-condition-mismatch"
	case MissingArgumentTerm:
		return "missing-argument-term"
	case MemoryLocationAccessReached:
		return "memory-location-access-reached"
	case DereferenceOfBoundVariable:
		return "dereference-of-bound-variable"
	case MissingSwitchNode:
		return "missing-switch-node"
	case UnsupportedStmtKind:
		return "unsupported-stmt-kind"
	case UnsupportedTermKind:
		return "unsupported-term-kind"
	default:
		return "unknown"
	}
}

// InvariantViolation is the error type raised when the generator's input
// analyses are inconsistent. It carries the function name for log
// correlation; callers should treat any InvariantViolation as fatal to
// the current function's generation and nothing more.
type InvariantViolation struct {
	Code     Code
	Function string
	Message  string
}

func (e *InvariantViolation) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("cgen: %s: invariant violation (%s): %s", e.Function, e.Code, e.Message)
	}
	return fmt.Sprintf("cgen: invariant violation (%s): %s", e.Code, e.Message)
}

// New builds an InvariantViolation for fn with a formatted message.
func New(fn string, code Code, format string, args ...any) error {
	return &InvariantViolation{Code: code, Function: fn, Message: fmt.Sprintf(format, args...)}
}

// IsInvariantViolation reports whether err is (or wraps) an
// InvariantViolation.
func IsInvariantViolation(err error) bool {
	var iv *InvariantViolation
	return errors.As(err, &iv)
}
