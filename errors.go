package tablebind

import (
	"errors"
	"fmt"
)

var (
	// ErrRefusedCall indicates that safe resolution encountered a callable
	// which is marked as data mutating, and refused to invoke it.
	ErrRefusedCall = errors.New("refusing to invoke data mutating callable")

	// ErrUnknownOrderBy indicates that a requested sort key is not
	// part of an OrderByTuple.
	ErrUnknownOrderBy = errors.New("unknown order by")

	// ErrIndexOutOfRange indicates that a positional lookup exceeded
	// the bounds of the looked up collection.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ConfigurationError indicates an invalid declaration or an invalid
// combination of arguments. Configuration errors surface when a table
// or column set is assembled, and are never swallowed.
type ConfigurationError struct {
	Reason string
}

func (e ConfigurationError) Error() string {
	return e.Reason
}

// ResolutionError indicates that an accessor path could not be resolved
// against a given context. It names the failing path component, the value
// it failed against, and the full accessor to make traversal bugs tractable.
type ResolutionError struct {
	Bit      string
	Context  interface{}
	Accessor Accessor

	cause error
}

func (e ResolutionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("failed to resolve %q of accessor %q against %v: %v", e.Bit, e.Accessor, e.Context, e.cause)
	}

	return fmt.Sprintf("failed to resolve %q of accessor %q against %v", e.Bit, e.Accessor, e.Context)
}

func (e ResolutionError) Unwrap() error {
	return e.cause
}
