package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for common catalog generation failure conditions.
var (
	ErrBadValue      = errors.New("catalog: value cannot be represented")
	ErrBadExpression = errors.New("catalog: expression is invalid")
	ErrMissingFile   = errors.New("catalog: referenced file not found")
	ErrBadConfig     = errors.New("catalog: configuration is invalid")
	ErrPrimaryGroup  = errors.New("catalog: primary group needs one or two parameters")
	ErrNoModels      = errors.New("catalog: no models found")
	ErrUnknownName   = errors.New("catalog: unknown parameter name")
)

// BuildError represents an error that occurred during a specific
// catalog operation. It wraps an underlying error and includes the
// operation name for context.
type BuildError struct {
	Op  string // operation name, e.g. "Process", "Expand"
	Err error  // underlying error
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog.%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("catalog.%s: unknown error", e.Op)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// newBuildError creates a new BuildError wrapping the given error with operation context.
func newBuildError(op string, err error) *BuildError {
	return &BuildError{Op: op, Err: err}
}
