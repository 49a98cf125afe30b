package engine

import (
	"errors"
	"fmt"
)

// Op names the engine operation that failed.
type Op string

const (
	OpCreate  Op = "create"
	OpApply   Op = "apply"
	OpRemove  Op = "remove"
	OpOptions Op = "options"
)

// ErrDestroyed is returned by operations on a destroyed instance.
var ErrDestroyed = errors.New("engine instance destroyed")

// ErrUnknownGroup is returned when a group is not part of the loaded outfit config.
var ErrUnknownGroup = errors.New("unknown group")

// RenderError is the typed failure reported by engine operations.
type RenderError struct {
	Op    Op
	Group string
	Err   error
}

// Error implements error.
func (e *RenderError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("%s %q: %v", e.Op, e.Group, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// NewRenderError wraps err as a RenderError.
func NewRenderError(op Op, group string, err error) *RenderError {
	return &RenderError{Op: op, Group: group, Err: err}
}

// IsRenderError reports whether err is or wraps a *RenderError.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
