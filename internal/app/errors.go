package app

import (
	"errors"
	"fmt"
)

// Engine errors.
var (
	// ErrNoDocument indicates an operation that needs a loaded document.
	ErrNoDocument = errors.New("no document loaded")

	// ErrClosed indicates the engine has been closed.
	ErrClosed = errors.New("engine closed")

	// ErrInvalidPosition indicates a position that does not name a node.
	ErrInvalidPosition = errors.New("invalid position")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "load", "layout", "project")
	Target string // Target of the operation (e.g., a file path)
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
