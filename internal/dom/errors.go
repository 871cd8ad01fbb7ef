package dom

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by DOMError codes.
var (
	// ErrHierarchyRequest indicates an insertion would break the tree shape.
	ErrHierarchyRequest = errors.New("hierarchy request error")

	// ErrNotFound indicates a node is not where the operation expected it.
	ErrNotFound = errors.New("not found")

	// ErrIndexSize indicates an offset is beyond the length of its node.
	ErrIndexSize = errors.New("index size error")

	// ErrInvalidState indicates the object is not in a usable state.
	ErrInvalidState = errors.New("invalid state")

	// ErrWrongDocument indicates nodes from different trees were combined.
	ErrWrongDocument = errors.New("wrong document")

	// ErrInvalidNode indicates a handle does not name a node of the document.
	ErrInvalidNode = errors.New("invalid node")
)

// DOMError is a caller fault raised by a tree or range operation.
type DOMError struct {
	// Code is one of the sentinel errors above.
	Code error
	// Op is the operation that failed (e.g., "InsertBefore").
	Op string
	// Message describes the specific violation.
	Message string
}

func newError(code error, op, format string, args ...any) *DOMError {
	return &DOMError{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

func (e *DOMError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Code, e.Message)
}

func (e *DOMError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Code
}

// Is implements errors.Is for DOMError.
// Matches the same instance or the sentinel code.
func (e *DOMError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*DOMError); ok {
		return e == t
	}
	return errors.Is(e.Code, target)
}

// assert panics when an internal invariant does not hold.
func assert(cond bool, format string, args ...any) {
	if !cond {
		panic("assertion failed: " + fmt.Sprintf(format, args...))
	}
}
