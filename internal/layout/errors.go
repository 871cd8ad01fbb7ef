package layout

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNotImplemented indicates a layout feature that is recognized but
	// not supported.
	ErrNotImplemented = errors.New("not implemented")

	// ErrNoDocumentElement indicates the document has nothing to lay out.
	ErrNoDocumentElement = errors.New("document has no document element")
)

// FeatureError reports an unsupported feature met during layout.
type FeatureError struct {
	Feature string
	Node    string
	Err     error
}

// Error implements the error interface.
func (e *FeatureError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%s on <%s>: %v", e.Feature, e.Node, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Feature, e.Err)
}

// Unwrap returns the underlying error.
func (e *FeatureError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
func (e *FeatureError) Is(target error) bool {
	if e == target {
		return true
	}
	return errors.Is(e.Err, target)
}

func notImplemented(feature, node string) error {
	return &FeatureError{Feature: feature, Node: node, Err: ErrNotImplemented}
}

// assert panics when an internal invariant does not hold.
func assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}
