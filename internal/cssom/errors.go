package cssom

import (
	"errors"
	"fmt"
)

// Errors returned while parsing declarations.
var (
	// ErrUnknownProperty indicates a declaration names an unrecognized property.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrInvalidValue indicates a value is not valid for its property.
	ErrInvalidValue = errors.New("invalid property value")

	// ErrSyntax indicates a declaration could not be tokenized or parsed.
	ErrSyntax = errors.New("declaration syntax error")
)

// DeclarationError describes a single rejected declaration. The rest of
// the block is still applied.
type DeclarationError struct {
	// Property is the property name as written.
	Property string
	// Text is the raw declaration text.
	Text string
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DeclarationError) Error() string {
	if e.Property != "" {
		return fmt.Sprintf("declaration %q: %s: %v", e.Text, e.Property, e.Err)
	}
	return fmt.Sprintf("declaration %q: %v", e.Text, e.Err)
}

// Unwrap returns the underlying error.
func (e *DeclarationError) Unwrap() error {
	return e.Err
}
