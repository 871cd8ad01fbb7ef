package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrSettingNotFound indicates the setting path doesn't exist.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrValidationFailed indicates a setting is out of range or malformed.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNotLoaded indicates Reload was called before Load.
	ErrNotLoaded = errors.New("configuration not loaded")
)

// TypeError indicates a setting holds a value of the wrong type.
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// ValidationError describes a setting whose value is not acceptable.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Message describes the problem.
	Message string
	// Value is the invalid value.
	Value any
	// Code categorizes the validation error.
	Code ValidationErrorCode
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}

// Is reports ErrValidationFailed as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// ValidationErrorCode categorizes validation errors.
type ValidationErrorCode uint8

const (
	// ErrCodeOutOfRange indicates a numeric value is out of range.
	ErrCodeOutOfRange ValidationErrorCode = iota
	// ErrCodeInvalidEnum indicates the value is not one of the allowed names.
	ErrCodeInvalidEnum
	// ErrCodeMalformed indicates the value could not be parsed.
	ErrCodeMalformed
)

// String returns a human-readable name for the error code.
func (c ValidationErrorCode) String() string {
	switch c {
	case ErrCodeOutOfRange:
		return "out_of_range"
	case ErrCodeInvalidEnum:
		return "invalid_enum"
	case ErrCodeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}
