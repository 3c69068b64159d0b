// Package errors provides the typed, recoverable error values used to
// implement spec.md §7's "recoverable failures are values, not exceptions"
// propagation policy.
package errors

import (
	"fmt"
	"time"
)

// ErrorType classifies an error for logging/metrics purposes. It is not
// used for control flow; callers that need to distinguish error kinds use
// errors.As against the concrete struct types below.
type ErrorType string

const (
	ErrorTypeParse     ErrorType = "parse"
	ErrorTypeImport    ErrorType = "import"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeTransport ErrorType = "transport"
	ErrorTypeInternal  ErrorType = "internal"
)

// ParseError wraps a lexer/parser failure with source position context.
type ParseError struct {
	Type       ErrorType
	URI        string
	Line       int
	Column     int
	Token      string
	Underlying error
	Timestamp  time.Time
}

// NewParseError creates a new parse error.
func NewParseError(uri string, line, column int, token string, err error) *ParseError {
	return &ParseError{
		Type:       ErrorTypeParse,
		URI:        uri,
		Line:       line,
		Column:     column,
		Token:      token,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s:%d:%d (near %q): %v", e.URI, e.Line, e.Column, e.Token, e.Underlying)
}

func (e *ParseError) Unwrap() error { return e.Underlying }

// ImportError represents an ImportResolutionFailure (spec.md §7): an import
// path string that could not be resolved against any of the search
// locations tried.
type ImportError struct {
	Type       ErrorType
	FromURI    string
	Path       string
	SearchList []string
	Underlying error
	Timestamp  time.Time
}

// NewImportError creates a new import-resolution error.
func NewImportError(fromURI, path string, searchList []string, err error) *ImportError {
	return &ImportError{
		Type:       ErrorTypeImport,
		FromURI:    fromURI,
		Path:       path,
		SearchList: searchList,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("cannot resolve import %q from %s (tried %v): %v", e.Path, e.FromURI, e.SearchList, e.Underlying)
}

func (e *ImportError) Unwrap() error { return e.Underlying }

// ConfigError represents a configuration validation failure.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error.
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("config error for field %s: %v", e.Field, e.Underlying)
	}
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

func (e *ConfigError) Unwrap() error { return e.Underlying }

// InternalError converts an unexpected failure caught at a pass boundary
// (parser, builder, analyzer) into a recoverable value, per spec.md §7
// "Internal invariant violations are converted to error diagnostics with an
// 'internal error' prefix; the server process continues running."
type InternalError struct {
	Component  string
	Underlying error
	Timestamp  time.Time
}

// NewInternalError creates a new internal error.
func NewInternalError(component string, err error) *InternalError {
	return &InternalError{
		Component:  component,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error in %s: %v", e.Component, e.Underlying)
}

func (e *InternalError) Unwrap() error { return e.Underlying }

// MultiError aggregates zero or more errors into one value.
type MultiError struct {
	Errors []error
}

// NewMultiError creates a MultiError, dropping any nil entries.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
	}
}

func (e *MultiError) Unwrap() []error { return e.Errors }
