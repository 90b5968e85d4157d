// Package errors provides custom error types for the catalogsync system.
// Remote catalog failures are classified into a closed set of kinds so call
// sites can switch on them instead of matching on transport-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// As is an alias for the standard library errors.As.
var As = errors.As

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// Join is an alias for the standard library errors.Join.
var Join = errors.Join

// Common sentinel errors for the catalogsync system
var (
	// ErrNotFound indicates that a requested resource was not found or is not visible
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that a resource already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrPreconditionFailed indicates an optimistic-concurrency conflict
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrCanceled indicates that an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// Kind classifies a remote catalog failure.
type Kind int

const (
	// KindUnknown is any failure that is not one of the kinds below.
	KindUnknown Kind = iota
	// KindNotFound covers "not found" and "permission denied": the catalog
	// answers permission denied for resources that do not exist yet.
	KindNotFound
	// KindAlreadyExists signals an idempotent create.
	KindAlreadyExists
	// KindPreconditionFailed signals a concurrent modification on update.
	KindPreconditionFailed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	case KindPreconditionFailed:
		return "precondition_failed"
	default:
		return "unknown"
	}
}

// CatalogError is returned by every catalog service operation that fails.
type CatalogError struct {
	Op       string // "create", "get", "update", "delete", "list", "search"
	Resource string // "entry", "entry_group", "tag", "tag_template", "catalog"
	Name     string // resource or parent name
	Kind     Kind
	Err      error
}

// Error implements the error interface
func (e *CatalogError) Error() string {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Name != "" {
		return fmt.Sprintf("failed to %s %s %s (%s): %s", e.Op, e.Resource, e.Name, e.Kind, msg)
	}
	return fmt.Sprintf("failed to %s %s (%s): %s", e.Op, e.Resource, e.Kind, msg)
}

// Unwrap implements errors.Unwrap
func (e *CatalogError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CatalogError) Is(target error) bool {
	switch e.Kind {
	case KindNotFound:
		return target == ErrNotFound
	case KindAlreadyExists:
		return target == ErrAlreadyExists
	case KindPreconditionFailed:
		return target == ErrPreconditionFailed
	}
	return false
}

// NewCatalogError creates a new CatalogError
func NewCatalogError(op, resource, name string, kind Kind, err error) *CatalogError {
	return &CatalogError{
		Op:       op,
		Resource: resource,
		Name:     name,
		Kind:     kind,
		Err:      err,
	}
}

// KindOf returns the kind carried by err. Errors that are not catalog errors
// are reported as KindUnknown, except wrapped sentinels which map to their kind.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	case errors.Is(err, ErrPreconditionFailed):
		return KindPreconditionFailed
	}
	return KindUnknown
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsPreconditionFailed checks if an error is a precondition failure
func IsPreconditionFailed(err error) bool {
	return errors.Is(err, ErrPreconditionFailed)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsCanceled checks if an error is a cancellation error
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", etc.
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during local resource operations
type ResourceError struct {
	Operation string // "create", "load", "ingest", "cleanup"
	Resource  string // "client", "config", "manifest", "entry_group"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper wrapping functions for common patterns

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapCatalog wraps an error as a CatalogError of the given kind
func WrapCatalog(op, resource, name string, kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return NewCatalogError(op, resource, name, kind, err)
}
