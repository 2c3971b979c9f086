package types

import (
	"fmt"
	"strings"
)

// ModelNotFoundError reports that the catalog has no entry for the requested
// model name.
type ModelNotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("Config for '%s' not found.", e.Name)
}

// ModelConfigurationError reports a configuration-level failure: the factory
// is not ready, a provider key has no registration, or a required remote
// location could not be resolved.
type ModelConfigurationError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ModelConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ModelConfigurationError) Unwrap() error {
	return e.Err
}

// ConfigLoadError reports an I/O or parse failure while reading a source
// directory of definition files. Path names the offending directory or file;
// Source describes which side it came from.
type ConfigLoadError struct {
	Path   string
	Source string
	Err    error
}

// Error implements the error interface.
func (e *ConfigLoadError) Error() string {
	return fmt.Sprintf("loading model configs from %s %q: %v", e.Source, e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ConfigLoadError) Unwrap() error {
	return e.Err
}

// FieldError is a single schema violation found during validation.
type FieldError struct {
	Model   string
	Field   string
	Message string
}

// String renders the violation as "model.field: message".
func (e FieldError) String() string {
	return fmt.Sprintf("%s.%s: %s", e.Model, e.Field, e.Message)
}

// ConfigValidationError aggregates every field-level violation found across
// the whole merged tree. Validation is all-or-nothing, so a single instance
// carries the complete set.
type ConfigValidationError struct {
	Violations []FieldError
}

// Error implements the error interface.
func (e *ConfigValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "configuration validation failed: %d violation(s)", len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return b.String()
}
