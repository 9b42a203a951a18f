package validator

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSuchValidator indicates that a name resolves neither in the registry
	// nor in any fallback namespace.
	ErrNoSuchValidator = errors.New("no such validator")
	// ErrConstruction indicates that a resolved validator type could not be constructed.
	ErrConstruction = errors.New("validator construction failed")
	// ErrInvalidConfig indicates a malformed property override passed to PreInit.
	ErrInvalidConfig = errors.New("invalid validator configuration")
)

// NoSuchValidatorError carries the name that could not be resolved.
type NoSuchValidatorError struct {
	Name string
}

func (e *NoSuchValidatorError) Error() string {
	return "there is no such validator: " + e.Name
}

// Is reports whether target is ErrNoSuchValidator.
func (e *NoSuchValidatorError) Is(target error) bool {
	return target == ErrNoSuchValidator
}

// ConstructionError is returned when a validator type resolved for a request
// cannot be built. Discovery-time failures never surface as this error.
type ConstructionError struct {
	Type  string // qualified type name, e.g. "validator.sentence.SentenceLengthValidator"
	Cause error
}

func (e *ConstructionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot create instance of %s: %v", e.Type, e.Cause)
	}
	return "cannot create instance of " + e.Type
}

// Unwrap returns the underlying cause for use with errors.Is/As.
func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrConstruction.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}

// ConfigError reports a property override that does not fit the validator.
type ConfigError struct {
	Validator string
	Property  string
	Value     string
	Cause     error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("validator %s: property %q: invalid value %q", e.Validator, e.Property, e.Value)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for use with errors.Is/As.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrInvalidConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}
