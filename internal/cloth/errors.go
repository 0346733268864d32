package cloth

import (
	"errors"
	"fmt"
)

// Domain errors for cloth configuration.
var (
	// ErrGridTooSmall indicates fewer than two rows or columns.
	ErrGridTooSmall = errors.New("cloth: grid needs at least 2 rows and 2 columns")

	// ErrInvalidSpacing indicates a non-positive or non-finite lattice spacing.
	ErrInvalidSpacing = errors.New("cloth: spacing must be positive and finite")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("cloth: parameter out of valid bounds")

	// ErrUnknownParameter indicates a parameter name that does not exist.
	ErrUnknownParameter = errors.New("cloth: unknown parameter")

	// ErrUnknownMode indicates an unrecognised placement, form, pinning or interaction name.
	ErrUnknownMode = errors.New("cloth: unknown mode")
)

// ConfigError wraps a configuration error with the offending field.
type ConfigError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s=%v: %v", e.Field, e.Value, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}
