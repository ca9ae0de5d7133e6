package scratch

import (
	"errors"
	"fmt"
)

// Sentinel errors for the scratch package.
var (
	// ErrConfig is the category of invalid brush, step, threshold or
	// statistics parameters. Test with errors.Is; the concrete error is
	// a *ConfigError.
	ErrConfig = errors.New("scratch: invalid configuration")

	// ErrResource is the category of allocation and backend failures.
	// The concrete error is a *ResourceError.
	ErrResource = errors.New("scratch: resource unavailable")

	// ErrOutOfRange is returned for input points outside the mask.
	// It is routine: surfaces discard such events.
	ErrOutOfRange = errors.New("scratch: point outside mask")

	// ErrDestroyed is returned when a released MaskBuffer is used.
	ErrDestroyed = errors.New("scratch: mask buffer destroyed")

	// ErrClosed is returned by Surface methods after Close.
	ErrClosed = errors.New("scratch: surface closed")
)

// ConfigError describes one invalid configuration value.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scratch: invalid config.%s = %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrConfig.
func (e *ConfigError) Unwrap() error { return ErrConfig }

// ResourceError reports a failed allocation or an unavailable backend.
type ResourceError struct {
	Op  string
	Err error
}

func (e *ResourceError) Error() string {
	if e.Err == nil {
		return "scratch: " + e.Op + " failed"
	}
	return "scratch: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns both ErrResource and the underlying cause.
func (e *ResourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResource}
	}
	return []error{ErrResource, e.Err}
}

// RangeError reports an input point outside the mask rectangle.
type RangeError struct {
	Pos           Point
	Width, Height int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("scratch: point (%g, %g) outside %dx%d mask", e.Pos.X, e.Pos.Y, e.Width, e.Height)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error { return ErrOutOfRange }
