package rack

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMeasurements is returned when a rack folder holds no file.
	ErrNoMeasurements = errors.New("no measurement file")

	// ErrInvalidName is returned when a rack name does not carry its number
	// as second character, as in "E1".
	ErrInvalidName = errors.New("invalid rack name")
)

// LoadError is returned when one measurement file of a rack fails.
type LoadError struct {
	Rack string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("rack %s: failed to load %s: %v", e.Rack, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
