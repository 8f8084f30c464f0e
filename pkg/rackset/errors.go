package rackset

import (
	"errors"
	"fmt"
)

// ErrDuplicateRack is returned when two rack folders carry the same number.
var ErrDuplicateRack = errors.New("duplicate rack number")

// Error is returned when the layout of the base folder is not a valid set of
// racks: an empty rack folder, a folder name without a rack number, or two
// folders with the same number.
type Error struct {
	Rack   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := "invalid set of racks"
	if e.Rack != "" {
		msg += fmt.Sprintf(": rack %s", e.Rack)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}
