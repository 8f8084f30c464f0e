package measurement

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when a column required by Options is not
	// in the file header.
	ErrMissingColumn = errors.New("missing column")

	// ErrWindowOutOfRange is returned when fewer samples than the ramp
	// length precede the voltage peak.
	ErrWindowOutOfRange = errors.New("ramp window out of range")

	// ErrInvalidOptions is returned by Options.Validate.
	ErrInvalidOptions = errors.New("invalid measurement options")
)

// FileFormatError is returned when an acquisition file cannot be parsed.
type FileFormatError struct {
	Path string
	// Line is the 1-based line of the offending record, 0 when unknown.
	Line   int
	Reason string
	Err    error
}

func (e *FileFormatError) Error() string {
	msg := "invalid acquisition file " + e.Path
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FileFormatError) Unwrap() error {
	return e.Err
}

// FrequencyParseError is returned when a filename does not carry a frequency
// token shaped like "-<number>M".
type FrequencyParseError struct {
	Filename string
	Err      error
}

func (e *FrequencyParseError) Error() string {
	msg := fmt.Sprintf("cannot parse frequency from filename %q, expected <prefix>-<number>M<suffix>", e.Filename)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FrequencyParseError) Unwrap() error {
	return e.Err
}
