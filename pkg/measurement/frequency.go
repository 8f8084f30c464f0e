package measurement

import (
	"errors"
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// FrequencyFromFilename extracts the frequency in MHz from names such as
// "MesureE1-120MHz.txt". The token between the first and the second "-" is
// cut at its first "M" and parsed as a float.
func FrequencyFromFilename(name string) (float64, error) {
	base := filepath.Base(name)

	parts := strings.Split(base, "-")
	if len(parts) < 2 {
		return 0, &FrequencyParseError{Filename: base, Err: errors.New("no '-' in filename")}
	}

	token, _, found := strings.Cut(parts[1], "M")
	if !found {
		return 0, &FrequencyParseError{Filename: base, Err: errors.New("no 'M' after '-'")}
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil {
		return 0, &FrequencyParseError{Filename: base, Err: err}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &FrequencyParseError{Filename: base, Err: errors.New("frequency is not finite")}
	}

	return f, nil
}
