package measurement

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/pkg/errors"
)

// Raw is the validated content of one acquisition file.
type Raw struct {
	Path         string
	Rack         string
	FrequencyMHz float64

	// Samples and Voltages have the same length and at least one element.
	Samples  []float64
	Voltages []float64
}

// Load reads the acquisition file at path for the given rack.
func Load(path, rackName string, opts Options) (*Raw, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	freq, err := FrequencyFromFilename(path)
	if err != nil {
		return nil, err
	}

	fp, err := os.Open(path)
	if err != nil {
		return nil, &FileFormatError{Path: path, Err: pkgerrors.Wrap(err, "failed to open file")}
	}
	defer fp.Close()

	samples, voltages, err := Decode(fp, opts)
	if err != nil {
		var ffe *FileFormatError
		if errors.As(err, &ffe) {
			ffe.Path = path
		}
		return nil, err
	}

	return &Raw{
		Path:         path,
		Rack:         rackName,
		FrequencyMHz: freq,
		Samples:      samples,
		Voltages:     voltages,
	}, nil
}

// Decode parses delimited acquisition data and returns the sample index and
// acquisition voltage columns named by opts.
func Decode(r io.Reader, opts Options) (samples, voltages []float64, err error) {
	delim, _ := utf8.DecodeRuneInString(opts.Delimiter)

	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.ReuseRecord = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, &FileFormatError{Reason: "file is empty"}
		}
		return nil, nil, &FileFormatError{Reason: "failed to read header", Err: err}
	}

	sampleIdx, voltageIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case opts.SampleColumn:
			sampleIdx = i
		case opts.VoltageColumn:
			voltageIdx = i
		}
	}
	if sampleIdx < 0 {
		return nil, nil, &FileFormatError{Line: 1, Reason: strconv.Quote(opts.SampleColumn), Err: ErrMissingColumn}
	}
	if voltageIdx < 0 {
		return nil, nil, &FileFormatError{Line: 1, Reason: strconv.Quote(opts.VoltageColumn), Err: ErrMissingColumn}
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			line := 0
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, nil, &FileFormatError{Line: line, Reason: "malformed record", Err: err}
		}
		line, _ := cr.FieldPos(0)

		s, err := parseNumber(record[sampleIdx], opts.Decimal)
		if err != nil {
			return nil, nil, &FileFormatError{Line: line, Reason: "column " + strconv.Quote(opts.SampleColumn), Err: err}
		}
		v, err := parseNumber(record[voltageIdx], opts.Decimal)
		if err != nil {
			return nil, nil, &FileFormatError{Line: line, Reason: "column " + strconv.Quote(opts.VoltageColumn), Err: err}
		}

		samples = append(samples, s)
		voltages = append(voltages, v)
	}

	if len(voltages) == 0 {
		return nil, nil, &FileFormatError{Reason: "no samples after header"}
	}

	return samples, voltages, nil
}

func parseNumber(field, decimal string) (float64, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, errors.New("empty value")
	}
	if decimal != "." {
		field = strings.Replace(field, decimal, ".", 1)
	}
	f, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("value is not finite")
	}
	return f, nil
}
