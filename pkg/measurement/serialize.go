package measurement

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// HeaderFields are the column titles of a calibration file.
var HeaderFields = []string{
	"Probe",
	"Frequency [MHz]",
	"a [dBm / V]",
	"b [dBm]",
}

// Header returns the header line of a calibration file, newline included.
func Header(delimiter string) string {
	return strings.Join(HeaderFields, delimiter) + "\n"
}

// Fields returns the values written for r, in HeaderFields order.
func (r *Record) Fields() []string {
	return []string{
		r.rack,
		FormatFloat(r.frequencyMHz),
		FormatFloat(r.result.A),
		FormatFloat(r.result.B),
	}
}

// Serialize returns the data line of r, or the header line when header is
// true. Both end with a newline.
func (r *Record) Serialize(delimiter string, header bool) string {
	if header {
		return Header(delimiter)
	}
	return strings.Join(r.Fields(), delimiter) + "\n"
}

// FormatFloat writes f with the fewest digits that parse back to f, and
// always with a decimal part for integral values ("120.0").
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}

// Row is a data line read back from a calibration file.
type Row struct {
	Rack         string
	FrequencyMHz float64
	A            float64
	B            float64
}

// ParseRows reads a calibration file. Blank lines, "#" comment lines and the
// header line are skipped.
func ParseRows(r io.Reader, delimiter string) ([]Row, error) {
	var rows []Row

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, delimiter)
		if len(fields) != len(HeaderFields) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", lineNo, len(HeaderFields), len(fields))
		}
		if fields[0] == HeaderFields[0] {
			continue
		}

		row := Row{Rack: fields[0]}
		for i, dst := range []*float64{&row.FrequencyMHz, &row.A, &row.B} {
			v, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: field %q: %w", lineNo, HeaderFields[i+1], err)
			}
			*dst = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return rows, nil
}
