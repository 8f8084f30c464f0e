// Package testutil writes synthetic acquisition files for tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// Ramp describes a synthetic power ramp acquisition following
// power = A*voltage + B over the default -30..6 dBm, 37 points ramp.
type Ramp struct {
	A, B float64
	// Lead and Trail are the number of low samples before the ramp and
	// after its reset.
	Lead, Trail int
	// StuckDBm, when non zero, replaces the power of the first ramp step.
	StuckDBm float64
}

// Voltages returns the acquisition voltage of every sample.
func (r Ramp) Voltages() []float64 {
	powers := floats.Span(make([]float64, 37), -30, 6)
	if r.StuckDBm != 0 {
		powers[0] = r.StuckDBm
	}

	v := make([]float64, 0, r.Lead+len(powers)+r.Trail)
	for i := 0; i < r.Lead; i++ {
		v = append(v, 0.001*float64(i))
	}
	for _, p := range powers {
		v = append(v, (p-r.B)/r.A)
	}
	for i := 0; i < r.Trail; i++ {
		v = append(v, 0.002)
	}
	return v
}

// TSV encodes the ramp the way the acquisition software does: tab separated,
// comma as decimal separator.
func (r Ramp) TSV() string {
	var sb strings.Builder
	sb.WriteString("Sample index\tNI9205_Arc1\tNI9205_Arc2\n")
	for i, v := range r.Voltages() {
		fmt.Fprintf(&sb, "%d\t0,0\t%s\n", i, strings.Replace(fmt.Sprintf("%.9f", v), ".", ",", 1))
	}
	return sb.String()
}

// WriteFile writes content to dir/name, creating dir when needed.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// WriteRack writes one clean ramp per frequency into base/rack using
// "Mesure<rack>-<freq>MHz.txt" names, and returns the rack folder.
func WriteRack(t testing.TB, base, rack string, ramp Ramp, freqs ...int) string {
	t.Helper()
	dir := filepath.Join(base, rack)
	for _, f := range freqs {
		WriteFile(t, dir, fmt.Sprintf("Mesure%s-%dMHz.txt", rack, f), ramp.TSV())
	}
	return dir
}
