package measurement

import (
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/calibrate-racks/internal/testutil"
	"github.com/charlie0129/calibrate-racks/pkg/plot"
)

func TestFrequencyFromFilename(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		want    float64
		wantErr bool
	}{
		{"120 MHz", "MesureE1-120MHz.txt", 120, false},
		{"88 MHz", "MesureE7-88MHz.txt", 88, false},
		{"with directory", "/data/E1/MesureE1-100MHz.txt", 100, false},
		{"decimal", "MesureE2-99.5MHz.txt", 99.5, false},
		{"second dash ends token", "MesureE1-140MHz-retry.txt", 140, false},
		{"no dash", "MesureE1_120MHz.txt", 0, true},
		{"no M", "MesureE1-120.txt", 0, true},
		{"no dash nor M", "mesure.txt", 0, true},
		{"not a number", "MesureE1-abcMHz.txt", 0, true},
		{"empty token", "MesureE1-MHz.txt", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FrequencyFromFilename(tt.file)
			if tt.wantErr {
				var fpe *FrequencyParseError
				require.ErrorAs(t, err, &fpe)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUsefulWindow(t *testing.T) {
	const n = 37
	voltages := testutil.Ramp{A: 10, B: -60, Lead: 12, Trail: 8}.Voltages()

	start, end, err := UsefulWindow(voltages, n)
	require.NoError(t, err)
	assert.Equal(t, 12, start)
	assert.Equal(t, 12+n, end)
	assert.Equal(t, n, end-start)

	peak := 0
	for i, v := range voltages {
		if v > voltages[peak] {
			peak = i
		}
	}
	assert.Equal(t, peak, end-1, "window must end at the peak")
}

func TestUsefulWindowExactFit(t *testing.T) {
	voltages := []float64{1, 2, 3, 4}
	start, end, err := UsefulWindow(voltages, 4)
	require.NoError(t, err)
	assert.Equal(t, 0, start)
	assert.Equal(t, 4, end)
}

func TestUsefulWindowOutOfRange(t *testing.T) {
	_, _, err := UsefulWindow([]float64{1, 2, 3}, 5)
	assert.ErrorIs(t, err, ErrWindowOutOfRange)

	_, _, err = UsefulWindow(nil, 5)
	assert.ErrorIs(t, err, ErrWindowOutOfRange)
}

func TestStuckLevel(t *testing.T) {
	tests := []struct {
		name     string
		voltages []float64
		want     bool
	}{
		{"first far above second", []float64{10.0, 9.0, 8.0}, true},
		{"first below threshold", []float64{8.5, 9.0, 9.5}, false},
		{"exactly on threshold", []float64{1.1, 1.0, 1.2}, true},
		{"just under threshold", []float64{1.0999, 1.0, 1.2}, false},
		{"single value", []float64{3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := stuckLevel(tt.voltages, 10)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRecoversLine(t *testing.T) {
	opts := DefaultOptions()
	raw := &Raw{Rack: "E1", FrequencyMHz: 120}
	raw.Voltages = testutil.Ramp{A: 3.0, B: -50.0, Lead: 5, Trail: 5}.Voltages()
	for i := range raw.Voltages {
		raw.Samples = append(raw.Samples, float64(i))
	}

	logger, hook := test.NewNullLogger()
	r, err := New(raw, opts, logger)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, r.A(), 1e-6)
	assert.InDelta(t, -50.0, r.B(), 1e-6)
	assert.InDelta(t, 1.0, r.RSquared(), 1e-6)
	assert.False(t, r.Corrected())
	assert.Len(t, r.Voltages(), opts.Points)
	assert.Len(t, r.Powers(), opts.Points)
	assert.Equal(t, 5.0, r.Samples()[0])
	assert.Len(t, r.FullVoltages(), len(raw.Voltages))
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, e.Level)
	}
}

func TestNewDropsStuckFirstPoint(t *testing.T) {
	opts := DefaultOptions()
	voltages := testutil.Ramp{A: 10, B: -60, Lead: 4, Trail: 3}.Voltages()
	// The first ramp step stayed at -20 dBm instead of -30 dBm.
	voltages[4] = (-20.0 + 60) / 10
	raw := &Raw{Rack: "E3", FrequencyMHz: 80, Voltages: voltages}
	for i := range voltages {
		raw.Samples = append(raw.Samples, float64(i))
	}

	logger, hook := test.NewNullLogger()
	r, err := New(raw, opts, logger)
	require.NoError(t, err)

	assert.True(t, r.Corrected())
	require.Len(t, r.Voltages(), opts.Points-1)
	require.Len(t, r.Powers(), opts.Points-1)
	assert.Equal(t, opts.Powers()[1], r.Powers()[0])
	assert.Equal(t, voltages[5], r.Voltages()[0])
	assert.Equal(t, float64(5), r.Samples()[0])
	assert.InDelta(t, 10, r.A(), 1e-6)
	assert.InDelta(t, -60, r.B(), 1e-6)

	warn := hook.LastEntry()
	require.NotNil(t, warn)
	assert.Equal(t, logrus.WarnLevel, warn.Level)
	assert.Equal(t, "E3", warn.Data["rack"])
	assert.Equal(t, 80.0, warn.Data["frequencyMHz"])
}

func TestNewWindowOutOfRange(t *testing.T) {
	raw := &Raw{Path: "short.txt", Rack: "E1", FrequencyMHz: 100, Samples: []float64{0, 1, 2}, Voltages: []float64{1, 2, 3}}
	_, err := New(raw, DefaultOptions(), nil)

	var ffe *FileFormatError
	require.ErrorAs(t, err, &ffe)
	assert.ErrorIs(t, err, ErrWindowOutOfRange)
	assert.Equal(t, "short.txt", ffe.Path)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "MesureE1-120MHz.txt", testutil.Ramp{A: 10.3, B: -51.74, Lead: 10, Trail: 10}.TSV())

	logger, _ := test.NewNullLogger()
	r, err := Open(path, "E1", DefaultOptions(), logger)
	require.NoError(t, err)

	assert.Equal(t, "E1", r.Rack())
	assert.Equal(t, 120.0, r.FrequencyMHz())
	assert.InDelta(t, 10.3, r.A(), 1e-6)
	assert.InDelta(t, -51.74, r.B(), 1e-6)
	assert.Greater(t, r.RSquared(), 0.999)
	assert.Equal(t, "E1 @ 120MHz", r.String())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()

	tests := []struct {
		name    string
		file    string
		content string
		target  error
	}{
		{"missing voltage column", "MesureE1-80MHz.txt", "Sample index\tOther\n0\t1,0\n", ErrMissingColumn},
		{"missing sample column", "MesureE1-81MHz.txt", "Index\tNI9205_Arc2\n0\t1,0\n", ErrMissingColumn},
		{"empty file", "MesureE1-82MHz.txt", "", nil},
		{"header only", "MesureE1-83MHz.txt", "Sample index\tNI9205_Arc2\n", nil},
		{"bad number", "MesureE1-84MHz.txt", "Sample index\tNI9205_Arc2\n0\tabc\n", nil},
		{"empty value", "MesureE1-85MHz.txt", "Sample index\tNI9205_Arc2\n0\t\n", nil},
		{"ragged record", "MesureE1-86MHz.txt", "Sample index\tNI9205_Arc2\n0\t1,0\t3\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, dir, tt.file, tt.content)
			_, err := Load(path, "E1", opts)

			var ffe *FileFormatError
			require.ErrorAs(t, err, &ffe)
			assert.Equal(t, path, ffe.Path)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(t.TempDir()+"/MesureE1-80MHz.txt", "E1", DefaultOptions())
	var ffe *FileFormatError
	assert.ErrorAs(t, err, &ffe)
}

func TestLoadBadFilename(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "acquisition.txt", testutil.Ramp{A: 10, B: -60}.TSV())
	_, err := Load(path, "E1", DefaultOptions())
	var fpe *FrequencyParseError
	assert.ErrorAs(t, err, &fpe)
}

func TestDecodeDecimalSeparator(t *testing.T) {
	opts := DefaultOptions()
	opts.Delimiter = ";"
	opts.Decimal = "."
	opts.VoltageColumn = "V"

	samples, voltages, err := Decode(strings.NewReader("Sample index;V\n0;1.25\n1;2.5\n"), opts)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, samples)
	assert.Equal(t, []float64{1.25, 2.5}, voltages)
}

func TestOptionsValidate(t *testing.T) {
	mutate := []struct {
		name string
		fn   func(o *Options)
	}{
		{"one point", func(o *Options) { o.Points = 1 }},
		{"flat ramp", func(o *Options) { o.PowerEndDBm = o.PowerStartDBm }},
		{"long delimiter", func(o *Options) { o.Delimiter = "\t\t" }},
		{"no decimal", func(o *Options) { o.Decimal = "" }},
		{"decimal equals delimiter", func(o *Options) { o.Decimal = "\t" }},
		{"no column", func(o *Options) { o.VoltageColumn = "" }},
		{"negative tolerance", func(o *Options) { o.TolerancePercent = -1 }},
	}

	require.NoError(t, DefaultOptions().Validate())
	for _, m := range mutate {
		t.Run(m.name, func(t *testing.T) {
			o := DefaultOptions()
			m.fn(&o)
			assert.ErrorIs(t, o.Validate(), ErrInvalidOptions)
		})
	}
}

func TestPowers(t *testing.T) {
	p := DefaultOptions().Powers()
	require.Len(t, p, 37)
	assert.Equal(t, -30.0, p[0])
	assert.Equal(t, 6.0, p[36])
	assert.InDelta(t, -29.0, p[1], 1e-12)
}

func TestSerialize(t *testing.T) {
	r := &Record{rack: "E1", frequencyMHz: 120}
	r.result.A = 10.3
	r.result.B = -51.74

	assert.Equal(t, "Probe\tFrequency [MHz]\ta [dBm / V]\tb [dBm]\n", r.Serialize("\t", true))
	assert.Equal(t, "E1\t120.0\t10.3\t-51.74\n", r.Serialize("\t", false))
	assert.Equal(t, "E1;120.0;10.3;-51.74\n", r.Serialize(";", false))
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		120:      "120.0",
		88:       "88.0",
		-51.74:   "-51.74",
		0:        "0.0",
		1.5e-05:  "1.5e-05",
		10.30001: "10.30001",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatFloat(in))
	}
}

func TestParseRows(t *testing.T) {
	in := "# File created on today.\n#\n" +
		"Probe\tFrequency [MHz]\ta [dBm / V]\tb [dBm]\n" +
		"E1\t80.0\t10.1\t-50.2\n" +
		"\n" +
		"E1\t100.0\t10.2\t-51.0\n"

	rows, err := ParseRows(strings.NewReader(in), "\t")
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{Rack: "E1", FrequencyMHz: 80, A: 10.1, B: -50.2},
		{Rack: "E1", FrequencyMHz: 100, A: 10.2, B: -51.0},
	}, rows)

	_, err = ParseRows(strings.NewReader("E1\t80.0\n"), "\t")
	assert.Error(t, err)
	_, err = ParseRows(strings.NewReader("E1\tx\t1\t2\n"), "\t")
	assert.Error(t, err)
}

type recordingSurface struct {
	groups [][]plot.Series
}

func (s *recordingSurface) Plot(group ...plot.Series) error {
	s.groups = append(s.groups, group)
	return nil
}

func TestDraw(t *testing.T) {
	raw := &Raw{Rack: "E2", FrequencyMHz: 100, Voltages: testutil.Ramp{A: 10, B: -60, Lead: 3, Trail: 3}.Voltages()}
	for i := range raw.Voltages {
		raw.Samples = append(raw.Samples, float64(i))
	}
	logger, _ := test.NewNullLogger()
	r, err := New(raw, DefaultOptions(), logger)
	require.NoError(t, err)

	s := &recordingSurface{}
	require.NoError(t, r.DrawAsMeasured(s))
	require.NoError(t, r.DrawFit(s))
	require.Len(t, s.groups, 2)

	measured := s.groups[0]
	require.Len(t, measured, 2)
	assert.Equal(t, "E2 @100MHz", measured[0].Label)
	assert.Len(t, measured[0].X, len(raw.Voltages))
	assert.Equal(t, "For fit", measured[1].Label)
	assert.Len(t, measured[1].Y, 37)
	assert.Equal(t, plot.StyleHighlight, measured[1].Style)

	fitted := s.groups[1]
	require.Len(t, fitted, 2)
	assert.Equal(t, r.Powers(), fitted[0].Y)
	assert.Equal(t, plot.StyleDashed, fitted[1].Style)
	assert.True(t, strings.HasPrefix(fitted[1].Label, "a = 10.00, b = -60.00, R2 = 1.0000"))
}

func TestFileFormatErrorMessage(t *testing.T) {
	err := &FileFormatError{Path: "x.txt", Line: 3, Reason: "column \"V\"", Err: errors.New("boom")}
	assert.Equal(t, `invalid acquisition file x.txt (line 3): column "V": boom`, err.Error())
}
