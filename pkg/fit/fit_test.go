package fit

import (
	"errors"
	"math"
	"testing"
)

func TestLineEvaluate(t *testing.T) {
	l := Line{A: 2, B: -1}
	got := l.Evaluate([]float64{0, 1, 2.5})
	want := []float64{-1, 1, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Evaluate()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if len(l.Evaluate(nil)) != 0 {
		t.Errorf("Evaluate(nil) should be empty")
	}
}

func TestLinearRecoversExactLine(t *testing.T) {
	xs := make([]float64, 37)
	ys := make([]float64, 37)
	for i := range xs {
		xs[i] = 0.25 * float64(i)
		ys[i] = 3.0*xs[i] - 50.0
	}

	res, err := Linear(xs, ys)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.A-3.0) > 1e-6 {
		t.Errorf("A = %v, want 3", res.A)
	}
	if math.Abs(res.B+50.0) > 1e-6 {
		t.Errorf("B = %v, want -50", res.B)
	}
	if math.Abs(res.RSquared-1.0) > 1e-6 {
		t.Errorf("RSquared = %v, want 1", res.RSquared)
	}
}

func TestLinearMatchesClosedForm(t *testing.T) {
	xs := []float64{0.1, 0.4, 0.9, 1.3, 2.2, 2.5, 3.1}
	ys := []float64{-29.7, -26.1, -21.4, -17.2, -9.9, -6.1, -1.0}

	res, err := Linear(xs, ys)
	if err != nil {
		t.Fatal(err)
	}

	n := float64(len(xs))
	var sx, sy, sxy, sxx float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxy += xs[i] * ys[i]
		sxx += xs[i] * xs[i]
	}
	a := (n*sxy - sx*sy) / (n*sxx - sx*sx)
	b := (sy - a*sx) / n

	mean := sy / n
	var rss, tss float64
	for i := range xs {
		r := ys[i] - (a*xs[i] + b)
		rss += r * r
		d := ys[i] - mean
		tss += d * d
	}
	r2 := 1 - rss/tss

	if math.Abs(res.A-a) > 1e-9 || math.Abs(res.B-b) > 1e-9 {
		t.Errorf("got a=%v b=%v, want a=%v b=%v", res.A, res.B, a, b)
	}
	if math.Abs(res.RSquared-r2) > 1e-9 {
		t.Errorf("RSquared = %v, want %v", res.RSquared, r2)
	}
	if res.RSquared >= 1 {
		t.Errorf("noisy data should not fit perfectly, got %v", res.RSquared)
	}
}

func TestLinearErrors(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
	}{
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}},
		{"single point", []float64{1}, []float64{1}},
		{"empty", nil, nil},
		{"constant voltage", []float64{2, 2, 2}, []float64{-30, -29, -28}},
		{"constant power", []float64{1, 2, 3}, []float64{-30, -30, -30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Linear(tt.xs, tt.ys)
			var fitErr *Error
			if !errors.As(err, &fitErr) {
				t.Fatalf("Linear() error = %v, want *fit.Error", err)
			}
		})
	}
}
