package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Line is the linear model power = A*voltage + B.
type Line struct {
	// A is the slope in dBm / V.
	A float64
	// B is the offset in dBm.
	B float64
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.A*x + l.B
}

// Evaluate applies the line elementwise to xs and returns a new slice.
func (l Line) Evaluate(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = l.At(x)
	}
	return ys
}

// Result holds the fitted line and its coefficient of determination.
type Result struct {
	Line
	RSquared float64
}

// Error is returned when the least-squares problem has no usable solution.
type Error struct {
	Reason string
}

func (e *Error) Error() string {
	return "fit: " + e.Reason
}

// Linear fits ys = a*xs + b with ordinary least squares.
//
// xs is the acquisition voltage and ys the reference power. The orientation
// never changes: callers always pass voltage as xs.
func Linear(xs, ys []float64) (Result, error) {
	if len(xs) != len(ys) {
		return Result{}, &Error{Reason: fmt.Sprintf("length mismatch: %d voltages for %d powers", len(xs), len(ys))}
	}
	if len(xs) < 2 {
		return Result{}, &Error{Reason: fmt.Sprintf("need at least 2 points, got %d", len(xs))}
	}

	// stat.LinearRegression returns (intercept, slope).
	b, a := stat.LinearRegression(xs, ys, nil, false)
	if !finite(a) || !finite(b) {
		return Result{}, &Error{Reason: "degenerate voltage samples, slope is undefined"}
	}

	r2 := stat.RSquared(xs, ys, nil, b, a)
	if math.IsNaN(r2) {
		return Result{}, &Error{Reason: "reference power has zero variance"}
	}

	return Result{Line: Line{A: a, B: b}, RSquared: r2}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
