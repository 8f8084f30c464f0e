package measurement

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// UsefulWindow returns the half-open range [start, end) of the points
// samples that end at the global voltage maximum, included. The ramp is
// expected to sweep upward and reset right after its peak.
func UsefulWindow(voltages []float64, points int) (start, end int, err error) {
	if len(voltages) == 0 {
		return 0, 0, fmt.Errorf("%w: no samples", ErrWindowOutOfRange)
	}

	peak := floats.MaxIdx(voltages)
	start = peak - points + 1
	if start < 0 {
		return 0, 0, fmt.Errorf("%w: peak at sample %d leaves %d samples for a %d points ramp", ErrWindowOutOfRange, peak, peak+1, points)
	}

	return start, peak + 1, nil
}

// stuckLevel reports whether the first retained voltage is at least
// tolerancePercent above the second one, with the threshold it was
// compared to. Sometimes the RF generator does not step down to the start
// power and stays at a higher default level for the first point.
func stuckLevel(voltages []float64, tolerancePercent float64) (bool, float64) {
	if len(voltages) < 2 {
		return false, 0
	}
	threshold := voltages[1] * (1.0 + 1e-2*tolerancePercent)
	return voltages[0] >= threshold, threshold
}
