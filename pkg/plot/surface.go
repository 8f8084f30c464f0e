package plot

// Style selects how a Series is drawn.
type Style int

const (
	// StyleLine is a thin solid line.
	StyleLine Style = iota
	// StyleHighlight is a wide translucent line drawn over a StyleLine
	// series to mark a subset of it.
	StyleHighlight
	// StyleDashed is a wide translucent dashed line, used for fitted models.
	StyleDashed
)

// Series is one curve of a figure.
type Series struct {
	Label string
	X, Y  []float64
	Style Style
}

// Surface is what measurements draw on.
type Surface interface {
	// Plot draws series that belong together. They share one color, which
	// differs from the colors of earlier calls.
	Plot(group ...Series) error
}
