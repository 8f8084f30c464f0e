package plot

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/charlie0129/calibrate-racks/pkg/fileutil"
)

// Figure is a single PNG-exportable chart backed by gonum/plot.
type Figure struct {
	mu     sync.Mutex
	num    int
	p      *gonumplot.Plot
	groups int
	width  vg.Length
	height vg.Length
}

var _ Surface = &Figure{}

func newFigure(num int, width, height vg.Length) *Figure {
	p := gonumplot.New()
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	p.Legend.Left = true

	return &Figure{
		num:    num,
		p:      p,
		width:  width,
		height: height,
	}
}

// Number is the identity of the figure inside its Figures registry.
func (f *Figure) Number() int {
	return f.num
}

// SetTitle sets the figure title.
func (f *Figure) SetTitle(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.p.Title.Text = title
}

// SetLabels sets the axis labels.
func (f *Figure) SetLabels(x, y string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.p.X.Label.Text = x
	f.p.Y.Label.Text = y
}

// SetLogY switches the Y axis to a base 10 logarithmic scale.
func (f *Figure) SetLogY() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.p.Y.Scale = gonumplot.LogScale{}
	f.p.Y.Tick.Marker = gonumplot.LogTicks{Prec: -1}
}

// Groups is the number of Plot calls made so far.
func (f *Figure) Groups() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.groups
}

// Plot implements Surface.
func (f *Figure) Plot(group ...Series) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	c := plotutil.Color(f.groups)
	f.groups++

	for _, s := range group {
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("series %q: %d x values for %d y values", s.Label, len(s.X), len(s.Y))
		}
		if len(s.X) == 0 {
			continue
		}

		xys := make(plotter.XYs, len(s.X))
		for i := range s.X {
			xys[i].X = s.X[i]
			xys[i].Y = s.Y[i]
		}

		l, err := plotter.NewLine(xys)
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to build series %q", s.Label)
		}
		applyStyle(l, c, s.Style)

		f.p.Add(l)
		if s.Label != "" {
			f.p.Legend.Add(s.Label, l)
		}
	}

	return nil
}

func applyStyle(l *plotter.Line, c color.Color, style Style) {
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(1)

	switch style {
	case StyleHighlight:
		l.LineStyle.Color = translucent(c, 0x80)
		l.LineStyle.Width = vg.Points(5)
	case StyleDashed:
		l.LineStyle.Color = translucent(c, 0x80)
		l.LineStyle.Width = vg.Points(7)
		l.LineStyle.Dashes = []vg.Length{vg.Points(8), vg.Points(6)}
	}
}

func translucent(c color.Color, alpha uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: alpha}
}

// Save writes the figure to path. The format follows the file extension.
func (f *Figure) Save(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	wt, err := f.p.WriterTo(f.width, f.height, format)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to render figure %d", f.num)
	}

	err = fileutil.WriteFile(path, 0o644, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to save figure %d", f.num)
	}
	return nil
}

// Figures hands out figures by number, creating them on first use. Asking
// twice for the same number returns the same figure.
type Figures struct {
	mu     sync.Mutex
	figs   map[int]*Figure
	width  vg.Length
	height vg.Length
}

// NewFigures creates a registry whose figures are saved at the given size in
// inches.
func NewFigures(widthInch, heightInch float64) *Figures {
	return &Figures{
		figs:   map[int]*Figure{},
		width:  vg.Length(widthInch) * vg.Inch,
		height: vg.Length(heightInch) * vg.Inch,
	}
}

// Figure returns figure num.
func (fs *Figures) Figure(num int) *Figure {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if f, ok := fs.figs[num]; ok {
		return f
	}
	f := newFigure(num, fs.width, fs.height)
	fs.figs[num] = f
	return f
}

// Numbers lists the figures created so far in ascending order.
func (fs *Figures) Numbers() []int {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	nums := make([]int, 0, len(fs.figs))
	for n := range fs.figs {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
