package plotmap

import (
	"math"

	"github.com/aclements/go-moremath/scale"
	"github.com/gogpu/gg"
)

// Colorbar records the geometry and labeling of a drawn colorbar.
type Colorbar struct {
	// X, Y, W, H is the bar rectangle in figure pixels, extend arrows
	// not included.
	X, Y, W, H float64

	// Ticks are the labeled values in data units.
	Ticks []float64
}

// PlotColorbar draws a vertical colorbar right of the axes describing
// the color mapping of the most recent data layer. Continuous mappings
// get a gradient with round ticks from the 1-2-5 ladder; discrete
// mappings get one uniform block per class with the class edges
// labeled.
func (m *Map) PlotColorbar(opts ColorbarOptions) (*Colorbar, error) {
	const op = "plot colorbar"
	if m.mappable == nil {
		return nil, &DataError{Op: op, Reason: "no data layer to describe; plot data first"}
	}
	mp := *m.mappable

	width := opts.Width
	if width <= 0 {
		width = 0.05
	}
	pad := opts.Pad
	if pad <= 0 {
		pad = 0.02
	}
	figW := float64(m.fig.Width())
	axx, axy, axw, axh := m.ax.Rect()
	x := axx + axw + pad*axw
	y, h := axy, axh
	w := width * axw
	if x+w > figW {
		return nil, &DataError{Op: op, Reason: "no room right of the axes; widen the right margin"}
	}

	discrete := len(mp.Bounds) > 1
	dc := m.fig.dc

	colorAt := mp.Cmap.At
	if discrete {
		n := len(mp.Bounds) - 1
		colorAt = func(t float64) gg.RGBA {
			i := clampInt(int(t*float64(n)), 0, n-1)
			return mp.Cmap.At((float64(i) + 0.5) / float64(n))
		}
	}
	// The bar itself is rendered into an offscreen buffer one row at a
	// time, low values at the bottom, then blitted into place.
	bw := int(math.Ceil(w))
	bh := int(math.Ceil(h))
	buf, err := gg.NewImageBuf(bw, bh, gg.FormatRGBA8)
	if err != nil {
		return nil, &DataError{Op: op, Reason: "image buffer", Err: err}
	}
	for row := 0; row < bh; row++ {
		col := colorAt(1 - (float64(row)+0.5)/float64(bh))
		r8, g8, b8, a8 := to8(col.R), to8(col.G), to8(col.B), to8(col.A)
		for px := 0; px < bw; px++ {
			buf.SetRGBA(px, row, r8, g8, b8, a8)
		}
	}
	dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:         x,
		Y:         y,
		DstWidth:  w,
		DstHeight: h,
	})

	arrowH := math.Min(w, 12)
	if opts.Extend == ExtendMin || opts.Extend == ExtendBoth {
		dc.SetColor(mp.Color(math.Inf(-1)).Color())
		dc.MoveTo(x, y+h)
		dc.LineTo(x+w, y+h)
		dc.LineTo(x+w/2, y+h+arrowH)
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			return nil, &DataError{Op: op, Reason: "draw", Err: err}
		}
	}
	if opts.Extend == ExtendMax || opts.Extend == ExtendBoth {
		dc.SetColor(mp.Color(math.Inf(1)).Color())
		dc.MoveTo(x, y)
		dc.LineTo(x+w, y)
		dc.LineTo(x+w/2, y-arrowH)
		dc.ClosePath()
		if err := dc.Fill(); err != nil {
			return nil, &DataError{Op: op, Reason: "draw", Err: err}
		}
	}

	dc.SetColor(gg.Black.Color())
	dc.SetLineWidth(1)
	dc.DrawRectangle(x, y, w, h)
	if err := dc.Stroke(); err != nil {
		return nil, &DataError{Op: op, Reason: "draw", Err: err}
	}

	ticks := opts.Ticks
	if ticks == nil {
		if discrete {
			ticks = append([]float64(nil), mp.Bounds...)
		} else {
			ticks = autoTicks(mp.VMin, mp.VMax, 6)
		}
	}

	maxLabelW := 0.0
	for _, v := range ticks {
		t, ok := barFraction(mp, discrete, v)
		if !ok {
			continue
		}
		py := y + h - t*h
		dc.DrawLine(x+w, py, x+w+3, py)
		label := trimFloat(v)
		dc.DrawStringAnchored(label, x+w+5, py, 0, 0.5)
		if lw, _ := dc.MeasureString(label); lw > maxLabelW {
			maxLabelW = lw
		}
	}
	if err := dc.Stroke(); err != nil {
		return nil, &DataError{Op: op, Reason: "draw", Err: err}
	}

	if opts.Label != "" {
		_, th := dc.MeasureString(opts.Label)
		if err := m.fig.drawRotatedString(opts.Label, x+w+5+maxLabelW+6+th/2, y+h/2, gg.Black); err != nil {
			return nil, &DataError{Op: op, Reason: "draw label", Err: err}
		}
	}
	return &Colorbar{X: x, Y: y, W: w, H: h, Ticks: ticks}, nil
}

// barFraction maps a tick value to its fraction along the bar, bottom
// to top. Discrete bars space their classes uniformly regardless of
// class width, so a value inside a class lands proportionally inside
// that class's block.
func barFraction(mp ScalarMapping, discrete bool, v float64) (float64, bool) {
	if discrete {
		b := mp.Bounds
		n := len(b) - 1
		if v < b[0] || v > b[n] {
			return 0, false
		}
		for i := 0; i < n; i++ {
			if v <= b[i+1] {
				inner := 0.0
				if seg := b[i+1] - b[i]; seg > 0 {
					inner = (v - b[i]) / seg
				}
				return (float64(i) + inner) / float64(n), true
			}
		}
		return 1, true
	}
	span := mp.VMax - mp.VMin
	if span <= 0 {
		return 0.5, v == mp.VMin
	}
	t := (v - mp.VMin) / span
	if t < 0 || t > 1 {
		return 0, false
	}
	return t, true
}

// autoTicks picks at most max round tick values inside [lo, hi] from
// the 1-2-5 ladder.
func autoTicks(lo, hi float64, max int) []float64 {
	if hi <= lo {
		return []float64{lo}
	}
	count := func(level int) int {
		k0, k1 := tickIndexRange(lo, hi, tickSpacing(level))
		if k1 < k0 {
			return 0
		}
		return int(k1 - k0 + 1)
	}
	ticksAt := func(level int) []float64 {
		s := tickSpacing(level)
		k0, k1 := tickIndexRange(lo, hi, s)
		var ts []float64
		for k := k0; k <= k1; k++ {
			ts = append(ts, float64(k)*s)
		}
		return ts
	}

	opt := &scale.TickOptions{Max: max}
	guess := 3 * int(math.Floor(math.Log10((hi-lo)/float64(max))))
	level, ok := opt.FindLevel(count, ticksAt, guess)
	if !ok {
		return []float64{lo, hi}
	}
	return ticksAt(level)
}

// tickSpacing returns the tick step at a level of the 1-2-5 ladder.
// Level 0 is a step of 1; each 3 levels shift the decade.
func tickSpacing(level int) float64 {
	mant := [3]float64{1, 2, 5}
	d, r := level/3, level%3
	if r < 0 {
		d, r = d-1, r+3
	}
	return mant[r] * math.Pow(10, float64(d))
}

// tickIndexRange returns the inclusive multiplier range of step s whose
// multiples fall inside [lo, hi].
func tickIndexRange(lo, hi, s float64) (int64, int64) {
	eps := s * 1e-9
	return int64(math.Ceil((lo - eps) / s)), int64(math.Floor((hi + eps) / s))
}
