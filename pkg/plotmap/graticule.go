package plotmap

import (
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/gg"
)

// Graticule lists the meridians and parallels drawn by GeoTicks.
type Graticule struct {
	Meridians []float64
	Parallels []float64
}

// GeoTicks draws a graticule: meridians every meridianStep degrees and
// parallels every parallelStep degrees, as dotted lines clipped to the
// axes, with degree labels outside the frame on the configured edges.
// Ticks land on multiples of the step and include both extent endpoints
// when they are multiples.
func (m *Map) GeoTicks(meridianStep, parallelStep float64, opts TickOptions) (*Graticule, error) {
	const op = "geo ticks"
	if meridianStep <= 0 || parallelStep <= 0 {
		return nil, &DataError{Op: op, Reason: fmt.Sprintf("tick spacing must be positive, got %g and %g", meridianStep, parallelStep)}
	}
	if meridianStep > m.extent.Width() {
		return nil, &DataError{Op: op, Reason: fmt.Sprintf("meridian spacing %g exceeds the extent width %g", meridianStep, m.extent.Width())}
	}
	if parallelStep > m.extent.Height() {
		return nil, &DataError{Op: op, Reason: fmt.Sprintf("parallel spacing %g exceeds the extent height %g", parallelStep, m.extent.Height())}
	}

	meridians := ticksWithin(m.extent.MinLon, m.extent.MaxLon, meridianStep)
	parallels := ticksWithin(m.extent.MinLat, m.extent.MaxLat, parallelStep)

	lineColor := gg.Black
	if opts.Color != nil {
		lineColor = toRGBA(opts.Color)
	}
	lineWidth := opts.LineWidth
	if lineWidth <= 0 {
		lineWidth = 0.5
	}
	dash := opts.Dash
	if dash == nil {
		dash = []float64{1, 3}
	}

	dc := m.fig.dc
	dc.SetColor(lineColor.Color())
	dc.SetLineWidth(lineWidth)
	var strokeErr error
	for _, lon := range meridians {
		if err := m.strokeGeoPath(lon, m.extent.MinLat, lon, m.extent.MaxLat, dash); err != nil {
			strokeErr = err
			break
		}
	}
	if strokeErr == nil {
		for _, lat := range parallels {
			if err := m.strokeGeoPath(m.extent.MinLon, lat, m.extent.MaxLon, lat, dash); err != nil {
				strokeErr = err
				break
			}
		}
	}
	if strokeErr != nil {
		return nil, &DataError{Op: op, Reason: "draw graticule", Err: strokeErr}
	}

	if err := m.drawTickLabels(meridians, parallels, opts); err != nil {
		return nil, &DataError{Op: op, Reason: "draw labels", Err: err}
	}
	return &Graticule{Meridians: meridians, Parallels: parallels}, nil
}

// ticksWithin returns the multiples of step inside [min, max], both
// endpoints included when they are multiples.
func ticksWithin(min, max, step float64) []float64 {
	eps := step * 1e-9
	var ticks []float64
	for k := int64(math.Ceil((min - eps) / step)); ; k++ {
		t := float64(k) * step
		if t > max+eps {
			break
		}
		ticks = append(ticks, t)
	}
	return ticks
}

// strokeGeoPath strokes the geographic segment from (lon0, lat0) to
// (lon1, lat1), sampled densely so curved projections draw as curves.
// The samples are clipped to the axes frame and dashed here; the canvas
// records clip and dash state without applying them.
func (m *Map) strokeGeoPath(lon0, lat0, lon1, lat1 float64, dash []float64) error {
	const segments = 64
	pts := make([][2]float64, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / segments
		px, py, err := m.toPixel(lon0+(lon1-lon0)*t, lat0+(lat1-lat0)*t)
		if err != nil {
			return err
		}
		pts = append(pts, [2]float64{px, py})
	}
	ax, ay, aw, ah := m.ax.Rect()
	dc := m.fig.dc
	for _, run := range clipPolyline(pts, ax, ay, ax+aw, ay+ah) {
		if err := strokeDashedPolyline(dc, run, dash); err != nil {
			return err
		}
	}
	return nil
}

// strokeDashedPolyline strokes pts as alternating on/off spans of the
// dash pattern, measured along the line. A pattern with no positive
// entry strokes solid.
func strokeDashedPolyline(dc *gg.Context, pts [][2]float64, dash []float64) error {
	if len(pts) < 2 {
		return nil
	}
	total := 0.0
	for _, d := range dash {
		if d > 0 {
			total += d
		}
	}
	if total <= 0 {
		for i, p := range pts {
			if i == 0 {
				dc.MoveTo(p[0], p[1])
			} else {
				dc.LineTo(p[0], p[1])
			}
		}
		return dc.Stroke()
	}

	on := true
	penDown := false
	idx := 0
	remain := math.Max(dash[0], 0)
	for i := 1; i < len(pts); i++ {
		x0, y0 := pts[i-1][0], pts[i-1][1]
		x1, y1 := pts[i][0], pts[i][1]
		segLen := math.Hypot(x1-x0, y1-y0)
		for segLen > 1e-12 {
			if on && !penDown {
				dc.MoveTo(x0, y0)
				penDown = true
			}
			step := math.Min(segLen, remain)
			frac := step / segLen
			nx := x0 + (x1-x0)*frac
			ny := y0 + (y1-y0)*frac
			if on {
				dc.LineTo(nx, ny)
			}
			x0, y0 = nx, ny
			segLen -= step
			remain -= step
			if remain <= 1e-12 {
				idx = (idx + 1) % len(dash)
				remain = math.Max(dash[idx], 0)
				on = !on
				if !on {
					penDown = false
				}
			}
		}
	}
	return dc.Stroke()
}

// drawTickLabels places degree labels outside the axes frame on the
// edges selected by the options.
func (m *Map) drawTickLabels(meridians, parallels []float64, opts TickOptions) error {
	const pad = 4.0
	dc := m.fig.dc
	ax, ay, aw, ah := m.ax.Rect()
	labelColor := gg.Black
	if opts.Color != nil {
		labelColor = toRGBA(opts.Color)
	}
	dc.SetColor(labelColor.Color())

	lonLabel := opts.LabelFormat
	if lonLabel == nil {
		lonLabel = func(v float64) string { return formatDegree(v, opts.Precision, "E", "W") }
	}
	latLabel := opts.LabelFormat
	if latLabel == nil {
		latLabel = func(v float64) string { return formatDegree(v, opts.Precision, "N", "S") }
	}

	for _, lon := range meridians {
		s := lonLabel(lon)
		if opts.MeridianLabels.Bottom {
			px, _, err := m.toPixel(lon, m.extent.MinLat)
			if err != nil {
				return err
			}
			dc.DrawStringAnchored(s, px, ay+ah+pad, 0.5, 1)
		}
		if opts.MeridianLabels.Top {
			px, _, err := m.toPixel(lon, m.extent.MaxLat)
			if err != nil {
				return err
			}
			dc.DrawStringAnchored(s, px, ay-pad, 0.5, 0)
		}
	}

	for _, lat := range parallels {
		s := latLabel(lat)
		if opts.ParallelLabels.Left {
			_, py, err := m.toPixel(m.extent.MinLon, lat)
			if err != nil {
				return err
			}
			if opts.RotateParallels {
				_, th := dc.MeasureString(s)
				if err := m.fig.drawRotatedString(s, ax-pad-th/2, py, labelColor); err != nil {
					return err
				}
			} else {
				dc.DrawStringAnchored(s, ax-pad, py, 1, 0.5)
			}
		}
		if opts.ParallelLabels.Right {
			_, py, err := m.toPixel(m.extent.MaxLon, lat)
			if err != nil {
				return err
			}
			if opts.RotateParallels {
				_, th := dc.MeasureString(s)
				if err := m.fig.drawRotatedString(s, ax+aw+pad+th/2, py, labelColor); err != nil {
					return err
				}
			} else {
				dc.DrawStringAnchored(s, ax+aw+pad, py, 0, 0.5)
			}
		}
	}
	return nil
}

// formatDegree renders a tick value with a degree sign and hemisphere
// letter, the zero meridian and equator getting neither letter.
func formatDegree(v float64, precision int, pos, neg string) string {
	suffix := ""
	switch {
	case v > 0:
		suffix = pos
	case v < 0:
		suffix = neg
	}
	return fmt.Sprintf("%.*f°%s", precision, math.Abs(v), suffix)
}

// drawRotatedString draws s turned a quarter turn counterclockwise,
// centered on (cx, cy). The text renderer places glyphs in figure
// space only, so the label is rendered offscreen and its pixels are
// transposed before blitting.
func (f *Figure) drawRotatedString(s string, cx, cy float64, col gg.RGBA) error {
	w, h := f.dc.MeasureString(s)
	tw := int(math.Ceil(w)) + 2
	th := int(math.Ceil(h)) + 2

	tmp := gg.NewContext(tw, th)
	defer tmp.Close()
	tmp.Clear()
	tmp.SetFont(f.face)
	tmp.SetColor(col.Color())
	tmp.DrawStringAnchored(s, float64(tw)/2, float64(th)/2, 0.5, 0.5)
	img := tmp.Image()

	buf, err := gg.NewImageBuf(th, tw, gg.FormatRGBA8)
	if err != nil {
		return err
	}
	b := img.Bounds()
	for y := 0; y < th; y++ {
		for x := 0; x < tw; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			buf.SetRGBA(y, tw-1-x, c.R, c.G, c.B, c.A)
		}
	}
	f.dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:         cx - float64(th)/2,
		Y:         cy - float64(tw)/2,
		DstWidth:  float64(th),
		DstHeight: float64(tw),
	})
	return nil
}
