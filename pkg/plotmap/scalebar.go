package plotmap

import (
	"fmt"
	"strconv"

	"github.com/gogpu/gg"
)

// ScaleBar records the geometry of a drawn scale bar.
type ScaleBar struct {
	// X0, X1, Y are the bar ends and its vertical position in figure
	// pixels.
	X0, X1, Y float64

	// LengthKm is the ground distance the bar spans.
	LengthKm float64

	// MetersPerPixel is the ground resolution at the anchor latitude.
	MetersPerPixel float64
}

// PlotScale draws a scale bar of the given ground length in kilometers.
// The bar is centered on the configured fractional position within the
// extent and sized using the ground resolution at the anchor latitude,
// so the same call yields the same bar on every figure of the same map.
func (m *Map) PlotScale(lengthKm float64, opts ScaleOptions) (*ScaleBar, error) {
	const op = "plot scale"
	if lengthKm <= 0 {
		return nil, &DataError{Op: op, Reason: fmt.Sprintf("scale length must be positive, got %g km", lengthKm)}
	}
	xpos, ypos := opts.XPos, opts.YPos
	if xpos == 0 && ypos == 0 {
		xpos, ypos = 0.8, 0.12
	}

	anchorLon := m.extent.MinLon + xpos*m.extent.Width()
	anchorLat := m.extent.MinLat + ypos*m.extent.Height()
	px, py, err := m.toPixel(anchorLon, anchorLat)
	if err != nil {
		return nil, &DataError{Op: op, Reason: "anchor does not project", Err: err}
	}

	metersPerPixel := m.proj.groundResolution(anchorLat) * m.ax.unitsPerPixel()
	barPx := lengthKm * 1000 / metersPerPixel
	_, _, aw, _ := m.ax.Rect()
	if barPx > aw {
		return nil, &DataError{Op: op, Reason: fmt.Sprintf("%g km spans %.0f pixels, wider than the axes", lengthKm, barPx)}
	}

	units := opts.Units
	if units == "" {
		units = "km"
	}
	col := gg.Black
	if opts.Color != nil {
		col = toRGBA(opts.Color)
	}

	bar := &ScaleBar{
		X0:             px - barPx/2,
		X1:             px + barPx/2,
		Y:              py,
		LengthKm:       lengthKm,
		MetersPerPixel: metersPerPixel,
	}
	if opts.Style == ScaleSimple {
		err = m.drawSimpleScale(bar, units, col)
	} else {
		err = m.drawFancyScale(bar, units, col)
	}
	if err != nil {
		return nil, &DataError{Op: op, Reason: "draw", Err: err}
	}
	return bar, nil
}

// drawFancyScale draws alternating filled segments outlined in the bar
// color, labeled at both ends and the middle, with the units centered
// underneath.
func (m *Map) drawFancyScale(bar *ScaleBar, units string, col gg.RGBA) error {
	const barHeight = 6.0
	dc := m.fig.dc
	top := bar.Y - barHeight/2
	segW := (bar.X1 - bar.X0) / 4

	for i := 0; i < 4; i++ {
		if i%2 == 0 {
			dc.SetColor(col.Color())
		} else {
			dc.SetColor(gg.White.Color())
		}
		dc.DrawRectangle(bar.X0+float64(i)*segW, top, segW, barHeight)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	dc.SetColor(col.Color())
	dc.SetLineWidth(1)
	dc.DrawRectangle(bar.X0, top, bar.X1-bar.X0, barHeight)
	if err := dc.Stroke(); err != nil {
		return err
	}

	dc.DrawStringAnchored("0", bar.X0, top-2, 0.5, 0)
	dc.DrawStringAnchored(trimFloat(bar.LengthKm/2), (bar.X0+bar.X1)/2, top-2, 0.5, 0)
	dc.DrawStringAnchored(trimFloat(bar.LengthKm), bar.X1, top-2, 0.5, 0)
	dc.DrawStringAnchored(units, (bar.X0+bar.X1)/2, top+barHeight+2, 0.5, 1)
	return nil
}

// drawSimpleScale draws a line with end ticks and one centered label.
func (m *Map) drawSimpleScale(bar *ScaleBar, units string, col gg.RGBA) error {
	const tick = 4.0
	dc := m.fig.dc
	dc.SetColor(col.Color())
	dc.SetLineWidth(1.5)
	dc.DrawLine(bar.X0, bar.Y, bar.X1, bar.Y)
	dc.DrawLine(bar.X0, bar.Y-tick, bar.X0, bar.Y+tick)
	dc.DrawLine(bar.X1, bar.Y-tick, bar.X1, bar.Y+tick)
	if err := dc.Stroke(); err != nil {
		return err
	}
	dc.DrawStringAnchored(trimFloat(bar.LengthKm)+" "+units, (bar.X0+bar.X1)/2, bar.Y-tick-2, 0.5, 0)
	return nil
}

// trimFloat formats a label value with no trailing zeros. Ten
// significant digits hide the float noise of values built by repeated
// multiplication, like colorbar ticks.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
