package plotmap

import (
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Figure is the drawing surface of a map: a white pixel canvas with a
// label font. A Figure can hold several Axes, and a single Figure shared
// between Maps must be used from one goroutine at a time by the caller.
type Figure struct {
	dc   *gg.Context
	face text.Face
}

// NewFigure creates a white figure of the given pixel size using the
// embedded Go Regular label font.
func NewFigure(width, height int) *Figure {
	dc := gg.NewContext(width, height)
	dc.ClearWithColor(gg.White)
	f := &Figure{dc: dc, face: defaultFace(defaultFontSize)}
	dc.SetFont(f.face)
	return f
}

// Context exposes the underlying drawing context for direct drawing on
// top of (or underneath further) map layers.
func (f *Figure) Context() *gg.Context { return f.dc }

// Width returns the surface width in pixels.
func (f *Figure) Width() int { return f.dc.Width() }

// Height returns the surface height in pixels.
func (f *Figure) Height() int { return f.dc.Height() }

// SetFace replaces the label font face for subsequent draws.
func (f *Figure) SetFace(face text.Face) {
	f.face = face
	f.dc.SetFont(face)
}

const defaultFontSize = 12

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
)

// defaultFace returns a face of the embedded Go Regular font. The source
// is parsed once and shared.
func defaultFace(size float64) text.Face {
	fontOnce.Do(func() {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			// the font data is compiled in; failing to parse it is a
			// build defect, not a runtime condition
			panic("plotmap: embedded font: " + err.Error())
		}
		fontSource = src
	})
	return fontSource.Face(size)
}

// Axes is a rectangular region of a Figure that shows a window of
// projected map coordinates. The window is set once when the Map binds
// its extent; afterwards the Axes converts projected coordinates and
// axes fractions to surface pixels.
type Axes struct {
	fig *Figure

	// pixel rectangle on the figure, y growing downward
	x, y, w, h float64

	// projected window, set by bind
	xMin, xMax, yMin, yMax float64
	bound                  bool
}

// AddAxes creates a region inside the figure with the given fractional
// margins and draws nothing yet.
func (f *Figure) AddAxes(m Margins) (*Axes, error) {
	w := float64(f.Width())
	h := float64(f.Height())
	ax := &Axes{
		fig: f,
		x:   m.Left * w,
		y:   m.Top * h,
		w:   (1 - m.Left - m.Right) * w,
		h:   (1 - m.Top - m.Bottom) * h,
	}
	if ax.w < 1 || ax.h < 1 {
		return nil, &ConfigError{Reason: "margins leave no drawable area"}
	}
	return ax, nil
}

// Figure returns the surface this region belongs to.
func (a *Axes) Figure() *Figure { return a.fig }

// Rect returns the pixel rectangle of the region on the figure.
func (a *Axes) Rect() (x, y, w, h float64) { return a.x, a.y, a.w, a.h }

// Window returns the projected coordinate window shown by the region.
func (a *Axes) Window() (xMin, yMin, xMax, yMax float64) {
	return a.xMin, a.yMin, a.xMax, a.yMax
}

// bind fixes the projected window. The window is widened on one axis so
// that a projected unit measures the same number of pixels horizontally
// and vertically inside the fixed pixel box.
func (a *Axes) bind(xMin, yMin, xMax, yMax float64) {
	dataAspect := (xMax - xMin) / (yMax - yMin)
	boxAspect := a.w / a.h
	switch {
	case dataAspect < boxAspect:
		cx := (xMin + xMax) / 2
		half := (yMax - yMin) * boxAspect / 2
		xMin, xMax = cx-half, cx+half
	case dataAspect > boxAspect:
		cy := (yMin + yMax) / 2
		half := (xMax - xMin) / boxAspect / 2
		yMin, yMax = cy-half, cy+half
	}
	a.xMin, a.xMax, a.yMin, a.yMax = xMin, xMax, yMin, yMax
	a.bound = true
}

// toPixel converts projected coordinates to figure pixels. Projected y
// grows upward, pixel y downward.
func (a *Axes) toPixel(x, y float64) (px, py float64) {
	px = a.x + (x-a.xMin)/(a.xMax-a.xMin)*a.w
	py = a.y + (a.yMax-y)/(a.yMax-a.yMin)*a.h
	return px, py
}

// fromPixel converts figure pixels back to projected coordinates.
func (a *Axes) fromPixel(px, py float64) (x, y float64) {
	x = a.xMin + (px-a.x)/a.w*(a.xMax-a.xMin)
	y = a.yMax - (py-a.y)/a.h*(a.yMax-a.yMin)
	return x, y
}

// fracToPixel converts axes fractions (origin bottom-left) to figure
// pixels.
func (a *Axes) fracToPixel(fx, fy float64) (px, py float64) {
	return a.x + fx*a.w, a.y + (1-fy)*a.h
}

// unitsPerPixel returns how many projected units one pixel spans. After
// bind the ratio is identical on both axes.
func (a *Axes) unitsPerPixel() float64 {
	return (a.xMax - a.xMin) / a.w
}

// drawFrame strokes the region border.
func (a *Axes) drawFrame() error {
	dc := a.fig.dc
	dc.SetColor(gg.Black.Color())
	dc.SetLineWidth(1)
	dc.DrawRectangle(a.x, a.y, a.w, a.h)
	return dc.Stroke()
}

