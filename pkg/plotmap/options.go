package plotmap

import (
	"image/color"
)

// OriginPolicy selects how the origin longitude is derived when the map
// geography comes from a raster file.
type OriginPolicy int

const (
	// OriginCentralMeridian reads the central meridian declared by the
	// raster's CRS and falls back to the extent midpoint when the CRS
	// declares none. This is the default.
	OriginCentralMeridian OriginPolicy = iota

	// OriginMidpoint always uses the horizontal midpoint of the
	// geographic extent.
	OriginMidpoint
)

// FigSize is a figure size in pixels.
type FigSize struct {
	Width  int
	Height int
}

// DefaultFigSize returns the size used when the caller supplies none.
func DefaultFigSize() FigSize {
	return FigSize{Width: 800, Height: 600}
}

// Margins are the fractions of the figure left free around the Axes.
type Margins struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// DefaultMargins leaves room for tick labels on the left and bottom and a
// colorbar strip on the right.
func DefaultMargins() Margins {
	return Margins{Left: 0.10, Right: 0.10, Top: 0.05, Bottom: 0.07}
}

// Interp selects how raster samples are resampled onto screen pixels.
type Interp int

const (
	// InterpNearest picks the closest source sample. Default; keeps
	// categorical data crisp.
	InterpNearest Interp = iota

	// InterpBilinear blends the four surrounding samples, skipping
	// nodata neighbors.
	InterpBilinear
)

// DataOptions style a PlotData call.
type DataOptions struct {
	// VMin and VMax fix the color scale range. Nil means the
	// nodata-aware minimum or maximum of the data.
	VMin *float64
	VMax *float64

	// Colormap names the color ramp ("jet", "viridis", "blues", "gray",
	// "greys", each optionally suffixed "_r", or "discr" for the
	// discrete blues scale). Empty means "jet".
	Colormap string

	// Bounds switches to a discrete scale: values are binned into
	// len(Bounds)-1 intervals of one color each.
	Bounds []float64

	// Alpha is the layer opacity; zero means opaque.
	Alpha float64

	Interpolation Interp
}

// DefaultDataOptions returns the continuous jet scale over the data range.
func DefaultDataOptions() DataOptions {
	return DataOptions{Colormap: "jet", Alpha: 1}
}

// ScaleStyle selects the scale bar rendering.
type ScaleStyle int

const (
	// ScaleFancy draws alternating filled segments with end and middle
	// labels. Default.
	ScaleFancy ScaleStyle = iota

	// ScaleSimple draws a single line with end ticks and one label.
	ScaleSimple
)

// ScaleOptions style a PlotScale call.
type ScaleOptions struct {
	// XPos and YPos anchor the bar center, as axes fractions from the
	// bottom-left corner. Both zero means the default 0.8/0.12.
	XPos float64
	YPos float64

	// Color of lines and labels; nil means black.
	Color color.Color

	Style ScaleStyle

	// Units is the label suffix; empty means "km".
	Units string
}

// DefaultScaleOptions places a fancy bar near the bottom-right corner.
func DefaultScaleOptions() ScaleOptions {
	return ScaleOptions{XPos: 0.8, YPos: 0.12, Units: "km"}
}

// EdgeSet selects figure edges for graticule labels.
type EdgeSet struct {
	Left   bool
	Right  bool
	Top    bool
	Bottom bool
}

// TickOptions style a GeoTicks call.
type TickOptions struct {
	// MeridianLabels and ParallelLabels pick the edges that get degree
	// labels. The zero value labels nothing; DefaultTickOptions labels
	// meridians on the bottom edge and parallels on the left.
	MeridianLabels EdgeSet
	ParallelLabels EdgeSet

	// RotateParallels draws parallel labels rotated 90 degrees.
	RotateParallels bool

	// Color of gridlines and labels; nil means black.
	Color color.Color

	// LineWidth of gridlines; zero means 0.5.
	LineWidth float64

	// Dash pattern of gridlines; nil means dotted {1, 3}. An explicit
	// empty slice draws solid lines.
	Dash []float64

	// Precision is the number of decimals in degree labels.
	Precision int

	// LabelFormat overrides the degree formatter entirely.
	LabelFormat func(deg float64) string
}

// DefaultTickOptions returns dotted gridlines with labels on the bottom
// and left edges.
func DefaultTickOptions() TickOptions {
	return TickOptions{
		MeridianLabels: EdgeSet{Bottom: true},
		ParallelLabels: EdgeSet{Left: true},
		LineWidth:      0.5,
		Dash:           []float64{1, 3},
	}
}

// Extend marks which colorbar ends get an out-of-range arrow.
type Extend int

const (
	ExtendNeither Extend = iota
	ExtendMin
	ExtendMax
	ExtendBoth
)

// ColorbarOptions style a PlotColorbar call.
type ColorbarOptions struct {
	// Label is drawn alongside the bar.
	Label string

	Extend Extend

	// Ticks fixes the labelled values; nil picks them automatically.
	Ticks []float64

	// Width and Pad are fractions of the Axes width; zero means
	// 0.05 and 0.02.
	Width float64
	Pad   float64
}

// DefaultColorbarOptions returns the conventional right-hand bar.
func DefaultColorbarOptions() ColorbarOptions {
	return ColorbarOptions{Width: 0.05, Pad: 0.02}
}

// BackgroundOptions style a PlotBackground call.
type BackgroundOptions struct {
	// Region loads only the window intersecting this geographic extent.
	Region *Extent

	// Coarsen decimates the raster by the given factor before drawing;
	// values below 2 draw at full resolution.
	Coarsen int
}

// DEMOptions style a PlotDEM call.
type DEMOptions struct {
	// Region loads only the window intersecting this geographic extent.
	Region *Extent

	// Azimuth and Altitude give the light direction in degrees; zero
	// values mean the defaults 100 and 65.
	Azimuth  float64
	Altitude float64

	// VertExag scales the terrain before shading; zero means 1.
	VertExag float64
}

// DefaultDEMOptions lights the terrain from the east-southeast.
func DefaultDEMOptions() DEMOptions {
	return DEMOptions{Azimuth: 100, Altitude: 65, VertExag: 1}
}

// MaskOptions style a PlotMask call.
type MaskOptions struct {
	// Color fills the nonzero cells; nil means turquoise.
	Color color.Color

	// Alpha is the layer opacity; zero means opaque.
	Alpha float64

	// Region loads only the window intersecting this geographic extent.
	Region *Extent
}

// PolygonOptions style a PlotPolygons call.
type PolygonOptions struct {
	// FaceColor fills rings; nil draws outlines only.
	FaceColor color.Color

	// EdgeColor strokes ring outlines; nil strokes black unless a face
	// color is set.
	EdgeColor color.Color

	// LineWidth of outlines; zero means 1.
	LineWidth float64

	// Alpha is the layer opacity; zero means opaque.
	Alpha float64
}
