package plotmap

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/gogpu/gg"
)

// discrBounds are the class edges of the "discr" colormap shorthand,
// a discrete blue scale for surface speeds and similar skewed fields.
var discrBounds = []float64{0, 5, 10, 15, 20, 30, 40, 80, 120, 200}

// ImageLayer records where a raster layer landed on the figure.
type ImageLayer struct {
	// Mapping is the value-to-color mapping of scalar layers. Hillshade
	// and mask layers carry none.
	Mapping *ScalarMapping

	// X, Y, W, H is the destination rectangle in figure pixels.
	X, Y, W, H float64

	// Empty reports that no part of the raster fell inside the axes.
	Empty bool
}

// PlotData draws a scalar raster band onto the map, colored through a
// colormap. The raster is placed by its projected bounding box. Missing
// samples are transparent. The resulting mapping becomes the map's
// current mappable, which PlotColorbar reads.
//
// When VMin or VMax is unset the corresponding end of the color range
// comes from the valid samples. The colormap name "discr" selects a
// discrete blue scale with class edges suited to skewed magnitude data.
func (m *Map) PlotData(r *Raster, opts DataOptions) (*ImageLayer, error) {
	const op = "plot data"
	if r == nil {
		return nil, &DataError{Op: op, Reason: "nil raster"}
	}
	band, err := r.ds.Band(1)
	if err != nil {
		return nil, &DataError{Op: op, Reason: r.Path(), Err: err}
	}

	mapping, err := resolveMapping(op, band, r.IsNoData, opts)
	if err != nil {
		return nil, err
	}

	bad := r.IsNoData
	sample := newSampler(opts.Interpolation, band, r.Width(), r.Height(), bad)
	colorAt := func(v float64) (gg.RGBA, bool) { return mapping.Color(v), true }

	layer, err := m.drawRasterLayer(op, r, sample, colorAt, opts.Alpha)
	if err != nil {
		return nil, err
	}
	layer.Mapping = mapping
	m.mappable = mapping
	return layer, nil
}

// resolveMapping builds the value-to-color mapping for a scalar layer
// from the options and the band samples.
func resolveMapping(op string, band []float64, bad func(float64) bool, opts DataOptions) (*ScalarMapping, error) {
	name := opts.Colormap
	if name == "" {
		name = "jet"
	}
	bounds := opts.Bounds
	if strings.EqualFold(name, "discr") {
		name = "blues"
		if bounds == nil {
			bounds = discrBounds
		}
	}
	cmap, err := colormapByName(name)
	if err != nil {
		return nil, &DataError{Op: op, Reason: "colormap", Err: err}
	}
	if len(bounds) > 0 {
		if len(bounds) < 2 {
			return nil, &DataError{Op: op, Reason: "bounds need at least two edges"}
		}
		for i := 1; i < len(bounds); i++ {
			if bounds[i] <= bounds[i-1] {
				return nil, &DataError{Op: op, Reason: fmt.Sprintf("bounds must ascend, got %g after %g", bounds[i], bounds[i-1])}
			}
		}
	}

	var vmin, vmax float64
	if opts.VMin == nil || opts.VMax == nil {
		lo, hi, ok := bandRange(band, bad)
		if !ok {
			return nil, &DataError{Op: op, Reason: "raster has no valid samples"}
		}
		vmin, vmax = lo, hi
	}
	if opts.VMin != nil {
		vmin = *opts.VMin
	}
	if opts.VMax != nil {
		vmax = *opts.VMax
	}
	if vmin > vmax {
		return nil, &DataError{Op: op, Reason: fmt.Sprintf("vmin %g exceeds vmax %g", vmin, vmax)}
	}
	return &ScalarMapping{VMin: vmin, VMax: vmax, Cmap: cmap, Bounds: bounds}, nil
}

// PlotBackground draws a raster as a grayscale context layer underneath
// data. Zero samples are transparent, so ocean or off-glacier zeros do
// not paint over the figure. The layer's grayscale mapping becomes the
// current mappable.
func (m *Map) PlotBackground(path string, opts BackgroundOptions) (*ImageLayer, error) {
	const op = "plot background"
	if opts.Coarsen < 0 {
		return nil, &DataError{Op: op, Reason: fmt.Sprintf("coarsen factor %d is negative", opts.Coarsen)}
	}
	r, err := openLayerRaster(path, opts.Region)
	if err != nil {
		return nil, err
	}
	if opts.Coarsen >= 2 {
		r = r.Coarsen(opts.Coarsen)
	}
	band, err := r.ds.Band(1)
	if err != nil {
		return nil, &DataError{Op: op, Reason: path, Err: err}
	}

	bad := func(v float64) bool { return v == 0 || r.IsNoData(v) }
	lo, hi, ok := bandRange(band, bad)
	if !ok {
		// nothing but zeros and nodata; the layer is invisible
		return &ImageLayer{Empty: true}, nil
	}
	cmap, err := colormapByName("greys_r")
	if err != nil {
		return nil, &DataError{Op: op, Reason: "colormap", Err: err}
	}
	mapping := &ScalarMapping{VMin: lo, VMax: hi, Cmap: cmap}

	sample := newSampler(InterpNearest, band, r.Width(), r.Height(), bad)
	colorAt := func(v float64) (gg.RGBA, bool) { return mapping.Color(v), true }

	layer, err := m.drawRasterLayer(op, r, sample, colorAt, 1)
	if err != nil {
		return nil, err
	}
	layer.Mapping = mapping
	m.mappable = mapping
	return layer, nil
}

// PlotMask draws the nonzero cells of a raster in a single color,
// leaving zeros and missing samples transparent. Useful for retention
// masks, ice extents and similar categorical overlays.
func (m *Map) PlotMask(path string, opts MaskOptions) (*ImageLayer, error) {
	const op = "plot mask"
	r, err := openLayerRaster(path, opts.Region)
	if err != nil {
		return nil, err
	}
	band, err := r.ds.Band(1)
	if err != nil {
		return nil, &DataError{Op: op, Reason: path, Err: err}
	}

	maskColor := rgb8(64, 224, 208)
	if opts.Color != nil {
		maskColor = toRGBA(opts.Color)
	}
	sample := newSampler(InterpNearest, band, r.Width(), r.Height(), r.IsNoData)
	colorAt := func(v float64) (gg.RGBA, bool) {
		if v == 0 {
			return gg.RGBA{}, false
		}
		return maskColor, true
	}
	return m.drawRasterLayer(op, r, sample, colorAt, opts.Alpha)
}

// openLayerRaster opens a raster for a layer draw, windowed to a region
// when one is given.
func openLayerRaster(path string, region *Extent) (*Raster, error) {
	if region != nil {
		return OpenRasterRegion(path, *region)
	}
	return OpenRaster(path)
}

// drawRasterLayer colors the destination pixels covered by the raster's
// projected bounding box and blits them onto the figure. Sampling runs
// in source pixel space through sample; colorAt turns samples into
// colors. Pixels outside the axes window, outside the raster box, or
// rejected by sample or colorAt stay transparent.
func (m *Map) drawRasterLayer(op string, r *Raster, sample sampler, colorAt func(float64) (gg.RGBA, bool), alpha float64) (*ImageLayer, error) {
	gt := r.ds.Transform
	if gt[2] != 0 || gt[4] != 0 {
		return nil, &DataError{Op: op, Reason: "rotated rasters are not supported"}
	}

	rMinX, rMinY, rMaxX, rMaxY, err := r.ExtentProjected(m.proj)
	if err != nil {
		return nil, &DataError{Op: op, Reason: "cannot place raster", Err: err}
	}
	axMinX, axMinY, axMaxX, axMaxY := m.ax.Window()

	ix0 := math.Max(rMinX, axMinX)
	ix1 := math.Min(rMaxX, axMaxX)
	iy0 := math.Max(rMinY, axMinY)
	iy1 := math.Min(rMaxY, axMaxY)
	if ix0 >= ix1 || iy0 >= iy1 {
		return &ImageLayer{Empty: true}, nil
	}

	px0, py0 := m.ax.toPixel(ix0, iy1)
	px1, py1 := m.ax.toPixel(ix1, iy0)
	x0 := int(math.Floor(px0))
	y0 := int(math.Floor(py0))
	w := int(math.Ceil(px1)) - x0
	h := int(math.Ceil(py1)) - y0
	if w < 1 || h < 1 {
		return &ImageLayer{Empty: true}, nil
	}

	buf, err := gg.NewImageBuf(w, h, gg.FormatRGBA8)
	if err != nil {
		return nil, &DataError{Op: op, Reason: "image buffer", Err: err}
	}

	// source orientation: row 0 of the samples sits at the top of the
	// projected box for north-up files, at the bottom for flipped ones
	flipY := gt[5] > 0
	flipX := gt[1] < 0
	srcW := float64(r.Width())
	srcH := float64(r.Height())

	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			mx, my := m.ax.fromPixel(float64(x0+px)+0.5, float64(y0+py)+0.5)
			if mx < ix0 || mx > ix1 || my < iy0 || my > iy1 {
				continue
			}
			u := (mx - rMinX) / (rMaxX - rMinX) * srcW
			v := (rMaxY - my) / (rMaxY - rMinY) * srcH
			if flipX {
				u = srcW - u
			}
			if flipY {
				v = srcH - v
			}
			s, ok := sample(u, v)
			if !ok {
				continue
			}
			col, ok := colorAt(s)
			if !ok {
				continue
			}
			buf.SetRGBA(px, py, to8(col.R), to8(col.G), to8(col.B), to8(col.A))
		}
	}

	m.fig.dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:         float64(x0),
		Y:         float64(y0),
		DstWidth:  float64(w),
		DstHeight: float64(h),
		Opacity:   alpha,
	})
	return &ImageLayer{X: float64(x0), Y: float64(y0), W: float64(w), H: float64(h)}, nil
}

// sampler returns the value under a fractional source pixel coordinate
// and whether it is usable.
type sampler func(u, v float64) (float64, bool)

func newSampler(interp Interp, band []float64, w, h int, bad func(float64) bool) sampler {
	if interp == InterpBilinear {
		return bilinearSampler(band, w, h, bad)
	}
	return nearestSampler(band, w, h, bad)
}

func nearestSampler(band []float64, w, h int, bad func(float64) bool) sampler {
	return func(u, v float64) (float64, bool) {
		c := clampInt(int(math.Floor(u)), 0, w-1)
		r := clampInt(int(math.Floor(v)), 0, h-1)
		s := band[r*w+c]
		return s, !bad(s)
	}
}

// bilinearSampler blends the four nearest cell centers, renormalizing
// the weights when some neighbors are missing so that valid data never
// bleeds toward nodata values.
func bilinearSampler(band []float64, w, h int, bad func(float64) bool) sampler {
	return func(u, v float64) (float64, bool) {
		fx := u - 0.5
		fy := v - 0.5
		c0 := int(math.Floor(fx))
		r0 := int(math.Floor(fy))
		tx := fx - float64(c0)
		ty := fy - float64(r0)

		var sum, wsum float64
		for dr := 0; dr <= 1; dr++ {
			wy := ty
			if dr == 0 {
				wy = 1 - ty
			}
			for dc := 0; dc <= 1; dc++ {
				wx := tx
				if dc == 0 {
					wx = 1 - tx
				}
				c := clampInt(c0+dc, 0, w-1)
				r := clampInt(r0+dr, 0, h-1)
				s := band[r*w+c]
				if bad(s) {
					continue
				}
				sum += s * wx * wy
				wsum += wx * wy
			}
		}
		if wsum == 0 {
			return 0, false
		}
		return sum / wsum, true
	}
}

// bandRange returns the minimum and maximum of the usable samples.
func bandRange(band []float64, bad func(float64) bool) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range band {
		if bad(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// toRGBA converts a stdlib color to unpremultiplied float channels.
func toRGBA(c color.Color) gg.RGBA {
	r, g, b, a := c.RGBA()
	if a == 0 {
		return gg.RGBA{}
	}
	return gg.RGBA{
		R: float64(r) / float64(a),
		G: float64(g) / float64(a),
		B: float64(b) / float64(a),
		A: float64(a) / 0xffff,
	}
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
