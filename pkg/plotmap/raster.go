package plotmap

import (
	"fmt"
	"math"

	"github.com/atedstone/plotmap/internal/raster"
)

// Raster is an open georeferenced raster: band samples widened to float64
// plus the file's native georeferencing. A Map only ever reads from it.
type Raster struct {
	ds   *raster.Dataset
	path string
}

// OpenRaster reads a GeoTIFF or ESRI ASCII grid from disk.
func OpenRaster(path string) (*Raster, error) {
	ds, err := raster.Open(path)
	if err != nil {
		return nil, &DataError{Op: "open raster", Reason: path, Err: err}
	}
	return &Raster{ds: ds, path: path}, nil
}

// OpenRasterRegion reads only the part of a raster that intersects the
// geographic region. The returned raster keeps the source georeferencing,
// shifted to the window origin.
func OpenRasterRegion(path string, region Extent) (*Raster, error) {
	if err := region.Validate(); err != nil {
		return nil, &DataError{Op: "open raster region", Reason: path, Err: err}
	}
	r, err := OpenRaster(path)
	if err != nil {
		return nil, err
	}
	w, err := r.window(region)
	if err != nil {
		return nil, &DataError{Op: "open raster region", Reason: path, Err: err}
	}
	return w, nil
}

// window crops the raster to a geographic region expressed in its native
// coordinates.
func (r *Raster) window(region Extent) (*Raster, error) {
	minX, minY, maxX, maxY, err := r.regionNative(region)
	if err != nil {
		return nil, err
	}
	ds, err := r.ds.Window(minX, minY, maxX, maxY)
	if err != nil {
		return nil, err
	}
	return &Raster{ds: ds, path: r.path}, nil
}

// regionNative converts a geographic region to the raster's native
// coordinate box.
func (r *Raster) regionNative(region Extent) (minX, minY, maxX, maxY float64, err error) {
	crs := r.ds.CRS
	if crs.Geographic() || crs.ModelType == 0 {
		return region.MinLon, region.MinLat, region.MaxLon, region.MaxLat, nil
	}
	tr, release, err := nativeTransform(crs)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if release != nil {
		defer release()
	}
	pts := boxPoints(region.MinLon, region.MinLat, region.MaxLon, region.MaxLat)
	return mapBounds(pts, tr.Forward)
}

// Path returns the file the raster was read from.
func (r *Raster) Path() string { return r.path }

// Width returns the pixel width.
func (r *Raster) Width() int { return r.ds.Width }

// Height returns the pixel height.
func (r *Raster) Height() int { return r.ds.Height }

// BandCount returns the number of bands.
func (r *Raster) BandCount() int { return len(r.ds.Bands) }

// Band returns the samples of one band, row-major with the top row first.
// Bands are numbered from 1.
func (r *Raster) Band(n int) ([]float64, error) {
	band, err := r.ds.Band(n)
	if err != nil {
		return nil, &DataError{Op: "read band", Reason: r.path, Err: err}
	}
	return band, nil
}

// NoData returns the declared missing-sample value, if any.
func (r *Raster) NoData() (float64, bool) { return r.ds.NoData, r.ds.HasNoData }

// IsNoData reports whether v is a missing sample of this raster.
func (r *Raster) IsNoData(v float64) bool { return r.ds.IsNoData(v) }

// NativeBounds returns the bounding box in the raster's own coordinate
// system.
func (r *Raster) NativeBounds() (minX, minY, maxX, maxY float64) {
	return r.ds.Bounds()
}

// Geographic reports whether the raster's native coordinates are lon/lat
// degrees. Rasters that declare no CRS (ASCII grids) report false.
func (r *Raster) Geographic() bool { return r.ds.CRS.Geographic() }

// Coarsen returns a decimated copy where each pixel is the nodata-aware
// mean of a factor-by-factor block. Factors below 2 return the raster
// unchanged.
func (r *Raster) Coarsen(factor int) *Raster {
	ds := r.ds.Coarsen(factor)
	if ds == r.ds {
		return r
	}
	return &Raster{ds: ds, path: r.path}
}

// ExtentGeographic returns the raster's bounding box in geographic
// degrees. Projected rasters are converted through their declared CRS;
// rasters with no declared CRS are accepted when their native bounds
// already look like degrees.
func (r *Raster) ExtentGeographic() (Extent, error) {
	minX, minY, maxX, maxY := r.ds.Bounds()
	crs := r.ds.CRS

	if crs.ModelType == 0 {
		e := Extent{MinLon: minX, MaxLon: maxX, MinLat: minY, MaxLat: maxY}
		if err := e.Validate(); err != nil {
			return Extent{}, fmt.Errorf("raster declares no CRS and its bounds are not degrees: %w", err)
		}
		return e, nil
	}
	if crs.Geographic() {
		return Extent{MinLon: minX, MaxLon: maxX, MinLat: minY, MaxLat: maxY}, nil
	}

	tr, release, err := nativeTransform(crs)
	if err != nil {
		return Extent{}, err
	}
	if release != nil {
		defer release()
	}
	lonMin, latMin, lonMax, latMax, err := mapBounds(boxPoints(minX, minY, maxX, maxY), tr.Inverse)
	if err != nil {
		return Extent{}, err
	}
	return Extent{MinLon: lonMin, MaxLon: lonMax, MinLat: latMin, MaxLat: latMax}, nil
}

// ExtentProjected returns the raster's bounding box after projecting its
// geographic corners through the given transform (normally the Map's
// projection). The raster is placed by this box, not resampled.
func (r *Raster) ExtentProjected(tr Transformer) (minX, minY, maxX, maxY float64, err error) {
	geo, err := r.ExtentGeographic()
	if err != nil {
		return 0, 0, 0, 0, err
	}
	return mapBounds(boxPoints(geo.MinLon, geo.MinLat, geo.MaxLon, geo.MaxLat), tr.Forward)
}

// boxPoints samples a rectangle at its corners and edge midpoints, enough
// to bound curved images of the box under the supported projections.
func boxPoints(x0, y0, x1, y1 float64) [][2]float64 {
	mx, my := (x0+x1)/2, (y0+y1)/2
	return [][2]float64{
		{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1},
		{mx, y0}, {mx, y1}, {x0, my}, {x1, my},
	}
}

// mapBounds pushes points through a transform and returns the bounding
// box of the images.
func mapBounds(pts [][2]float64, f func(u, v float64) (float64, float64, error)) (minU, minV, maxU, maxV float64, err error) {
	minU, minV = math.Inf(1), math.Inf(1)
	maxU, maxV = math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		u, v, err := f(p[0], p[1])
		if err != nil {
			return 0, 0, 0, 0, err
		}
		if math.IsNaN(u) || math.IsNaN(v) || math.IsInf(u, 0) || math.IsInf(v, 0) {
			return 0, 0, 0, 0, fmt.Errorf("point (%g, %g) does not project", p[0], p[1])
		}
		minU, maxU = math.Min(minU, u), math.Max(maxU, u)
		minV, maxV = math.Min(minV, v), math.Max(maxV, v)
	}
	return minU, minV, maxU, maxV, nil
}
