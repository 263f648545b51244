// Package plotmap draws georeferenced data onto projected map images.
//
// A Map bundles three things that plotting code otherwise has to thread
// around by hand: a drawing surface, a map projection, and a geographic
// extent. Construct one with New, then call the plotting methods
// (PlotData, GeoTicks, PlotScale, PlotColorbar and friends) and save the
// result with SaveFigure.
//
//	m, err := plotmap.New(plotmap.Config{DSFile: "velocity.tif"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer m.Close()
//
//	if _, err := m.PlotData(raster, plotmap.DefaultDataOptions()); err != nil {
//		log.Fatal(err)
//	}
//	m.GeoTicks(2, 1, plotmap.DefaultTickOptions())
//	m.PlotScale(50, plotmap.DefaultScaleOptions())
//	m.SaveFigure("velocity.png")
//
// Geography can come from a georeferenced raster file, an already open
// Raster, or an explicit extent with an origin longitude. All geographic
// coordinates are WGS84 lon/lat degrees unless a datum is configured.
package plotmap

import (
	"fmt"

	"github.com/atedstone/plotmap/internal/raster"
)

// Config selects the geography, projection and drawing surface of a new
// Map. The zero value is not usable: one of the geography sources must
// be set.
type Config struct {
	// Geography sources, tried in order. DSFile names a georeferenced
	// raster file whose footprint becomes the map extent. Raster does
	// the same from an already open raster. Extent and OriginLon state
	// the geography directly and must be supplied together.
	DSFile    string
	Raster    *Raster
	Extent    *Extent
	OriginLon *float64

	// OriginPolicy controls how the origin longitude is derived from a
	// raster. It is ignored when OriginLon is set explicitly.
	OriginPolicy OriginPolicy

	// Projection names the map projection. The default is "tmerc".
	// Lat0 is the latitude of origin (also the true-scale latitude for
	// "merc") and Zone selects a UTM zone for "utm". Datum defaults to
	// "WGS84".
	Projection string
	Datum      string
	Lat0       float64
	Zone       int

	// Drawing surface. Supplying both Fig and Ax draws onto an existing
	// surface; otherwise a fresh figure is created using FigSize and
	// Margins (or their defaults).
	Fig     *Figure
	Ax      *Axes
	FigSize *FigSize
	Margins *Margins
}

// Map is a drawing surface bound to a projection and a geographic
// extent. Its methods draw into the axes region in projected
// coordinates.
type Map struct {
	fig       *Figure
	ax        *Axes
	proj      *Projection
	extent    Extent
	originLon float64
	borrowed  bool

	// mappable is the scalar mapping of the most recent data layer,
	// consumed by PlotColorbar.
	mappable *ScalarMapping
}

// New builds a Map from a Config. Geography is resolved first (file,
// raster, or explicit extent), then the projection is constructed, then
// the surface, and finally the axes are bound so that the projected
// extent fills the axes region.
func New(cfg Config) (*Map, error) {
	ext, originLon, err := resolveGeography(cfg)
	if err != nil {
		return nil, err
	}

	proj, err := newProjection(cfg, ext, originLon)
	if err != nil {
		return nil, err
	}

	fig, ax, borrowed, err := resolveSurface(cfg)
	if err != nil {
		proj.Close()
		return nil, err
	}

	minX, minY, maxX, maxY, err := mapBounds(boxPoints(ext.MinLon, ext.MinLat, ext.MaxLon, ext.MaxLat), proj.Forward)
	if err != nil {
		proj.Close()
		return nil, &ConfigError{Reason: "extent cannot be projected", Err: err}
	}
	ax.bind(minX, minY, maxX, maxY)

	m := &Map{
		fig:       fig,
		ax:        ax,
		proj:      proj,
		extent:    ext,
		originLon: originLon,
		borrowed:  borrowed,
	}
	if !borrowed {
		if err := ax.drawFrame(); err != nil {
			proj.Close()
			return nil, &ConfigError{Reason: "draw axes frame", Err: err}
		}
	}
	return m, nil
}

// resolveGeography picks the map extent and origin longitude from the
// first configured source.
func resolveGeography(cfg Config) (Extent, float64, error) {
	switch {
	case cfg.DSFile != "":
		ds, err := raster.Open(cfg.DSFile)
		if err != nil {
			return Extent{}, 0, &ConfigError{
				Reason: fmt.Sprintf("cannot derive geography from %s", cfg.DSFile),
				Err:    err,
			}
		}
		return geographyFromRaster(&Raster{ds: ds, path: cfg.DSFile}, cfg.OriginPolicy)

	case cfg.Raster != nil:
		return geographyFromRaster(cfg.Raster, cfg.OriginPolicy)

	case cfg.Extent != nil && cfg.OriginLon != nil:
		if err := cfg.Extent.Validate(); err != nil {
			return Extent{}, 0, &ConfigError{Reason: "invalid extent", Err: err}
		}
		return *cfg.Extent, *cfg.OriginLon, nil

	case cfg.Extent != nil || cfg.OriginLon != nil:
		return Extent{}, 0, &ConfigError{Reason: "extent and origin longitude must be supplied together"}
	}
	return Extent{}, 0, &ConfigError{Reason: "no geography: set DSFile, Raster, or Extent with OriginLon"}
}

// geographyFromRaster derives the extent and origin longitude from an
// open raster.
func geographyFromRaster(r *Raster, policy OriginPolicy) (Extent, float64, error) {
	ext, err := r.ExtentGeographic()
	if err != nil {
		return Extent{}, 0, &ConfigError{
			Reason: fmt.Sprintf("cannot derive geography from %s", r.Path()),
			Err:    err,
		}
	}
	if err := ext.Validate(); err != nil {
		return Extent{}, 0, &ConfigError{
			Reason: fmt.Sprintf("raster %s has a degenerate footprint", r.Path()),
			Err:    err,
		}
	}

	lon, _ := ext.Center()
	if policy == OriginCentralMeridian && r.ds.CRS.HasCentralMeridian {
		lon = r.ds.CRS.CentralMeridian
	}
	return ext, lon, nil
}

// resolveSurface returns the figure and axes to draw on. Both Fig and Ax
// must be supplied to borrow an existing surface; otherwise a fresh
// figure is made.
func resolveSurface(cfg Config) (*Figure, *Axes, bool, error) {
	if cfg.Fig != nil && cfg.Ax != nil {
		return cfg.Fig, cfg.Ax, true, nil
	}

	size := DefaultFigSize()
	if cfg.FigSize != nil {
		size = *cfg.FigSize
	}
	if size.Width < 1 || size.Height < 1 {
		return nil, nil, false, &ConfigError{
			Reason: fmt.Sprintf("figure size %dx%d is not drawable", size.Width, size.Height),
		}
	}
	margins := DefaultMargins()
	if cfg.Margins != nil {
		margins = *cfg.Margins
	}

	fig := NewFigure(size.Width, size.Height)
	ax, err := fig.AddAxes(margins)
	if err != nil {
		return nil, nil, false, err
	}
	return fig, ax, false, nil
}

// Extent returns the geographic extent the map is bound to.
func (m *Map) Extent() Extent { return m.extent }

// OriginLon returns the origin longitude of the projection.
func (m *Map) OriginLon() float64 { return m.originLon }

// Projection returns the map projection.
func (m *Map) Projection() *Projection { return m.proj }

// Figure returns the drawing surface.
func (m *Map) Figure() *Figure { return m.fig }

// Axes returns the axes region the map draws into.
func (m *Map) Axes() *Axes { return m.ax }

// Mappable returns the scalar mapping of the most recent data layer and
// whether one exists. PlotColorbar consumes the same mapping.
func (m *Map) Mappable() (ScalarMapping, bool) {
	if m.mappable == nil {
		return ScalarMapping{}, false
	}
	return *m.mappable, true
}

// Close releases projection resources. The figure stays usable; callers
// that borrowed the surface keep ownership of it.
func (m *Map) Close() {
	if m.proj != nil {
		m.proj.Close()
	}
}

// toPixel projects a geographic point all the way to figure pixels.
func (m *Map) toPixel(lon, lat float64) (float64, float64, error) {
	x, y, err := m.proj.Forward(lon, lat)
	if err != nil {
		return 0, 0, err
	}
	px, py := m.ax.toPixel(x, y)
	return px, py, nil
}
