package plotmap

import (
	"fmt"
	"math"

	"github.com/pebbe/proj/v5"

	"github.com/atedstone/plotmap/internal/raster"
)

// Transformer converts between geographic coordinates in degrees and
// projected map coordinates. Forward goes lon/lat to map units, Inverse
// goes back.
type Transformer interface {
	Forward(lon, lat float64) (x, y float64, err error)
	Inverse(x, y float64) (lon, lat float64, err error)
}

// Projection is the coordinate system of a Map: a named transform built
// once at construction and never rebound. Most projections are backed by
// the PROJ library; "cyl" and "webmerc" are pure Go and need no native
// resources.
type Projection struct {
	name       string
	definition string
	tr         Transformer
	release    func()
}

// Name returns the projection keyword the Map was configured with.
func (p *Projection) Name() string { return p.name }

// Definition returns the proj-string handed to the projection library, or
// the builtin keyword for the pure Go transforms.
func (p *Projection) Definition() string { return p.definition }

// Forward converts geographic degrees to projected map units.
func (p *Projection) Forward(lon, lat float64) (x, y float64, err error) {
	return p.tr.Forward(lon, lat)
}

// Inverse converts projected map units back to geographic degrees.
func (p *Projection) Inverse(x, y float64) (lon, lat float64, err error) {
	return p.tr.Inverse(x, y)
}

// Close releases the native projection resources. Optional: the binding
// also frees them through finalizers. Safe to call on builtin projections
// and more than once.
func (p *Projection) Close() {
	if p.release != nil {
		p.release()
		p.release = nil
	}
}

// metersPerDegree is the ground length of one degree of arc on the
// sphere of radius 6370997 m.
const metersPerDegree = 111194.9

// groundResolution returns how many ground meters one projected unit
// spans at the given latitude. PROJ-backed projections use true meters;
// "cyl" units are degrees and "webmerc" meters are inflated away from
// the equator.
func (p *Projection) groundResolution(lat float64) float64 {
	switch p.name {
	case "cyl":
		return metersPerDegree * math.Cos(lat*math.Pi/180)
	case "webmerc":
		return math.Cos(lat * math.Pi / 180)
	}
	return 1
}

// recognized datum keywords, forwarded as +datum=<name>
var datums = map[string]bool{
	"WGS84": true,
	"NAD83": true,
	"NAD27": true,
}

// newProjection builds the Map projection from the resolved geography.
func newProjection(cfg Config, ext Extent, originLon float64) (*Projection, error) {
	name := cfg.Projection
	if name == "" {
		name = "tmerc"
	}
	datum := cfg.Datum
	if datum == "" {
		datum = "WGS84"
	}
	if !datums[datum] {
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown datum %q (recognized: WGS84, NAD83, NAD27)", datum)}
	}

	switch name {
	case "cyl":
		return &Projection{name: name, definition: "cyl", tr: cylTransformer{}}, nil
	case "webmerc":
		return &Projection{name: name, definition: "webmerc", tr: webmercTransformer{}}, nil
	}

	def, err := buildProjString(name, datum, ext, originLon, cfg.Lat0, cfg.Zone)
	if err != nil {
		return nil, err
	}

	tr, release, err := projTransform(def)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("projection %q rejected", name), Err: err}
	}
	return &Projection{name: name, definition: def, tr: tr, release: release}, nil
}

// buildProjString assembles the proj-string for a PROJ-backed projection.
func buildProjString(name, datum string, ext Extent, originLon, lat0 float64, zone int) (string, error) {
	switch name {
	case "tmerc":
		return fmt.Sprintf("+proj=tmerc +lat_0=%g +lon_0=%g +x_0=0 +y_0=0 +datum=%s +units=m +no_defs",
			lat0, originLon, datum), nil
	case "merc":
		return fmt.Sprintf("+proj=merc +lon_0=%g +lat_ts=%g +x_0=0 +y_0=0 +datum=%s +units=m +no_defs",
			originLon, lat0, datum), nil
	case "stere":
		return fmt.Sprintf("+proj=stere +lat_0=%g +lon_0=%g +x_0=0 +y_0=0 +datum=%s +units=m +no_defs",
			lat0, originLon, datum), nil
	case "laea":
		return fmt.Sprintf("+proj=laea +lat_0=%g +lon_0=%g +x_0=0 +y_0=0 +datum=%s +units=m +no_defs",
			lat0, originLon, datum), nil
	case "aea":
		// standard parallels by the one-sixth rule over the extent
		lat1 := ext.MinLat + ext.Height()/6
		lat2 := ext.MaxLat - ext.Height()/6
		return fmt.Sprintf("+proj=aea +lat_1=%g +lat_2=%g +lat_0=%g +lon_0=%g +x_0=0 +y_0=0 +datum=%s +units=m +no_defs",
			lat1, lat2, lat0, originLon, datum), nil
	case "utm":
		if zone < 1 || zone > 60 {
			return "", &ConfigError{Reason: fmt.Sprintf("UTM zone %d out of range 1-60", zone)}
		}
		south := ""
		if _, lat := ext.Center(); lat < 0 {
			south = " +south"
		}
		return fmt.Sprintf("+proj=utm +zone=%d%s +datum=%s +units=m +no_defs", zone, south, datum), nil
	}
	return "", &ConfigError{Reason: fmt.Sprintf("unknown projection %q (recognized: tmerc, merc, cyl, webmerc, stere, laea, aea, utm)", name)}
}

// projTransform opens a PROJ transformation for a proj-string definition.
// The returned release func frees the native context and projection.
func projTransform(def string) (Transformer, func(), error) {
	ctx := proj.NewContext()
	pj, err := ctx.Create(def)
	if err != nil {
		ctx.Close()
		return nil, nil, err
	}
	release := func() {
		pj.Close()
		ctx.Close()
	}
	return &projTransformer{pj: pj}, release, nil
}

// projTransformer adapts a PROJ projection. PROJ works in radians on the
// geographic side.
type projTransformer struct {
	pj *proj.PJ
}

func (t *projTransformer) Forward(lon, lat float64) (float64, float64, error) {
	x, y, _, _, err := t.pj.Trans(proj.Fwd, proj.DegToRad(lon), proj.DegToRad(lat), 0, 0)
	return x, y, err
}

func (t *projTransformer) Inverse(x, y float64) (float64, float64, error) {
	u, v, _, _, err := t.pj.Trans(proj.Inv, x, y, 0, 0)
	return proj.RadToDeg(u), proj.RadToDeg(v), err
}

// cylTransformer draws degrees directly: an equidistant cylindrical map.
type cylTransformer struct{}

func (cylTransformer) Forward(lon, lat float64) (float64, float64, error) { return lon, lat, nil }
func (cylTransformer) Inverse(x, y float64) (float64, float64, error)    { return x, y, nil }

// Spherical Web Mercator constants: sphere radius and the latitude where
// the projection's square world sheet ends.
const (
	webmercRadius   = 6378137.0
	webmercLatLimit = 85.05112877980659
)

// webmercTransformer is spherical Web Mercator (EPSG 3857).
type webmercTransformer struct{}

func (webmercTransformer) Forward(lon, lat float64) (float64, float64, error) {
	if lat > webmercLatLimit {
		lat = webmercLatLimit
	}
	if lat < -webmercLatLimit {
		lat = -webmercLatLimit
	}
	x := webmercRadius * lon * math.Pi / 180
	y := webmercRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return x, y, nil
}

func (webmercTransformer) Inverse(x, y float64) (float64, float64, error) {
	lon := x / webmercRadius * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(y/webmercRadius)) - math.Pi/2) * 180 / math.Pi
	return lon, lat, nil
}

// nativeTransform returns a Transformer from a raster's declared CRS to
// geographic coordinates. Geographic rasters get the identity transform;
// Web Mercator gets the builtin; everything else goes through PROJ.
func nativeTransform(crs raster.CRSInfo) (Transformer, func(), error) {
	switch {
	case crs.Geographic():
		return cylTransformer{}, nil, nil
	case crs.EPSG == 3857 || crs.EPSG == 900913:
		return webmercTransformer{}, nil, nil
	case crs.ProjString != "":
		return projTransform(crs.ProjString)
	}
	return nil, nil, fmt.Errorf("raster declares no resolvable coordinate system")
}
