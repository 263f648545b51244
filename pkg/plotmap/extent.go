package plotmap

import (
	"fmt"
)

// Extent represents a geographic bounding box in WGS-84 coordinates.
//
// Coordinates are in decimal degrees.
type Extent struct {
	MinLon float64 // Western edge
	MaxLon float64 // Eastern edge
	MinLat float64 // Southern edge
	MaxLat float64 // Northern edge
}

// Contains returns true if the point (lon, lat) is within the extent.
func (e Extent) Contains(lon, lat float64) bool {
	return lon >= e.MinLon && lon <= e.MaxLon &&
		lat >= e.MinLat && lat <= e.MaxLat
}

// Intersects returns true if the given extent intersects with this extent.
func (e Extent) Intersects(other Extent) bool {
	return !(other.MaxLon < e.MinLon ||
		other.MinLon > e.MaxLon ||
		other.MaxLat < e.MinLat ||
		other.MinLat > e.MaxLat)
}

// Expand returns a new Extent expanded by the given margin in all directions.
//
// Margin is in decimal degrees.
func (e Extent) Expand(margin float64) Extent {
	return Extent{
		MinLon: e.MinLon - margin,
		MaxLon: e.MaxLon + margin,
		MinLat: e.MinLat - margin,
		MaxLat: e.MaxLat + margin,
	}
}

// Union returns the smallest extent containing both extents.
func (e Extent) Union(other Extent) Extent {
	u := e
	if other.MinLon < u.MinLon {
		u.MinLon = other.MinLon
	}
	if other.MaxLon > u.MaxLon {
		u.MaxLon = other.MaxLon
	}
	if other.MinLat < u.MinLat {
		u.MinLat = other.MinLat
	}
	if other.MaxLat > u.MaxLat {
		u.MaxLat = other.MaxLat
	}
	return u
}

// Width returns the longitude span in degrees.
func (e Extent) Width() float64 { return e.MaxLon - e.MinLon }

// Height returns the latitude span in degrees.
func (e Extent) Height() float64 { return e.MaxLat - e.MinLat }

// Center returns the midpoint of the extent.
func (e Extent) Center() (lon, lat float64) {
	return (e.MinLon + e.MaxLon) / 2, (e.MinLat + e.MaxLat) / 2
}

// Validate checks that the extent is a proper bounding box: min < max on
// both axes, latitudes within ±90 and longitudes within ±360 (so that both
// the -180..180 and 0..360 conventions are accepted).
func (e Extent) Validate() error {
	if e.MinLon >= e.MaxLon {
		return fmt.Errorf("min longitude %g must be less than max longitude %g", e.MinLon, e.MaxLon)
	}
	if e.MinLat >= e.MaxLat {
		return fmt.Errorf("min latitude %g must be less than max latitude %g", e.MinLat, e.MaxLat)
	}
	if e.MinLon < -360 || e.MaxLon > 360 {
		return fmt.Errorf("longitudes must be within ±360, got [%g, %g]", e.MinLon, e.MaxLon)
	}
	if e.MinLat < -90 || e.MaxLat > 90 {
		return fmt.Errorf("latitudes must be within ±90, got [%g, %g]", e.MinLat, e.MaxLat)
	}
	return nil
}
