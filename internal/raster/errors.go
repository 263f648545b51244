package raster

import (
	"fmt"
)

// ErrUnknownFormat indicates the file is neither a TIFF nor an ESRI ASCII grid
type ErrUnknownFormat struct {
	Path string
}

func (e *ErrUnknownFormat) Error() string {
	return fmt.Sprintf("unknown raster format: %s (expected GeoTIFF or ESRI ASCII grid)", e.Path)
}

// ErrCorruptFile indicates structural damage in the raster container
type ErrCorruptFile struct {
	Path   string
	Reason string
}

func (e *ErrCorruptFile) Error() string {
	return fmt.Sprintf("corrupt raster file %s: %s", e.Path, e.Reason)
}

// ErrNoGeoreference indicates the file carries no usable geotransform
type ErrNoGeoreference struct {
	Path string
}

func (e *ErrNoGeoreference) Error() string {
	return fmt.Sprintf("raster %s has no georeferencing (no pixel scale, tiepoint, or transformation)", e.Path)
}

// ErrUnsupportedFeature indicates a container feature outside the supported baseline
type ErrUnsupportedFeature struct {
	Feature string
}

func (e *ErrUnsupportedFeature) Error() string {
	return fmt.Sprintf("unsupported raster feature: %s", e.Feature)
}

// ErrBandOutOfRange indicates a request for a band the dataset does not have
type ErrBandOutOfRange struct {
	Band  int
	Count int
}

func (e *ErrBandOutOfRange) Error() string {
	return fmt.Sprintf("band %d out of range (dataset has %d bands, bands are 1-based)", e.Band, e.Count)
}

// ErrEmptyWindow indicates a requested window does not overlap the dataset
type ErrEmptyWindow struct {
	MinX, MinY, MaxX, MaxY float64
}

func (e *ErrEmptyWindow) Error() string {
	return fmt.Sprintf("window [%g %g %g %g] does not overlap the dataset", e.MinX, e.MinY, e.MaxX, e.MaxY)
}
