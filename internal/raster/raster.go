// Package raster reads georeferenced rasters into memory. It understands
// classic GeoTIFF files (TIFF 6.0 containers carrying the GeoTIFF 1.0
// placement and CRS tags) and ESRI ASCII grids. Samples are widened to
// float64 on load so callers see one shape of data regardless of the
// on-disk encoding.
package raster

import (
	"math"
	"os"
)

// Dataset is a fully decoded raster: per-band samples plus the affine
// transform that places pixel space in model space.
type Dataset struct {
	// Width and Height are the pixel dimensions.
	Width  int
	Height int

	// Bands holds one slice per band, row-major with the top row first.
	Bands [][]float64

	// NoData is the declared missing-sample value, valid only when
	// HasNoData is set.
	NoData    float64
	HasNoData bool

	// Transform maps pixel space onto model space in the GDAL layout:
	//
	//	x = Transform[0] + col*Transform[1] + row*Transform[2]
	//	y = Transform[3] + col*Transform[4] + row*Transform[5]
	//
	// where (col, row) addresses the top-left corner of a pixel.
	Transform [6]float64

	// CRS is the coordinate reference system declared by the file.
	// ASCII grids declare none and leave the zero value.
	CRS CRSInfo
}

// Open reads the raster at path. The format is detected from the content:
// a TIFF byte-order mark selects the GeoTIFF reader, an "ncols" header
// keyword selects the ESRI ASCII grid reader.
func Open(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) >= 2 && (data[0] == 'I' && data[1] == 'I' || data[0] == 'M' && data[1] == 'M') {
		return openTIFF(path, data)
	}
	if looksLikeASCIIGrid(data) {
		return parseASCIIGrid(path, data)
	}
	return nil, &ErrUnknownFormat{Path: path}
}

func openTIFF(path string, data []byte) (*Dataset, error) {
	t, err := parseTIFF(path, data)
	if err != nil {
		return nil, err
	}

	width := int(t.uintValue(tagImageWidth, 0))
	height := int(t.uintValue(tagImageLength, 0))
	if width <= 0 || height <= 0 {
		return nil, &ErrCorruptFile{Path: path, Reason: "missing image dimensions"}
	}

	gt, err := t.geoTransform()
	if err != nil {
		return nil, err
	}
	keys, err := t.parseGeoKeys()
	if err != nil {
		return nil, err
	}
	bands, err := decodePixels(t, width, height)
	if err != nil {
		return nil, err
	}

	d := &Dataset{
		Width:     width,
		Height:    height,
		Bands:     bands,
		Transform: gt,
		CRS:       crsFromGeoKeys(keys),
	}
	d.NoData, d.HasNoData = t.noData()
	return d, nil
}

// PixelToModel maps a pixel position onto model coordinates. Pixel (0, 0)
// is the top-left corner of the top-left pixel.
func (d *Dataset) PixelToModel(col, row float64) (x, y float64) {
	x = d.Transform[0] + col*d.Transform[1] + row*d.Transform[2]
	y = d.Transform[3] + col*d.Transform[4] + row*d.Transform[5]
	return x, y
}

// Bounds returns the model-space bounding box of the full pixel grid.
func (d *Dataset) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{
		{0, 0},
		{float64(d.Width), 0},
		{0, float64(d.Height)},
		{float64(d.Width), float64(d.Height)},
	} {
		x, y := d.PixelToModel(c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return minX, minY, maxX, maxY
}

// Band returns the samples of one band. Bands are numbered from 1.
func (d *Dataset) Band(n int) ([]float64, error) {
	if n < 1 || n > len(d.Bands) {
		return nil, &ErrBandOutOfRange{Band: n, Count: len(d.Bands)}
	}
	return d.Bands[n-1], nil
}

// IsNoData reports whether v is a missing sample. NaN always is; the
// declared nodata value is when the dataset has one.
func (d *Dataset) IsNoData(v float64) bool {
	if math.IsNaN(v) {
		return true
	}
	return d.HasNoData && v == d.NoData
}

// Coarsen returns a decimated copy where each output pixel is the mean of
// a factor-by-factor block of valid input samples. Blocks with no valid
// sample become nodata. A factor below 2 returns the dataset unchanged.
func (d *Dataset) Coarsen(factor int) *Dataset {
	if factor < 2 {
		return d
	}
	w := (d.Width + factor - 1) / factor
	h := (d.Height + factor - 1) / factor

	out := &Dataset{
		Width:     w,
		Height:    h,
		Bands:     make([][]float64, len(d.Bands)),
		NoData:    d.NoData,
		HasNoData: d.HasNoData,
		CRS:       d.CRS,
	}
	out.Transform = d.Transform
	out.Transform[1] *= float64(factor)
	out.Transform[2] *= float64(factor)
	out.Transform[4] *= float64(factor)
	out.Transform[5] *= float64(factor)

	missing := math.NaN()
	if d.HasNoData {
		missing = d.NoData
	}

	for b, src := range d.Bands {
		dst := make([]float64, w*h)
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				sum, n := 0.0, 0
				for dr := 0; dr < factor; dr++ {
					sr := row*factor + dr
					if sr >= d.Height {
						break
					}
					for dc := 0; dc < factor; dc++ {
						sc := col*factor + dc
						if sc >= d.Width {
							break
						}
						v := src[sr*d.Width+sc]
						if d.IsNoData(v) {
							continue
						}
						sum += v
						n++
					}
				}
				if n == 0 {
					dst[row*w+col] = missing
				} else {
					dst[row*w+col] = sum / float64(n)
				}
			}
		}
		out.Bands[b] = dst
	}
	return out
}

// Window returns the sub-dataset covering the model-space rectangle,
// clipped to the pixel grid. Rotated rasters are not supported.
func (d *Dataset) Window(minX, minY, maxX, maxY float64) (*Dataset, error) {
	if d.Transform[2] != 0 || d.Transform[4] != 0 {
		return nil, &ErrUnsupportedFeature{Feature: "windowed reads of rotated rasters"}
	}
	if d.Transform[1] == 0 || d.Transform[5] == 0 {
		return nil, &ErrUnsupportedFeature{Feature: "windowed reads of degenerate pixel scales"}
	}

	ca := (minX - d.Transform[0]) / d.Transform[1]
	cb := (maxX - d.Transform[0]) / d.Transform[1]
	ra := (minY - d.Transform[3]) / d.Transform[5]
	rb := (maxY - d.Transform[3]) / d.Transform[5]

	col0 := int(math.Floor(math.Min(ca, cb)))
	col1 := int(math.Ceil(math.Max(ca, cb)))
	row0 := int(math.Floor(math.Min(ra, rb)))
	row1 := int(math.Ceil(math.Max(ra, rb)))

	if col0 < 0 {
		col0 = 0
	}
	if row0 < 0 {
		row0 = 0
	}
	if col1 > d.Width {
		col1 = d.Width
	}
	if row1 > d.Height {
		row1 = d.Height
	}
	if col0 >= col1 || row0 >= row1 {
		return nil, &ErrEmptyWindow{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	}

	w, h := col1-col0, row1-row0
	out := &Dataset{
		Width:     w,
		Height:    h,
		Bands:     make([][]float64, len(d.Bands)),
		NoData:    d.NoData,
		HasNoData: d.HasNoData,
		CRS:       d.CRS,
	}
	out.Transform = d.Transform
	out.Transform[0] += float64(col0) * d.Transform[1]
	out.Transform[3] += float64(row0) * d.Transform[5]

	for b, src := range d.Bands {
		dst := make([]float64, w*h)
		for row := 0; row < h; row++ {
			copy(dst[row*w:(row+1)*w], src[(row0+row)*d.Width+col0:])
		}
		out.Bands[b] = dst
	}
	return out, nil
}
