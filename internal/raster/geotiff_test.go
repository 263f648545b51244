package raster

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// tiffField is one IFD entry of a synthesized test file.
type tiffField struct {
	tag       uint16
	fieldType uint16
	count     uint32
	data      []byte
}

func shortField(tag uint16, vals ...uint16) tiffField {
	data := make([]byte, len(vals)*2)
	for i, v := range vals {
		binary.LittleEndian.PutUint16(data[i*2:], v)
	}
	return tiffField{tag: tag, fieldType: typeShort, count: uint32(len(vals)), data: data}
}

func longField(tag uint16, vals ...uint32) tiffField {
	data := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(data[i*4:], v)
	}
	return tiffField{tag: tag, fieldType: typeLong, count: uint32(len(vals)), data: data}
}

func doubleField(tag uint16, vals ...float64) tiffField {
	data := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
	}
	return tiffField{tag: tag, fieldType: typeDouble, count: uint32(len(vals)), data: data}
}

func asciiField(tag uint16, s string) tiffField {
	data := append([]byte(s), 0)
	return tiffField{tag: tag, fieldType: typeASCII, count: uint32(len(data)), data: data}
}

// geoKeyDir assembles a GeoKeyDirectory tag from (KeyID, TIFFTagLocation,
// Count, Value) quadruples.
func geoKeyDir(entries ...[4]uint16) tiffField {
	vals := []uint16{1, 1, 0, uint16(len(entries))}
	for _, e := range entries {
		vals = append(vals, e[0], e[1], e[2], e[3])
	}
	return shortField(tagGeoKeyDirectory, vals...)
}

// buildTIFF writes a little-endian classic TIFF: header, pixel data at
// offset 8, then the IFD, then the out-of-line tag values.
func buildTIFF(pix []byte, fields []tiffField) []byte {
	sort.Slice(fields, func(i, j int) bool { return fields[i].tag < fields[j].tag })

	ifdStart := 8 + len(pix)
	if ifdStart%2 == 1 {
		ifdStart++
	}
	n := len(fields)
	ext := ifdStart + 2 + n*12 + 4
	offsets := make([]int, n)
	for i, f := range fields {
		if len(f.data) > 4 {
			if ext%2 == 1 {
				ext++
			}
			offsets[i] = ext
			ext += len(f.data)
		}
	}

	buf := make([]byte, ext)
	buf[0], buf[1] = 'I', 'I'
	binary.LittleEndian.PutUint16(buf[2:], 42)
	binary.LittleEndian.PutUint32(buf[4:], uint32(ifdStart))
	copy(buf[8:], pix)

	binary.LittleEndian.PutUint16(buf[ifdStart:], uint16(n))
	for i, f := range fields {
		off := ifdStart + 2 + i*12
		binary.LittleEndian.PutUint16(buf[off:], f.tag)
		binary.LittleEndian.PutUint16(buf[off+2:], f.fieldType)
		binary.LittleEndian.PutUint32(buf[off+4:], f.count)
		if len(f.data) <= 4 {
			copy(buf[off+8:off+12], f.data)
		} else {
			binary.LittleEndian.PutUint32(buf[off+8:], uint32(offsets[i]))
			copy(buf[offsets[i]:], f.data)
		}
	}
	return buf
}

// floatPix encodes samples as little-endian float32.
func floatPix(vals ...float64) []byte {
	data := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(float32(v)))
	}
	return data
}

// float64Pix encodes samples as little-endian float64.
func float64Pix(vals ...float64) []byte {
	data := make([]byte, len(vals)*8)
	for i, v := range vals {
		binary.LittleEndian.PutUint64(data[i*8:], math.Float64bits(v))
	}
	return data
}

// floatFields returns the baseline IFD entries of a single-band
// floating-point image, without placement or strip layout.
func floatFields(w, h, bits int) []tiffField {
	return []tiffField{
		shortField(tagImageWidth, uint16(w)),
		shortField(tagImageLength, uint16(h)),
		shortField(tagBitsPerSample, uint16(bits)),
		shortField(tagCompression, compressionNone),
		shortField(tagPhotometric, 1),
		shortField(tagSamplesPerPixel, 1),
		shortField(tagSampleFormat, sampleFormatFloat),
	}
}

// stripFields lays the whole image out as one strip at offset 8.
func stripFields(pixLen, rows int) []tiffField {
	return []tiffField{
		longField(tagStripOffsets, 8),
		shortField(tagRowsPerStrip, uint16(rows)),
		longField(tagStripByteCounts, uint32(pixLen)),
	}
}

func writeRaster(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// TestOpenFloatGeoTIFF tests the plain float32 strip path with a
// geographic CRS and tiepoint + pixel scale placement.
func TestOpenFloatGeoTIFF(t *testing.T) {
	vals := []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	}
	pix := floatPix(vals...)
	fields := append(floatFields(4, 3, 32), stripFields(len(pix), 3)...)
	fields = append(fields,
		doubleField(tagModelPixelScale, 0.5, 0.25, 0),
		doubleField(tagModelTiepoint, 0, 0, 0, 10, 60, 0),
		geoKeyDir(
			[4]uint16{gtModelTypeGeoKey, 0, 1, modelTypeGeographic},
			[4]uint16{gtRasterTypeGeoKey, 0, 1, 1},
			[4]uint16{geographicTypeGeoKey, 0, 1, 4326},
		),
	)

	ds, err := Open(writeRaster(t, "wgs84.tif", buildTIFF(pix, fields)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if ds.Width != 4 || ds.Height != 3 {
		t.Errorf("size = %dx%d, want 4x3", ds.Width, ds.Height)
	}
	if len(ds.Bands) != 1 {
		t.Fatalf("got %d bands, want 1", len(ds.Bands))
	}
	for i, want := range vals {
		if got := ds.Bands[0][i]; got != want {
			t.Errorf("sample[%d] = %g, want %g", i, got, want)
		}
	}

	wantGT := [6]float64{10, 0.5, 0, 60, 0, -0.25}
	if ds.Transform != wantGT {
		t.Errorf("Transform = %v, want %v", ds.Transform, wantGT)
	}
	if !ds.CRS.Geographic() {
		t.Errorf("CRS.Geographic() = false, want true")
	}
	if ds.CRS.EPSG != 4326 {
		t.Errorf("CRS.EPSG = %d, want 4326", ds.CRS.EPSG)
	}

	minX, minY, maxX, maxY := ds.Bounds()
	if minX != 10 || maxX != 12 || minY != 59.25 || maxY != 60 {
		t.Errorf("Bounds() = [%g %g %g %g], want [10 59.25 12 60]", minX, minY, maxX, maxY)
	}
}

// TestOpenProjectedGeoTIFF tests the EPSG fast path for UTM zones and the
// ModelTransformation placement matrix.
func TestOpenProjectedGeoTIFF(t *testing.T) {
	pix := floatPix(1, 2, 3, 4)
	fields := append(floatFields(2, 2, 32), stripFields(len(pix), 2)...)
	fields = append(fields,
		// row-major 4x4 matrix mapping (i, j) onto (x, y)
		doubleField(tagModelTransformation,
			30, 0, 0, 500000,
			0, -30, 0, 7300000,
			0, 0, 1, 0,
			0, 0, 0, 1),
		geoKeyDir(
			[4]uint16{gtModelTypeGeoKey, 0, 1, modelTypeProjected},
			[4]uint16{gtRasterTypeGeoKey, 0, 1, 1},
			[4]uint16{projectedCSTypeGeoKey, 0, 1, 32622},
		),
	)

	ds, err := Open(writeRaster(t, "utm.tif", buildTIFF(pix, fields)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	wantGT := [6]float64{500000, 30, 0, 7300000, 0, -30}
	if ds.Transform != wantGT {
		t.Errorf("Transform = %v, want %v", ds.Transform, wantGT)
	}
	if ds.CRS.Geographic() {
		t.Errorf("CRS.Geographic() = true, want false")
	}
	if ds.CRS.EPSG != 32622 {
		t.Errorf("CRS.EPSG = %d, want 32622", ds.CRS.EPSG)
	}
	if !strings.Contains(ds.CRS.ProjString, "+proj=utm +zone=22") {
		t.Errorf("ProjString = %q, want UTM zone 22", ds.CRS.ProjString)
	}
	if !ds.CRS.HasCentralMeridian || ds.CRS.CentralMeridian != -51 {
		t.Errorf("CentralMeridian = %g (has %v), want -51", ds.CRS.CentralMeridian, ds.CRS.HasCentralMeridian)
	}
}

// TestOpenDeflateFloat64 tests deflate-compressed 64-bit samples.
func TestOpenDeflateFloat64(t *testing.T) {
	raw := float64Pix(1.5, -2.5, 3.25, 4)
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("compress: %v", err)
	}
	zw.Close()
	pix := buf.Bytes()

	fields := append(floatFields(2, 2, 64), stripFields(len(pix), 2)...)
	for i := range fields {
		if fields[i].tag == tagCompression {
			fields[i] = shortField(tagCompression, compressionDeflate)
		}
	}
	fields = append(fields,
		doubleField(tagModelPixelScale, 1, 1, 0),
		doubleField(tagModelTiepoint, 0, 0, 0, 0, 2, 0),
	)

	ds, err := Open(writeRaster(t, "deflate.tif", buildTIFF(pix, fields)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	want := []float64{1.5, -2.5, 3.25, 4}
	for i, w := range want {
		if got := ds.Bands[0][i]; got != w {
			t.Errorf("sample[%d] = %g, want %g", i, got, w)
		}
	}
}

// TestOpenTiledFloat tests tile reassembly into row-major band order.
func TestOpenTiledFloat(t *testing.T) {
	// 4x4 image split into four 2x2 tiles, tile content in tile order
	pix := floatPix(
		0, 1, 4, 5, // tile (0,0)
		2, 3, 6, 7, // tile (0,1)
		8, 9, 12, 13, // tile (1,0)
		10, 11, 14, 15, // tile (1,1)
	)
	fields := append(floatFields(4, 4, 32),
		shortField(tagTileWidth, 2),
		shortField(tagTileLength, 2),
		longField(tagTileOffsets, 8, 24, 40, 56),
		longField(tagTileByteCounts, 16, 16, 16, 16),
		doubleField(tagModelPixelScale, 1, 1, 0),
		doubleField(tagModelTiepoint, 0, 0, 0, 0, 4, 0),
	)

	ds, err := Open(writeRaster(t, "tiled.tif", buildTIFF(pix, fields)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	for i := 0; i < 16; i++ {
		if got := ds.Bands[0][i]; got != float64(i) {
			t.Errorf("sample[%d] = %g, want %d", i, got, i)
		}
	}
}

// TestOpenIntegerGeoTIFF tests that integer imagery goes through the
// standard TIFF decoder and comes back as one widened band.
func TestOpenIntegerGeoTIFF(t *testing.T) {
	pix := []byte{10, 20, 30, 40, 50, 60}
	fields := []tiffField{
		shortField(tagImageWidth, 3),
		shortField(tagImageLength, 2),
		shortField(tagBitsPerSample, 8),
		shortField(tagCompression, compressionNone),
		shortField(tagPhotometric, 1),
		shortField(tagSamplesPerPixel, 1),
	}
	fields = append(fields, stripFields(len(pix), 2)...)
	fields = append(fields,
		doubleField(tagModelPixelScale, 2, 2, 0),
		doubleField(tagModelTiepoint, 0, 0, 0, 100, 200, 0),
	)

	ds, err := Open(writeRaster(t, "gray.tif", buildTIFF(pix, fields)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(ds.Bands) != 1 {
		t.Fatalf("got %d bands, want 1", len(ds.Bands))
	}
	for i, want := range []float64{10, 20, 30, 40, 50, 60} {
		if got := ds.Bands[0][i]; got != want {
			t.Errorf("sample[%d] = %g, want %g", i, got, want)
		}
	}
}

// TestOpenNoData tests the GDAL_NODATA ASCII tag.
func TestOpenNoData(t *testing.T) {
	pix := floatPix(-9999, 5, -9999, 7)
	fields := append(floatFields(2, 2, 32), stripFields(len(pix), 2)...)
	fields = append(fields,
		doubleField(tagModelPixelScale, 1, 1, 0),
		doubleField(tagModelTiepoint, 0, 0, 0, 0, 2, 0),
		asciiField(tagGDALNoData, "-9999"),
	)

	ds, err := Open(writeRaster(t, "nodata.tif", buildTIFF(pix, fields)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !ds.HasNoData || ds.NoData != -9999 {
		t.Fatalf("NoData = %g (has %v), want -9999", ds.NoData, ds.HasNoData)
	}
	if !ds.IsNoData(-9999) {
		t.Errorf("IsNoData(-9999) = false, want true")
	}
	if ds.IsNoData(5) {
		t.Errorf("IsNoData(5) = true, want false")
	}
	if !ds.IsNoData(math.NaN()) {
		t.Errorf("IsNoData(NaN) = false, want true")
	}
}

// TestOpenUnknownFormat tests content-based format rejection.
func TestOpenUnknownFormat(t *testing.T) {
	_, err := Open(writeRaster(t, "noise.bin", []byte("hello world, not a raster")))
	var unknown *ErrUnknownFormat
	if !errors.As(err, &unknown) {
		t.Fatalf("Open() error = %v, want ErrUnknownFormat", err)
	}
}

// TestOpenBadContainers tests structural failure modes of the TIFF walker.
func TestOpenBadContainers(t *testing.T) {
	validNoGeo := func() []byte {
		pix := floatPix(1, 2, 3, 4)
		fields := append(floatFields(2, 2, 32), stripFields(len(pix), 2)...)
		return buildTIFF(pix, fields)
	}()

	tests := []struct {
		name   string
		data   []byte
		wantIn string
	}{
		{
			name:   "short header",
			data:   []byte{'I', 'I', 42, 0},
			wantIn: "shorter than TIFF header",
		},
		{
			name:   "bad magic",
			data:   []byte{'I', 'I', 99, 0, 8, 0, 0, 0},
			wantIn: "bad TIFF magic",
		},
		{
			name:   "bigtiff",
			data:   []byte{'I', 'I', 43, 0, 8, 0, 0, 0},
			wantIn: "BigTIFF",
		},
		{
			name:   "IFD offset outside file",
			data:   []byte{'I', 'I', 42, 0, 0xff, 0xff, 0, 0},
			wantIn: "IFD offset outside file",
		},
		{
			name: "truncated IFD",
			data: func() []byte {
				// header says 5 entries but the file ends after the count
				data := []byte{'I', 'I', 42, 0, 8, 0, 0, 0, 5, 0}
				return data
			}(),
			wantIn: "IFD truncated",
		},
		{
			name:   "no georeference",
			data:   validNoGeo,
			wantIn: "no georeferencing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(writeRaster(t, "bad.tif", tt.data))
			if err == nil {
				t.Fatalf("Open() error = nil, want %q", tt.wantIn)
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("Open() error = %v, want substring %q", err, tt.wantIn)
			}
		})
	}
}

// TestCRSFromGeoKeys tests CRS interpretation over the supported key
// combinations without going through a file.
func TestCRSFromGeoKeys(t *testing.T) {
	tests := []struct {
		name       string
		short      map[uint16]uint16
		double     map[uint16]float64
		wantEPSG   int
		wantGeo    bool
		wantCM     float64
		wantHasCM  bool
		wantProjIn string
	}{
		{
			name:       "wgs84 geographic",
			short:      map[uint16]uint16{gtModelTypeGeoKey: modelTypeGeographic, geographicTypeGeoKey: 4326},
			wantEPSG:   4326,
			wantGeo:    true,
			wantProjIn: "+proj=longlat +datum=WGS84",
		},
		{
			name:       "nad27 geographic",
			short:      map[uint16]uint16{gtModelTypeGeoKey: modelTypeGeographic, geographicTypeGeoKey: 4267},
			wantEPSG:   4267,
			wantGeo:    true,
			wantProjIn: "+datum=NAD27",
		},
		{
			name:       "web mercator",
			short:      map[uint16]uint16{gtModelTypeGeoKey: modelTypeProjected, projectedCSTypeGeoKey: 3857},
			wantEPSG:   3857,
			wantCM:     0,
			wantHasCM:  true,
			wantProjIn: "+a=6378137",
		},
		{
			name:       "utm south",
			short:      map[uint16]uint16{gtModelTypeGeoKey: modelTypeProjected, projectedCSTypeGeoKey: 32733},
			wantEPSG:   32733,
			wantCM:     15,
			wantHasCM:  true,
			wantProjIn: "+south",
		},
		{
			name:       "polar stereographic north",
			short:      map[uint16]uint16{gtModelTypeGeoKey: modelTypeProjected, projectedCSTypeGeoKey: 3413},
			wantEPSG:   3413,
			wantCM:     -45,
			wantHasCM:  true,
			wantProjIn: "+lat_ts=70",
		},
		{
			name: "user-defined transverse mercator",
			short: map[uint16]uint16{
				gtModelTypeGeoKey:     modelTypeProjected,
				projectedCSTypeGeoKey: epsgUserDefined,
				projCoordTransGeoKey:  ctTransverseMercator,
			},
			double: map[uint16]float64{
				projNatOriginLongGeoKey:    -45,
				projNatOriginLatGeoKey:     0,
				projScaleAtNatOriginGeoKey: 0.9996,
			},
			wantEPSG:   0,
			wantCM:     -45,
			wantHasCM:  true,
			wantProjIn: "+proj=tmerc",
		},
		{
			name: "user-defined polar stereographic south",
			short: map[uint16]uint16{
				gtModelTypeGeoKey:     modelTypeProjected,
				projectedCSTypeGeoKey: epsgUserDefined,
				projCoordTransGeoKey:  ctPolarStereographic,
			},
			double: map[uint16]float64{
				projNatOriginLatGeoKey:     -71,
				projStraightVertPoleGeoKey: 0,
			},
			wantEPSG:   0,
			wantCM:     0,
			wantHasCM:  true,
			wantProjIn: "+lat_0=-90",
		},
		{
			name:       "unknown projected EPSG falls back to the code",
			short:      map[uint16]uint16{gtModelTypeGeoKey: modelTypeProjected, projectedCSTypeGeoKey: 2154},
			wantEPSG:   2154,
			wantProjIn: "+init=epsg:2154",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := &geoKeys{
				short:  tt.short,
				double: tt.double,
				ascii:  map[uint16]string{},
			}
			if keys.short == nil {
				keys.short = map[uint16]uint16{}
			}
			if keys.double == nil {
				keys.double = map[uint16]float64{}
			}

			crs := crsFromGeoKeys(keys)
			if crs.EPSG != tt.wantEPSG {
				t.Errorf("EPSG = %d, want %d", crs.EPSG, tt.wantEPSG)
			}
			if crs.Geographic() != tt.wantGeo {
				t.Errorf("Geographic() = %v, want %v", crs.Geographic(), tt.wantGeo)
			}
			if crs.HasCentralMeridian != tt.wantHasCM {
				t.Errorf("HasCentralMeridian = %v, want %v", crs.HasCentralMeridian, tt.wantHasCM)
			}
			if tt.wantHasCM && crs.CentralMeridian != tt.wantCM {
				t.Errorf("CentralMeridian = %g, want %g", crs.CentralMeridian, tt.wantCM)
			}
			if !strings.Contains(crs.ProjString, tt.wantProjIn) {
				t.Errorf("ProjString = %q, want substring %q", crs.ProjString, tt.wantProjIn)
			}
		})
	}
}
