package raster

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// tiffFile is the parsed container structure of a classic TIFF: the raw
// bytes, the byte order declared in the header, and the entries of the
// first IFD. Later IFDs hold overviews and are ignored.
//
// Reference: TIFF 6.0 §2 (image file header and IFD layout).
type tiffFile struct {
	path    string
	data    []byte
	order   binary.ByteOrder
	entries map[uint16]ifdEntry
}

// ifdEntry is one 12-byte directory entry. The raw field holds the last 4
// header bytes: the value itself when it fits, otherwise an offset.
type ifdEntry struct {
	fieldType uint16
	count     uint32
	raw       [4]byte
}

// parseTIFF reads the header and walks the first IFD.
func parseTIFF(path string, data []byte) (*tiffFile, error) {
	if len(data) < 8 {
		return nil, &ErrCorruptFile{Path: path, Reason: "file shorter than TIFF header"}
	}

	var order binary.ByteOrder
	switch {
	case data[0] == 'I' && data[1] == 'I':
		order = binary.LittleEndian
	case data[0] == 'M' && data[1] == 'M':
		order = binary.BigEndian
	default:
		return nil, &ErrUnknownFormat{Path: path}
	}

	switch magic := order.Uint16(data[2:4]); magic {
	case 42:
		// classic TIFF
	case 43:
		return nil, &ErrUnsupportedFeature{Feature: "BigTIFF"}
	default:
		return nil, &ErrCorruptFile{Path: path, Reason: fmt.Sprintf("bad TIFF magic %d", magic)}
	}

	ifdOffset := int64(order.Uint32(data[4:8]))
	if ifdOffset < 8 || ifdOffset+2 > int64(len(data)) {
		return nil, &ErrCorruptFile{Path: path, Reason: "IFD offset outside file"}
	}

	count := int(order.Uint16(data[ifdOffset : ifdOffset+2]))
	end := ifdOffset + 2 + int64(count)*12
	if end > int64(len(data)) {
		return nil, &ErrCorruptFile{Path: path, Reason: "IFD truncated"}
	}

	entries := make(map[uint16]ifdEntry, count)
	for i := 0; i < count; i++ {
		off := ifdOffset + 2 + int64(i)*12
		tag := order.Uint16(data[off : off+2])
		e := ifdEntry{
			fieldType: order.Uint16(data[off+2 : off+4]),
			count:     order.Uint32(data[off+4 : off+8]),
		}
		copy(e.raw[:], data[off+8:off+12])
		entries[tag] = e
	}

	return &tiffFile{path: path, data: data, order: order, entries: entries}, nil
}

// valueBytes returns the raw value bytes of an entry, following the offset
// indirection when the value does not fit in the 4 inline bytes.
func (t *tiffFile) valueBytes(e ifdEntry) ([]byte, error) {
	size := typeSize[e.fieldType]
	if size == 0 {
		return nil, &ErrCorruptFile{Path: t.path, Reason: fmt.Sprintf("unknown field type %d", e.fieldType)}
	}
	total := int64(size) * int64(e.count)
	if total <= 4 {
		return e.raw[:total], nil
	}
	off := int64(t.order.Uint32(e.raw[:]))
	if off+total > int64(len(t.data)) {
		return nil, &ErrCorruptFile{Path: t.path, Reason: "tag value outside file"}
	}
	return t.data[off : off+total], nil
}

// uintValue returns the first value of a SHORT or LONG tag, or def when the
// tag is absent.
func (t *tiffFile) uintValue(tag uint16, def uint32) uint32 {
	vals, err := t.uintSlice(tag)
	if err != nil || len(vals) == 0 {
		return def
	}
	return vals[0]
}

// uintSlice returns all values of a SHORT or LONG tag.
func (t *tiffFile) uintSlice(tag uint16) ([]uint32, error) {
	e, ok := t.entries[tag]
	if !ok {
		return nil, nil
	}
	raw, err := t.valueBytes(e)
	if err != nil {
		return nil, err
	}
	vals := make([]uint32, e.count)
	switch e.fieldType {
	case typeShort:
		for i := range vals {
			vals[i] = uint32(t.order.Uint16(raw[i*2:]))
		}
	case typeLong:
		for i := range vals {
			vals[i] = t.order.Uint32(raw[i*4:])
		}
	default:
		return nil, &ErrCorruptFile{Path: t.path, Reason: fmt.Sprintf("tag %d has type %d, want SHORT or LONG", tag, e.fieldType)}
	}
	return vals, nil
}

// shortSlice returns all values of a SHORT tag.
func (t *tiffFile) shortSlice(tag uint16) ([]uint16, error) {
	e, ok := t.entries[tag]
	if !ok {
		return nil, nil
	}
	if e.fieldType != typeShort {
		return nil, &ErrCorruptFile{Path: t.path, Reason: fmt.Sprintf("tag %d has type %d, want SHORT", tag, e.fieldType)}
	}
	raw, err := t.valueBytes(e)
	if err != nil {
		return nil, err
	}
	vals := make([]uint16, e.count)
	for i := range vals {
		vals[i] = t.order.Uint16(raw[i*2:])
	}
	return vals, nil
}

// doubleSlice returns all values of a DOUBLE tag.
func (t *tiffFile) doubleSlice(tag uint16) ([]float64, error) {
	e, ok := t.entries[tag]
	if !ok {
		return nil, nil
	}
	if e.fieldType != typeDouble {
		return nil, &ErrCorruptFile{Path: t.path, Reason: fmt.Sprintf("tag %d has type %d, want DOUBLE", tag, e.fieldType)}
	}
	raw, err := t.valueBytes(e)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, e.count)
	for i := range vals {
		vals[i] = math.Float64frombits(t.order.Uint64(raw[i*8:]))
	}
	return vals, nil
}

// asciiValue returns the string value of an ASCII tag with the NUL
// terminator stripped.
func (t *tiffFile) asciiValue(tag uint16) (string, bool) {
	e, ok := t.entries[tag]
	if !ok || e.fieldType != typeASCII {
		return "", false
	}
	raw, err := t.valueBytes(e)
	if err != nil {
		return "", false
	}
	return strings.TrimRight(string(raw), "\x00"), true
}

// geoTransform derives the GDAL-style affine transform from the GeoTIFF
// placement tags. ModelTransformation wins over tiepoint + pixel scale.
//
// Reference: GeoTIFF 1.0 §2.6.1 (ModelTiepointTag, ModelPixelScaleTag,
// ModelTransformationTag).
func (t *tiffFile) geoTransform() ([6]float64, error) {
	var gt [6]float64

	if m, err := t.doubleSlice(tagModelTransformation); err != nil {
		return gt, err
	} else if len(m) >= 16 {
		gt[0], gt[1], gt[2] = m[3], m[0], m[1]
		gt[3], gt[4], gt[5] = m[7], m[4], m[5]
		return gt, nil
	}

	tie, err := t.doubleSlice(tagModelTiepoint)
	if err != nil {
		return gt, err
	}
	scale, err := t.doubleSlice(tagModelPixelScale)
	if err != nil {
		return gt, err
	}
	if len(tie) >= 6 && len(scale) >= 2 {
		// tiepoint maps raster (i, j) onto model (x, y)
		i, j, x, y := tie[0], tie[1], tie[3], tie[4]
		gt[0] = x - i*scale[0]
		gt[1] = scale[0]
		gt[3] = y + j*scale[1]
		gt[5] = -scale[1]
		return gt, nil
	}

	return gt, &ErrNoGeoreference{Path: t.path}
}

// geoKeys holds the decoded GeoKey directory. Keys with SHORT values land
// in short, keys stored in GeoDoubleParams in double, and keys stored in
// GeoAsciiParams in ascii.
type geoKeys struct {
	short  map[uint16]uint16
	double map[uint16]float64
	ascii  map[uint16]string
}

// parseGeoKeys decodes the GeoKeyDirectory tag. A missing directory is not
// an error: the raster simply has no declared CRS.
//
// Reference: GeoTIFF 1.0 §1.5 (GeoKey directory layout: a 4-short header
// followed by 4-short entries of KeyID, TIFFTagLocation, Count, Value).
func (t *tiffFile) parseGeoKeys() (*geoKeys, error) {
	dir, err := t.shortSlice(tagGeoKeyDirectory)
	if err != nil {
		return nil, err
	}
	keys := &geoKeys{
		short:  make(map[uint16]uint16),
		double: make(map[uint16]float64),
		ascii:  make(map[uint16]string),
	}
	if len(dir) < 4 {
		return keys, nil
	}

	doubles, err := t.doubleSlice(tagGeoDoubleParams)
	if err != nil {
		return nil, err
	}
	asciiParams, _ := t.asciiValue(tagGeoAsciiParams)

	numKeys := int(dir[3])
	for i := 0; i < numKeys; i++ {
		base := 4 + i*4
		if base+4 > len(dir) {
			return nil, &ErrCorruptFile{Path: t.path, Reason: "GeoKey directory truncated"}
		}
		keyID := dir[base]
		location := dir[base+1]
		count := int(dir[base+2])
		value := int(dir[base+3])

		switch location {
		case 0:
			keys.short[keyID] = uint16(value)
		case tagGeoDoubleParams:
			if value >= 0 && value < len(doubles) {
				keys.double[keyID] = doubles[value]
			}
		case tagGeoAsciiParams:
			if value >= 0 && value+count <= len(asciiParams) {
				// ASCII values use '|' as the terminator
				keys.ascii[keyID] = strings.TrimRight(asciiParams[value:value+count], "|")
			}
		}
	}
	return keys, nil
}

// noData parses the GDAL_NODATA ASCII tag.
func (t *tiffFile) noData() (float64, bool) {
	s, ok := t.asciiValue(tagGDALNoData)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return math.NaN(), true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
