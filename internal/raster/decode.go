package raster

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"io"
	"math"

	"golang.org/x/image/tiff"
)

// decodePixels extracts the sample data of a parsed TIFF into float64
// bands. Floating-point imagery is decoded by the strip/tile reader below
// because the standard TIFF decoder only handles integer samples; integer
// imagery is handed to x/image/tiff, which covers the baseline
// compression schemes (LZW, PackBits, Deflate) and predictors.
func decodePixels(t *tiffFile, width, height int) ([][]float64, error) {
	format := t.uintValue(tagSampleFormat, sampleFormatUnsigned)
	if format == sampleFormatFloat {
		return decodeFloat(t, width, height)
	}
	return decodeInteger(t, width, height)
}

// decodeInteger decodes integer-sample imagery via the standard TIFF
// decoder and widens the samples to float64.
func decodeInteger(t *tiffFile, width, height int) ([][]float64, error) {
	img, err := tiff.Decode(bytes.NewReader(t.data))
	if err != nil {
		return nil, fmt.Errorf("decode TIFF samples: %w", err)
	}
	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return nil, &ErrCorruptFile{Path: t.path, Reason: "decoded size disagrees with IFD size"}
	}

	n := width * height
	switch img := img.(type) {
	case *image.Gray:
		band := make([]float64, n)
		for row := 0; row < height; row++ {
			off := row * img.Stride
			for col := 0; col < width; col++ {
				band[row*width+col] = float64(img.Pix[off+col])
			}
		}
		return [][]float64{band}, nil
	case *image.Gray16:
		band := make([]float64, n)
		for row := 0; row < height; row++ {
			off := row * img.Stride
			for col := 0; col < width; col++ {
				v := uint16(img.Pix[off+col*2])<<8 | uint16(img.Pix[off+col*2+1])
				band[row*width+col] = float64(v)
			}
		}
		return [][]float64{band}, nil
	default:
		// RGB and paletted imagery: three bands, via the generic
		// accessor. Alpha is not a measurement and is dropped.
		r := make([]float64, n)
		g := make([]float64, n)
		bl := make([]float64, n)
		for row := 0; row < height; row++ {
			for col := 0; col < width; col++ {
				cr, cg, cb, _ := img.At(b.Min.X+col, b.Min.Y+row).RGBA()
				i := row*width + col
				r[i] = float64(cr >> 8)
				g[i] = float64(cg >> 8)
				bl[i] = float64(cb >> 8)
			}
		}
		return [][]float64{r, g, bl}, nil
	}
}

// decodeFloat decodes IEEE floating-point imagery (SampleFormat 3) from
// strips or tiles. Supports 32- and 64-bit samples, chunky planar layout,
// and None or Deflate compression.
func decodeFloat(t *tiffFile, width, height int) ([][]float64, error) {
	bits := int(t.uintValue(tagBitsPerSample, 32))
	if bits != 32 && bits != 64 {
		return nil, &ErrUnsupportedFeature{Feature: fmt.Sprintf("%d-bit floating point samples", bits)}
	}
	spp := int(t.uintValue(tagSamplesPerPixel, 1))
	if spp < 1 {
		spp = 1
	}
	if pc := t.uintValue(tagPlanarConfig, planarConfigContiguous); pc != planarConfigContiguous {
		return nil, &ErrUnsupportedFeature{Feature: "planar sample layout"}
	}
	if pred := t.uintValue(tagPredictor, predictorNone); pred != predictorNone {
		return nil, &ErrUnsupportedFeature{Feature: fmt.Sprintf("predictor %d on floating point samples", pred)}
	}
	compression := int(t.uintValue(tagCompression, compressionNone))
	switch compression {
	case compressionNone, compressionDeflate, compressionDeflateOld:
	default:
		return nil, &ErrUnsupportedFeature{Feature: fmt.Sprintf("compression %d on floating point samples", compression)}
	}

	bands := make([][]float64, spp)
	for i := range bands {
		bands[i] = make([]float64, width*height)
	}

	if _, tiled := t.entries[tagTileOffsets]; tiled {
		if err := decodeFloatTiles(t, bands, width, height, bits, spp, compression); err != nil {
			return nil, err
		}
		return bands, nil
	}
	if err := decodeFloatStrips(t, bands, width, height, bits, spp, compression); err != nil {
		return nil, err
	}
	return bands, nil
}

func decodeFloatStrips(t *tiffFile, bands [][]float64, width, height, bits, spp, compression int) error {
	offsets, err := t.uintSlice(tagStripOffsets)
	if err != nil {
		return err
	}
	counts, err := t.uintSlice(tagStripByteCounts)
	if err != nil {
		return err
	}
	if len(offsets) == 0 || len(offsets) != len(counts) {
		return &ErrCorruptFile{Path: t.path, Reason: "strip offsets and byte counts disagree"}
	}
	rowsPerStrip := int(t.uintValue(tagRowsPerStrip, uint32(height)))
	if rowsPerStrip <= 0 {
		rowsPerStrip = height
	}

	total := width * height
	for s := range offsets {
		raw, err := t.segment(offsets[s], counts[s], compression)
		if err != nil {
			return err
		}
		base := s * rowsPerStrip * width * spp
		if err := placeFloatSamples(t, raw, bits, func(k int, v float64) {
			sample := base + k
			pixel := sample / spp
			if pixel < total {
				bands[sample%spp][pixel] = v
			}
		}); err != nil {
			return err
		}
	}
	return nil
}

func decodeFloatTiles(t *tiffFile, bands [][]float64, width, height, bits, spp, compression int) error {
	offsets, err := t.uintSlice(tagTileOffsets)
	if err != nil {
		return err
	}
	counts, err := t.uintSlice(tagTileByteCounts)
	if err != nil {
		return err
	}
	tileW := int(t.uintValue(tagTileWidth, 0))
	tileH := int(t.uintValue(tagTileLength, 0))
	if tileW <= 0 || tileH <= 0 || len(offsets) == 0 || len(offsets) != len(counts) {
		return &ErrCorruptFile{Path: t.path, Reason: "inconsistent tile layout tags"}
	}
	tilesAcross := (width + tileW - 1) / tileW

	for n := range offsets {
		raw, err := t.segment(offsets[n], counts[n], compression)
		if err != nil {
			return err
		}
		originRow := (n / tilesAcross) * tileH
		originCol := (n % tilesAcross) * tileW
		if err := placeFloatSamples(t, raw, bits, func(k int, v float64) {
			pixel := k / spp
			row := originRow + pixel/tileW
			col := originCol + pixel%tileW
			// edge tiles extend past the image and are clipped
			if row < height && col < width {
				bands[k%spp][row*width+col] = v
			}
		}); err != nil {
			return err
		}
	}
	return nil
}

// segment returns the decompressed bytes of one strip or tile.
func (t *tiffFile) segment(offset, count uint32, compression int) ([]byte, error) {
	end := int64(offset) + int64(count)
	if end > int64(len(t.data)) {
		return nil, &ErrCorruptFile{Path: t.path, Reason: "strip or tile outside file"}
	}
	raw := t.data[offset:end]
	if compression == compressionNone {
		return raw, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, &ErrCorruptFile{Path: t.path, Reason: fmt.Sprintf("bad deflate stream: %v", err)}
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, &ErrCorruptFile{Path: t.path, Reason: fmt.Sprintf("bad deflate stream: %v", err)}
	}
	return out, nil
}

// placeFloatSamples walks the raw samples of one segment in file order and
// hands each to place with its segment-relative index.
func placeFloatSamples(t *tiffFile, raw []byte, bits int, place func(k int, v float64)) error {
	switch bits {
	case 32:
		for k := 0; k+4 <= len(raw); k += 4 {
			place(k/4, float64(math.Float32frombits(t.order.Uint32(raw[k:]))))
		}
	case 64:
		for k := 0; k+8 <= len(raw); k += 8 {
			place(k/8, math.Float64frombits(t.order.Uint64(raw[k:])))
		}
	default:
		return &ErrUnsupportedFeature{Feature: fmt.Sprintf("%d-bit floating point samples", bits)}
	}
	return nil
}
