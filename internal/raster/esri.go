package raster

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// looksLikeASCIIGrid reports whether the file starts with an ESRI ASCII
// grid header ("ncols <n>").
func looksLikeASCIIGrid(data []byte) bool {
	head := data
	if len(head) > 64 {
		head = head[:64]
	}
	fields := strings.Fields(string(head))
	return len(fields) > 0 && strings.EqualFold(fields[0], "ncols")
}

// parseASCIIGrid reads an ESRI ASCII grid. The header is a sequence of
// "keyword value" lines (ncols, nrows, xllcorner or xllcenter, yllcorner
// or yllcenter, cellsize, optionally nodata_value), followed by
// ncols*nrows whitespace-separated samples, top row first.
//
// The format declares no CRS, so the returned dataset has an unknown
// model type and callers decide how to interpret the coordinates.
func parseASCIIGrid(path string, data []byte) (*Dataset, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	var (
		ncols, nrows       int
		xll, yll, cellsize float64
		xCenter, yCenter   bool
		noData             float64
		hasNoData          bool
	)

	// Header: keyword/value pairs until the first bare number.
	var pending string
	for {
		word, ok := next()
		if !ok {
			return nil, &ErrCorruptFile{Path: path, Reason: "grid header ends before any samples"}
		}
		key := strings.ToLower(word)
		isKeyword := true
		switch key {
		case "ncols", "nrows", "xllcorner", "xllcenter", "yllcorner", "yllcenter", "cellsize", "nodata_value":
		default:
			isKeyword = false
		}
		if !isKeyword {
			pending = word
			break
		}
		value, ok := next()
		if !ok {
			return nil, &ErrCorruptFile{Path: path, Reason: fmt.Sprintf("header keyword %s has no value", word)}
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, &ErrCorruptFile{Path: path, Reason: fmt.Sprintf("bad %s value %q", word, value)}
		}
		switch key {
		case "ncols":
			ncols = int(v)
		case "nrows":
			nrows = int(v)
		case "xllcorner":
			xll = v
		case "xllcenter":
			xll, xCenter = v, true
		case "yllcorner":
			yll = v
		case "yllcenter":
			yll, yCenter = v, true
		case "cellsize":
			cellsize = v
		case "nodata_value":
			noData, hasNoData = v, true
		}
	}

	if ncols <= 0 || nrows <= 0 || cellsize <= 0 {
		return nil, &ErrCorruptFile{Path: path, Reason: "grid header missing ncols, nrows, or cellsize"}
	}

	if xCenter {
		xll -= cellsize / 2
	}
	if yCenter {
		yll -= cellsize / 2
	}

	band := make([]float64, ncols*nrows)
	i := 0
	read := func(word string) error {
		if i >= len(band) {
			return &ErrCorruptFile{Path: path, Reason: "more samples than ncols*nrows"}
		}
		v, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return &ErrCorruptFile{Path: path, Reason: fmt.Sprintf("bad sample %q", word)}
		}
		band[i] = v
		i++
		return nil
	}
	if err := read(pending); err != nil {
		return nil, err
	}
	for {
		word, ok := next()
		if !ok {
			break
		}
		if err := read(word); err != nil {
			return nil, err
		}
	}
	if i != len(band) {
		return nil, &ErrCorruptFile{Path: path, Reason: fmt.Sprintf("got %d samples, want %d", i, len(band))}
	}

	top := yll + float64(nrows)*cellsize
	return &Dataset{
		Width:     ncols,
		Height:    nrows,
		Bands:     [][]float64{band},
		NoData:    noData,
		HasNoData: hasNoData,
		Transform: [6]float64{xll, cellsize, 0, top, 0, -cellsize},
	}, nil
}
