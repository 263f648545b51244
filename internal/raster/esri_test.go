package raster

import (
	"strings"
	"testing"
)

// TestOpenASCIIGrid tests header parsing and sample layout of ESRI grids.
func TestOpenASCIIGrid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantGT  [6]float64
	}{
		{
			name: "corner registration",
			content: `ncols 3
nrows 2
xllcorner 10
yllcorner 50
cellsize 0.5
NODATA_value -9999
1 2 3
4 -9999 6
`,
			wantGT: [6]float64{10, 0.5, 0, 51, 0, -0.5},
		},
		{
			name: "center registration",
			content: `NCOLS 3
NROWS 2
XLLCENTER 10
YLLCENTER 50
CELLSIZE 0.5
NODATA_VALUE -9999
1 2 3
4 -9999 6
`,
			wantGT: [6]float64{9.75, 0.5, 0, 50.75, 0, -0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Open(writeRaster(t, "grid.asc", []byte(tt.content)))
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}

			if ds.Width != 3 || ds.Height != 2 {
				t.Errorf("size = %dx%d, want 3x2", ds.Width, ds.Height)
			}
			if ds.Transform != tt.wantGT {
				t.Errorf("Transform = %v, want %v", ds.Transform, tt.wantGT)
			}
			if !ds.HasNoData || ds.NoData != -9999 {
				t.Errorf("NoData = %g (has %v), want -9999", ds.NoData, ds.HasNoData)
			}
			if ds.CRS.ModelType != 0 {
				t.Errorf("ModelType = %d, want 0 (grids declare no CRS)", ds.CRS.ModelType)
			}

			want := []float64{1, 2, 3, 4, -9999, 6}
			for i, w := range want {
				if got := ds.Bands[0][i]; got != w {
					t.Errorf("sample[%d] = %g, want %g", i, got, w)
				}
			}
			if !ds.IsNoData(ds.Bands[0][4]) {
				t.Errorf("IsNoData(sample[4]) = false, want true")
			}
		})
	}
}

// TestOpenASCIIGridWithoutNoData tests that nodata_value stays optional.
func TestOpenASCIIGridWithoutNoData(t *testing.T) {
	content := `ncols 2
nrows 1
xllcorner 0
yllcorner 0
cellsize 1
3 4
`
	ds, err := Open(writeRaster(t, "grid.asc", []byte(content)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if ds.HasNoData {
		t.Errorf("HasNoData = true, want false")
	}
}

// TestOpenASCIIGridErrors tests malformed grids.
func TestOpenASCIIGridErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantIn  string
	}{
		{
			name:    "header only",
			content: "ncols 2\nnrows 2\n",
			wantIn:  "ends before any samples",
		},
		{
			name:    "missing cellsize",
			content: "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\n1 2 3 4\n",
			wantIn:  "missing ncols, nrows, or cellsize",
		},
		{
			name:    "too few samples",
			content: "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2 3\n",
			wantIn:  "got 3 samples, want 4",
		},
		{
			name:    "too many samples",
			content: "ncols 2\nnrows 2\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 2 3 4 5\n",
			wantIn:  "more samples than",
		},
		{
			name:    "bad sample",
			content: "ncols 2\nnrows 1\nxllcorner 0\nyllcorner 0\ncellsize 1\n1 x\n",
			wantIn:  "bad sample",
		},
		{
			name:    "bad header value",
			content: "ncols two\nnrows 1\n",
			wantIn:  "bad ncols value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(writeRaster(t, "bad.asc", []byte(tt.content)))
			if err == nil {
				t.Fatalf("Open() error = nil, want %q", tt.wantIn)
			}
			if !strings.Contains(err.Error(), tt.wantIn) {
				t.Errorf("Open() error = %v, want substring %q", err, tt.wantIn)
			}
		})
	}
}
