package main

import (
	"fmt"
	"log"
	"os"

	"github.com/atedstone/plotmap/pkg/plotmap"
)

// A small surface mass balance grid in ESRI ASCII format. The format
// is plain text, so a grid is easy to fabricate inline.
const smbGrid = `ncols 6
nrows 4
xllcorner -51.0
yllcorner 66.0
cellsize 0.5
nodata_value -9999
-210 -180 -120 -60 10 45
-190 -150 -90 -20 30 60
-160 -110 -9999 20 55 80
-130 -80 -10 40 70 95
`

func main() {
	if err := os.WriteFile("smb.asc", []byte(smbGrid), 0o644); err != nil {
		log.Fatal(err)
	}

	r, err := plotmap.OpenRaster("smb.asc")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Grid: %dx%d cells\n", r.Width(), r.Height())
	if nodata, ok := r.NoData(); ok {
		fmt.Printf("NoData: %g\n", nodata)
	}
	minX, minY, maxX, maxY := r.NativeBounds()
	fmt.Printf("Bounds: [%.2f,%.2f] to [%.2f,%.2f]\n", minX, minY, maxX, maxY)

	// ASCII grids carry no projection; cells in degree-sized steps are
	// taken as geographic
	ext, err := r.ExtentGeographic()
	if err != nil {
		log.Fatal(err)
	}

	m, err := plotmap.New(plotmap.Config{Raster: r})
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()
	fmt.Printf("Map extent: %+v\n", ext)

	if _, err := m.PlotData(r, plotmap.DataOptions{Colormap: "blues_r"}); err != nil {
		log.Fatal(err)
	}
	if _, err := m.PlotColorbar(plotmap.ColorbarOptions{Label: "SMB (mm w.e.)"}); err != nil {
		log.Fatal(err)
	}

	if err := m.SaveFigure("smb.png"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Wrote smb.png")
}
