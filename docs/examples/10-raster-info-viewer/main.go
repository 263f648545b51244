package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/atedstone/plotmap/pkg/plotmap"
)

func main() {
	path := flag.String("file", "", "Path to a GeoTIFF or ESRI ASCII grid")
	flag.Parse()

	if *path == "" {
		log.Fatal("Please provide -file path")
	}

	r, err := plotmap.OpenRaster(*path)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== Raster Information ===\n")
	fmt.Printf("File: %s\n", r.Path())
	fmt.Printf("Size: %dx%d cells\n", r.Width(), r.Height())
	fmt.Printf("Bands: %d\n", r.BandCount())
	if nodata, ok := r.NoData(); ok {
		fmt.Printf("NoData: %g\n", nodata)
	} else {
		fmt.Printf("NoData: none\n")
	}
	fmt.Printf("Geographic CRS: %v\n\n", r.Geographic())

	minX, minY, maxX, maxY := r.NativeBounds()
	fmt.Printf("=== Native Bounds ===\n")
	fmt.Printf("X: %.2f to %.2f\n", minX, maxX)
	fmt.Printf("Y: %.2f to %.2f\n\n", minY, maxY)

	ext, err := r.ExtentGeographic()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("=== Geographic Extent ===\n")
	fmt.Printf("Longitude: %.6f to %.6f\n", ext.MinLon, ext.MaxLon)
	fmt.Printf("Latitude: %.6f to %.6f\n\n", ext.MinLat, ext.MaxLat)

	// Band statistics, skipping nodata cells. Bands are numbered from 1.
	for n := 1; n <= r.BandCount(); n++ {
		band, err := r.Band(n)
		if err != nil {
			log.Fatal(err)
		}
		lo, hi, count := bandStats(r, band)
		fmt.Printf("Band %d: %d valid cells", n, count)
		if count > 0 {
			fmt.Printf(", range %g to %g", lo, hi)
		}
		fmt.Println()
	}
}

func bandStats(r *plotmap.Raster, band []float64) (lo, hi float64, count int) {
	for _, v := range band {
		if r.IsNoData(v) {
			continue
		}
		if count == 0 || v < lo {
			lo = v
		}
		if count == 0 || v > hi {
			hi = v
		}
		count++
	}
	return lo, hi, count
}
