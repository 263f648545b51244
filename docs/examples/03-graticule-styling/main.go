package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/atedstone/plotmap/pkg/plotmap"
)

func newDiscoBayMap() (*plotmap.Map, error) {
	extent := plotmap.Extent{MinLon: -55, MaxLon: -48, MinLat: 66, MaxLat: 70}
	origin := -51.5
	return plotmap.New(plotmap.Config{
		Extent:    &extent,
		OriginLon: &origin,
	})
}

// Label all four edges, rotate the parallel labels, and draw solid grey
// gridlines instead of the dotted default
func plotStyledGrid(m *plotmap.Map) (*plotmap.Graticule, error) {
	opts := plotmap.TickOptions{
		MeridianLabels:  plotmap.EdgeSet{Top: true, Bottom: true},
		ParallelLabels:  plotmap.EdgeSet{Left: true, Right: true},
		RotateParallels: true,
		Color:           color.NRGBA{R: 130, G: 130, B: 130, A: 255},
		LineWidth:       0.8,
		Dash:            []float64{},
		Precision:       1,
	}
	return m.GeoTicks(2, 1, opts)
}

// A custom formatter replaces the degree labels entirely
func plotSignedGrid(m *plotmap.Map) (*plotmap.Graticule, error) {
	opts := plotmap.DefaultTickOptions()
	opts.LabelFormat = func(deg float64) string {
		return fmt.Sprintf("%+.1f", deg)
	}
	return m.GeoTicks(2, 1, opts)
}

func main() {
	styled, err := newDiscoBayMap()
	if err != nil {
		log.Fatal(err)
	}
	defer styled.Close()

	grid, err := plotStyledGrid(styled)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Meridians: %v\n", grid.Meridians)
	fmt.Printf("Parallels: %v\n", grid.Parallels)

	if err := styled.SaveFigure("graticule-styled.png"); err != nil {
		log.Fatal(err)
	}

	signed, err := newDiscoBayMap()
	if err != nil {
		log.Fatal(err)
	}
	defer signed.Close()

	if _, err := plotSignedGrid(signed); err != nil {
		log.Fatal(err)
	}
	if err := signed.SaveFigure("graticule-signed.png"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Wrote graticule-styled.png and graticule-signed.png")
}
