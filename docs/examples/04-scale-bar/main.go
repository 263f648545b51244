package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/atedstone/plotmap/pkg/plotmap"
)

func main() {
	extent := plotmap.Extent{MinLon: -52, MaxLon: -46, MinLat: 60, MaxLat: 64}
	origin := -49.0

	m, err := plotmap.New(plotmap.Config{
		Extent:    &extent,
		OriginLon: &origin,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	// Default: a fancy bar with alternating black and white segments,
	// anchored near the bottom-right corner
	bar, err := m.PlotScale(100, plotmap.DefaultScaleOptions())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("100 km spans %.0f pixels (%.0f m/pixel)\n",
		bar.X1-bar.X0, bar.MetersPerPixel)

	// A plain line bar in the top-left with a spelled-out unit label
	_, err = m.PlotScale(75, plotmap.ScaleOptions{
		XPos:  0.15,
		YPos:  0.9,
		Style: plotmap.ScaleSimple,
		Units: "kilometres",
		Color: color.NRGBA{R: 40, G: 40, B: 120, A: 255},
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := m.SaveFigure("scalebars.png"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Wrote scalebars.png")
}
