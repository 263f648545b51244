package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/atedstone/plotmap/pkg/plotmap"
)

func main() {
	// The DEM footprint defines the map
	m, err := plotmap.New(plotmap.Config{
		DSFile:       "dem.tif",
		OriginPolicy: plotmap.OriginMidpoint,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	// Greyscale relief shading underneath everything else
	shade, err := m.PlotDEM("dem.tif", plotmap.DEMOptions{
		Azimuth:  315,
		Altitude: 50,
		VertExag: 2,
	})
	if err != nil {
		log.Fatal(err)
	}
	if shade.Empty {
		log.Fatal("DEM does not overlap the map extent")
	}

	// Semi-transparent data on top of the relief
	r, err := plotmap.OpenRaster("melt_days.tif")
	if err != nil {
		log.Fatal(err)
	}
	_, err = m.PlotData(r, plotmap.DataOptions{
		Colormap: "viridis",
		Alpha:    0.6,
	})
	if err != nil {
		log.Fatal(err)
	}

	// Highlight the ablation zone from a 0/1 mask grid
	_, err = m.PlotMask("ablation_mask.tif", plotmap.MaskOptions{
		Color: color.NRGBA{R: 255, G: 80, B: 80, A: 255},
		Alpha: 0.35,
	})
	if err != nil {
		log.Fatal(err)
	}

	if _, err := m.PlotColorbar(plotmap.ColorbarOptions{Label: "melt days"}); err != nil {
		log.Fatal(err)
	}

	if err := m.SaveFigure("relief.png"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Wrote relief.png")
}
