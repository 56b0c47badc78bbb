package main

import (
	"context"
	"flag"
	"log"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"
	"github.com/jinjor/lxpatterns/src/lx"
	"golang.org/x/sync/errgroup"
)

const (
	gridSize    = 16
	gridLayers  = 4
	gridSpacing = 1.0
	sphereRings = 20
	ringPoints  = 64
	sphereRad   = 10.0
)

func main() {
	flag.Parse()
	dir := flag.Arg(0)
	if dir == "" {
		panic("dir is not passed")
	}
	log.SetFlags(log.Lshortfile)

	ctx := context.Background()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		model := lx.NewModel(gridPositions(gridSize, gridLayers, gridSpacing))
		log.Printf("generated grid model: %d points\n", model.Size())
		err := model.Save(dir + "/grid.json")
		log.Println("saved grid model")
		return err
	})
	g.Go(func() error {
		model := lx.NewModel(spherePositions(sphereRings, ringPoints, sphereRad))
		log.Printf("generated sphere model: %d points\n", model.Size())
		err := model.Save(dir + "/sphere.json")
		log.Println("saved sphere model")
		return err
	})
	err := g.Wait()
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Println("Successfully generated models.")
}

// gridPositions lays out size x size x layers points, layer by layer.
func gridPositions(size int, layers int, spacing float64) []r3.Vector {
	positions := make([]r3.Vector, 0, size*size*layers)
	for z := 0; z < layers; z++ {
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				positions = append(positions, r3.Vector{
					X: float64(x) * spacing,
					Y: float64(y) * spacing,
					Z: float64(z) * spacing,
				})
			}
		}
	}
	return positions
}

// spherePositions places rings of points at evenly spaced latitudes,
// leaving out the poles.
func spherePositions(rings int, perRing int, radius float64) []r3.Vector {
	positions := make([]r3.Vector, 0, rings*perRing)
	for r := 0; r < rings; r++ {
		lat := -90.0 + 180.0*float64(r+1)/float64(rings+1)
		for i := 0; i < perRing; i++ {
			lng := -180.0 + 360.0*float64(i)/float64(perRing)
			p := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lng))
			positions = append(positions, p.Vector.Mul(radius))
		}
	}
	return positions
}
