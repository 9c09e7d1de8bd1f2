package main

import (
	"fmt"
	"log"

	"github.com/akmonengine/wellspace"
	"github.com/akmonengine/wellspace/grid"
	"github.com/akmonengine/wellspace/well"
	"github.com/go-gl/mathgl/mgl64"
)

func printWells(f *wellspace.Field) {
	for _, id := range f.Wells.IDs() {
		w, _ := f.Wells.Get(id)
		fmt.Printf("   %s: heel=%.4v toe=%.4v length=%.4f\n", f.Wells.Name(id), w.Heel, w.Toe, w.Length())
	}
	fmt.Printf("   shortest distance: %.6f\n", wellspace.ShortestDistance(f.Wells.Wells()))
}

func main() {
	settings := wellspace.DefaultSettings()
	settings.MinDistance = 4
	settings.MinLength = 5
	settings.MaxLength = 10
	settings.Workers = 2

	f, err := wellspace.NewField(settings)
	if err != nil {
		log.Fatal(err)
	}

	f.AddWell("x", well.New(mgl64.Vec3{-4, 1, 1}, mgl64.Vec3{-1, 0, 0}))
	f.AddWell("y", well.New(mgl64.Vec3{0, 1, 3}, mgl64.Vec3{0, -1, 0}))
	f.AddWell("z", well.New(mgl64.Vec3{-3, 1, 0}, mgl64.Vec3{-2, -1, -1}))
	q := f.AddWell("q", well.New(mgl64.Vec3{-2, -2, 0}, mgl64.Vec3{-2, 2, 0}))
	f.AddWell("w", well.New(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 0, 0}))

	f.Events.Subscribe(wellspace.BOTH_NOT_CONVERGED, func(event wellspace.Event) {
		fmt.Printf("⚠️  not converged after %d iterations\n", event.(wellspace.BothNotConvergedEvent).Iterations)
	})
	f.Events.Subscribe(wellspace.PAIR_BEST_EFFORT, func(event wellspace.Event) {
		e := event.(wellspace.PairBestEffortEvent)
		fmt.Printf("⚠️  wells %s and %s left at %.6f\n", f.Wells.Name(e.WellA), f.Wells.Name(e.WellB), e.Distance)
	})

	fmt.Println("Initial wells:")
	printWells(f)

	report, err := f.EnforceBoth(4, 1e-3, 10, 5, 1e-7)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nEnforceBoth: converged=%v iterations=%d\n", report.Converged, report.Iterations)
	printWells(f)

	// Confine q to the eastern half of a 20x20x10 reservoir
	g, err := grid.NewRegularGrid(grid.IJK{I: 4, J: 4, K: 2}, mgl64.Vec3{-10, -10, -5}, mgl64.Vec3{5, 5, 5})
	if err != nil {
		log.Fatal(err)
	}
	if err := f.AddBoundary(q, g, grid.IJK{I: 2, J: 0, K: 0}, grid.IJK{I: 3, J: 3, K: 1}); err != nil {
		log.Fatal(err)
	}

	report, err = f.EnforceAll()
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nEnforceAll: converged=%v iterations=%d\n", report.Converged, report.Iterations)
	printWells(f)

	crossings, err := f.Trace(q, g)
	if err != nil {
		fmt.Printf("trace of q: %v\n", err)
		return
	}
	for _, c := range crossings {
		fmt.Printf("   cell %v entry=%.4v exit=%.4v\n", c.Cell.IJK, c.Entry, c.Exit)
	}
}
