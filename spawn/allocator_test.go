package spawn

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/automoto/doomerang-arena/shared/leveldata"
)

func testArena() *leveldata.ArenaData {
	return &leveldata.ArenaData{
		MaxPlayerX:      52,
		SpawnMargin:     4,
		ExclusionRadius: 6,
		EyeHeight:       1.6,
	}
}

func TestAllocateStaysInBounds(t *testing.T) {
	a := NewAllocator(testArena(), rand.New(rand.NewPCG(1, 2)))
	for i := 0; i < 5000; i++ {
		p := a.Allocate()
		if math.Abs(p.X) > 48 || math.Abs(p.Z) > 48 {
			t.Fatalf("spawn %d out of bounds: %+v", i, p)
		}
		if p.X*p.X+p.Z*p.Z < 36 {
			t.Fatalf("spawn %d inside exclusion disc: %+v", i, p)
		}
		if p.Y != 1.6 {
			t.Fatalf("spawn %d at wrong height: %v", i, p.Y)
		}
	}
}

func TestAllocateCoversArena(t *testing.T) {
	a := NewAllocator(testArena(), rand.New(rand.NewPCG(3, 4)))
	var quadrants [4]int
	for i := 0; i < 2000; i++ {
		p := a.Allocate()
		q := 0
		if p.X >= 0 {
			q |= 1
		}
		if p.Z >= 0 {
			q |= 2
		}
		quadrants[q]++
	}
	for q, n := range quadrants {
		if n < 300 {
			t.Errorf("quadrant %d only got %d of 2000 spawns", q, n)
		}
	}
}

func TestAllocateFallsBackToCorner(t *testing.T) {
	arena := testArena()
	// Disc covers the whole square, so sampling can never succeed.
	arena.ExclusionRadius = 100
	a := NewAllocator(arena, rand.New(rand.NewPCG(5, 6)))
	for i := 0; i < 50; i++ {
		p := a.Allocate()
		if math.Abs(p.X) != 48 || math.Abs(p.Z) != 48 {
			t.Fatalf("expected a corner, got %+v", p)
		}
	}
}

func TestAllocateFallsBackToMarkers(t *testing.T) {
	arena := testArena()
	arena.ExclusionRadius = 100
	arena.Markers = []leveldata.Marker{
		{Name: "A", X: 10, Z: -40},
		{Name: "B", X: -60, Z: 53},
	}
	a := NewAllocator(arena, rand.New(rand.NewPCG(9, 10)))

	seen := map[[2]float64]int{}
	for i := 0; i < 100; i++ {
		p := a.Allocate()
		if p.Y != 1.6 {
			t.Fatalf("marker spawn at wrong height: %+v", p)
		}
		seen[[2]float64{p.X, p.Z}]++
	}
	if len(seen) != 2 || seen[[2]float64{10, -40}] == 0 || seen[[2]float64{-48, 48}] == 0 {
		t.Fatalf("expected both markers, clamped to the spawn square, got %v", seen)
	}
}

func TestAllocateDeterministicForSeed(t *testing.T) {
	a := NewAllocator(testArena(), rand.New(rand.NewPCG(7, 8)))
	b := NewAllocator(testArena(), rand.New(rand.NewPCG(7, 8)))
	for i := 0; i < 20; i++ {
		if pa, pb := a.Allocate(), b.Allocate(); pa != pb {
			t.Fatalf("draw %d differs: %+v vs %+v", i, pa, pb)
		}
	}
}
