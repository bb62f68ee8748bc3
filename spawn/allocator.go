// Package spawn picks respawn points for the local player.
package spawn

import (
	"math/rand/v2"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/shared/gamemath"
	"github.com/automoto/doomerang-arena/shared/leveldata"
)

// Allocator draws spawn points uniformly from the arena square, rejecting
// points inside the central exclusion disc.
type Allocator struct {
	extent      float64
	exclusion   float64
	eyeHeight   float64
	maxAttempts int
	markers     []gamemath.Vec3
	rng         *rand.Rand
}

// NewAllocator builds an allocator for the given arena. rng must not be shared
// across goroutines.
func NewAllocator(arena *leveldata.ArenaData, rng *rand.Rand) *Allocator {
	attempts := cfg.Arena.SpawnMaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	a := &Allocator{
		extent:      arena.SpawnExtent(),
		exclusion:   arena.ExclusionRadius,
		eyeHeight:   arena.EyeHeight,
		maxAttempts: attempts,
		rng:         rng,
	}
	for _, m := range arena.Markers {
		a.markers = append(a.markers, gamemath.Vec3{
			X: gamemath.Clamp(m.X, -a.extent, a.extent),
			Y: a.eyeHeight,
			Z: gamemath.Clamp(m.Z, -a.extent, a.extent),
		})
	}
	return a
}

// Allocate returns a spawn point at eye height. If sampling keeps landing in
// the exclusion disc it gives up and returns a random arena marker, or a
// random arena corner when the arena has no markers.
func (a *Allocator) Allocate() gamemath.Vec3 {
	r2 := a.exclusion * a.exclusion
	for i := 0; i < a.maxAttempts; i++ {
		x := (a.rng.Float64()*2 - 1) * a.extent
		z := (a.rng.Float64()*2 - 1) * a.extent
		if x*x+z*z >= r2 {
			return gamemath.Vec3{X: x, Y: a.eyeHeight, Z: z}
		}
	}
	if len(a.markers) > 0 {
		return a.markers[a.rng.IntN(len(a.markers))]
	}
	return a.corner()
}

func (a *Allocator) corner() gamemath.Vec3 {
	x, z := a.extent, a.extent
	if a.rng.IntN(2) == 0 {
		x = -x
	}
	if a.rng.IntN(2) == 0 {
		z = -z
	}
	return gamemath.Vec3{X: x, Y: a.eyeHeight, Z: z}
}
