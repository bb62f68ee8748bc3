package factory

import (
	"math"

	"github.com/automoto/doomerang-arena/archetypes"
	"github.com/automoto/doomerang-arena/components"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

const (
	spaceCellSize = 4
	spacePadding  = 8.0
)

// CreateSpace creates the broadphase space covering ±halfExtent on x and z.
func CreateSpace(ecs *ecs.ECS, halfExtent float64) *donburi.Entry {
	space := archetypes.Space.Spawn(ecs)
	size := int(math.Ceil(2 * (halfExtent + spacePadding)))
	spaceData := resolv.NewSpace(size, size, spaceCellSize, spaceCellSize)
	components.Space.Set(space, spaceData)
	return space
}

// SpaceOffset is the translation from centred world x/z to space coordinates,
// which are never negative.
func SpaceOffset(space *resolv.Space) float64 {
	return float64(space.Width()*space.CellWidth) / 2
}

// CreateSingletons spawns the clock and audio cue queue.
func CreateSingletons(ecs *ecs.ECS) {
	archetypes.Clock.Spawn(ecs)
	archetypes.Audio.Spawn(ecs)
}
