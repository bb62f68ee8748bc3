package systems

import (
	"github.com/automoto/doomerang-arena/components"
	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/yohamta/donburi/ecs"
)

// QueueSound adds a cue to the pending queue for the presentation layer.
func QueueSound(ecs *ecs.ECS, id cfg.SoundID) {
	entry, ok := components.Audio.First(ecs.World)
	if !ok {
		return
	}
	audio := components.Audio.Get(entry)
	audio.PendingSFX = append(audio.PendingSFX, id)
}

// DrainSounds returns and clears the pending cues.
func DrainSounds(ecs *ecs.ECS) []cfg.SoundID {
	entry, ok := components.Audio.First(ecs.World)
	if !ok {
		return nil
	}
	audio := components.Audio.Get(entry)
	out := audio.PendingSFX
	audio.PendingSFX = nil
	return out
}

// UpdateClock publishes the frame delta to systems.
func UpdateClock(ecs *ecs.ECS, delta float64) {
	entry, ok := components.Clock.First(ecs.World)
	if !ok {
		return
	}
	clock := components.Clock.Get(entry)
	clock.Delta = delta
	clock.Elapsed += delta
}
