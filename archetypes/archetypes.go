package archetypes

import (
	"github.com/automoto/doomerang-arena/components"
	"github.com/automoto/doomerang-arena/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

var (
	RemotePeer = newArchetype(
		tags.RemotePeer,
		components.Peer,
		components.Transform,
		components.Health,
		components.Death,
		components.HitVolume,
	)
	Space = newArchetype(
		components.Space,
	)
	Audio = newArchetype(
		components.Audio,
	)
	Clock = newArchetype(
		components.Clock,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.World.Create(
		append(a.components, cs...)...,
	))
	return e
}
