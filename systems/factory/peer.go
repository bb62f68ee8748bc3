package factory

import (
	"github.com/automoto/doomerang-arena/archetypes"
	"github.com/automoto/doomerang-arena/components"
	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// CreatePeer spawns a remote peer at full health and registers its hit volume.
func CreatePeer(ecs *ecs.ECS, id string) *donburi.Entry {
	peer := archetypes.RemotePeer.Spawn(ecs)

	w, d := cfg.Combat.HitWidth, cfg.Combat.HitDepth
	obj := resolv.NewObject(0, 0, w, d, tags.ResolvPeer)
	obj.SetShape(resolv.NewRectangle(0, 0, w, d))
	obj.Data = peer // Link for O(1) lookup

	components.HitVolume.SetValue(peer, components.HitVolumeData{Object: obj})
	components.Peer.SetValue(peer, components.PeerData{ID: id})
	components.Health.SetValue(peer, components.HealthData{
		Current: cfg.Player.MaxHP,
		Max:     cfg.Player.MaxHP,
	})
	components.Death.SetValue(peer, components.DeathData{State: cfg.PeerAlive})

	if spaceEntry, ok := components.Space.First(ecs.World); ok {
		components.Space.Get(spaceEntry).Add(obj)
	}

	return peer
}

// PlaceHitVolume moves a peer's footprint to match its transform.
func PlaceHitVolume(ecs *ecs.ECS, e *donburi.Entry) {
	spaceEntry, ok := components.Space.First(ecs.World)
	if !ok {
		return
	}
	offset := SpaceOffset(components.Space.Get(spaceEntry))
	t := components.Transform.Get(e)
	obj := components.HitVolume.Get(e).Object
	obj.X = t.X + offset - obj.W/2
	obj.Y = t.Z + offset - obj.H/2
	obj.Update()
}

// DestroyPeer removes a peer entity and releases its hit volume.
func DestroyPeer(ecs *ecs.ECS, e *donburi.Entry) {
	if spaceEntry, ok := components.Space.First(ecs.World); ok {
		if hv := components.HitVolume.Get(e); hv.Object != nil {
			components.Space.Get(spaceEntry).Remove(hv.Object)
		}
	}
	ecs.World.Remove(e.Entity())
}
