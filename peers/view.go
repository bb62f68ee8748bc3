package peers

import (
	"github.com/automoto/doomerang-arena/components"
	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/shared/gamemath"
	"github.com/yohamta/donburi"
)

// PeerView is a read-only copy of a remote peer's state for presentation.
type PeerView struct {
	ID    string
	Name  string
	Color uint32

	X, Y, Z    float64
	Yaw, Pitch float64
	HP         float64

	Life          cfg.PeerLife
	DeathProgress float64 // 0..1
	DeathSpin     float64
}

// Alive reports whether the peer is alive and not collapsing.
func (v PeerView) Alive() bool {
	return v.Life == cfg.PeerAlive
}

// Dying reports whether the peer is in, or has finished, its death phase.
func (v PeerView) Dying() bool {
	return v.Life != cfg.PeerAlive
}

// Position returns the reported eye position.
func (v PeerView) Position() gamemath.Vec3 {
	return gamemath.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// Nearby is a peer with its horizontal distance from a reference point.
type Nearby struct {
	PeerView
	Distance float64
}

func (r *Registry) view(e *donburi.Entry) PeerView {
	peer := components.Peer.Get(e)
	t := components.Transform.Get(e)
	death := components.Death.Get(e)
	return PeerView{
		ID:            peer.ID,
		Name:          peer.Name,
		Color:         peer.BaseColor,
		X:             t.X,
		Y:             t.Y,
		Z:             t.Z,
		Yaw:           t.Yaw,
		Pitch:         t.Pitch,
		HP:            components.Health.Get(e).Current,
		Life:          death.State,
		DeathProgress: death.Progress,
		DeathSpin:     death.Spin,
	}
}
