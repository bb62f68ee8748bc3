package components

import (
	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// DeathData tracks a remote peer's life state and collapse animation.
// Progress runs 0..1 while State is PeerDying and stays at 1 once PeerDead.
type DeathData struct {
	State    cfg.PeerLife
	Progress float64
	Spin     float64
	Tween    *gween.Tween

	// Predicted is set when this client killed the peer locally and the owner
	// has not yet published alive=false. PredictedAge counts seconds since.
	Predicted    bool
	PredictedAge float64
}

// Alive reports whether the peer is fully alive.
func (d *DeathData) Alive() bool {
	return d.State == cfg.PeerAlive
}

var Death = donburi.NewComponentType[DeathData]()
