package systems

import (
	"github.com/automoto/doomerang-arena/components"
	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// UpdateDeathAnimations advances the collapse of dying peers and expires
// death predictions the owner never confirmed.
func UpdateDeathAnimations(ecs *ecs.ECS) {
	clockEntry, ok := components.Clock.First(ecs.World)
	if !ok {
		return
	}
	dt := components.Clock.Get(clockEntry).Delta

	components.Death.Each(ecs.World, func(e *donburi.Entry) {
		death := components.Death.Get(e)
		if death.Predicted {
			death.PredictedAge += dt
			if death.PredictedAge >= cfg.Death.ConfirmGrace {
				death.Predicted = false
			}
		}

		if death.State != cfg.PeerDying {
			return
		}
		if death.Tween == nil {
			death.Tween = gween.New(float32(death.Progress), 1, float32(cfg.Death.AnimDuration), ease.Linear)
		}
		v, done := death.Tween.Update(float32(dt))
		death.Progress = float64(v)
		if done {
			death.Progress = 1
			death.State = cfg.PeerDead
			death.Tween = nil
		}
	})
}

// StartDying begins the collapse animation with the given spin.
func StartDying(e *donburi.Entry, spin float64) {
	death := components.Death.Get(e)
	death.State = cfg.PeerDying
	death.Progress = 0
	death.Spin = spin
	death.Tween = gween.New(0, 1, float32(cfg.Death.AnimDuration), ease.Linear)
	components.Health.Get(e).Current = 0
}

// MarkDead puts a peer straight into the finished death pose. Used for peers
// first seen dead so they never flash alive.
func MarkDead(e *donburi.Entry) {
	death := components.Death.Get(e)
	death.State = cfg.PeerDead
	death.Progress = 1
	death.Tween = nil
	death.Predicted = false
	components.Health.Get(e).Current = 0
}

// Revive fully resets a dead peer.
func Revive(e *donburi.Entry, hp float64) {
	*components.Death.Get(e) = components.DeathData{State: cfg.PeerAlive}
	components.Health.Get(e).Current = hp
}
