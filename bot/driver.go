// Package bot steers a session without a human at the keyboard. It wanders
// the arena and turns to shoot the nearest live peer in range.
package bot

import (
	"math"
	"math/rand/v2"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/session"
	"github.com/automoto/doomerang-arena/shared/gamemath"
)

// edgeFraction of the playable half-extent beyond which a wandering bot turns
// back towards the centre.
const edgeFraction = 0.85

// Command is one frame of bot input.
type Command struct {
	Forward, Strafe float64
	Turn, Pitch     float64 // radians to add this frame
	Shoot           bool
}

// Driver holds the bot's decision state between frames.
type Driver struct {
	rng     *rand.Rand
	maxX    float64
	heading float64 // wander yaw
	wander  float64 // seconds left on the current heading
	react   float64 // seconds until the bot may fire again
	target  string
}

func NewDriver(rng *rand.Rand, maxX float64) *Driver {
	return &Driver{rng: rng, maxX: maxX}
}

// Target returns the id of the peer currently being engaged, if any.
func (d *Driver) Target() string { return d.target }

// Step decides the next command from the current view.
func (d *Driver) Step(v session.View, delta float64) Command {
	if !v.Alive {
		d.target = ""
		return Command{}
	}
	d.wander -= delta
	d.react -= delta

	pos := v.Self.Position()
	maxTurn := cfg.Bot.TurnRate * delta

	for _, p := range v.Closest {
		if !p.Alive() || p.Distance > cfg.Bot.AttackRange {
			continue
		}
		if p.ID != d.target {
			d.target = p.ID
			d.react = cfg.Bot.ReactionDelay.Seconds()
		}
		yaw, pitch := aimAt(pos, p.Position())
		yawErr := angleDiff(v.Self.Yaw, yaw)
		cmd := Command{
			Turn:  gamemath.ClampSpeed(yawErr, maxTurn),
			Pitch: gamemath.ClampSpeed(pitch-v.Self.Pitch, maxTurn),
		}
		if math.Abs(yawErr) <= cfg.Bot.AimTolerance && d.react <= 0 {
			cmd.Shoot = true
			d.react = cfg.Bot.ReactionDelay.Seconds()
		}
		return cmd
	}

	d.target = ""
	if math.Abs(pos.X) > d.maxX*edgeFraction || math.Abs(pos.Z) > d.maxX*edgeFraction {
		d.heading, _ = aimAt(pos, gamemath.Vec3{Y: pos.Y})
		d.wander = cfg.Bot.WanderInterval.Seconds()
	} else if d.wander <= 0 {
		d.heading = d.rng.Float64()*2*math.Pi - math.Pi
		d.wander = cfg.Bot.WanderInterval.Seconds()
	}
	return Command{
		Forward: 1,
		Turn:    gamemath.ClampSpeed(angleDiff(v.Self.Yaw, d.heading), maxTurn),
		Pitch:   gamemath.ClampSpeed(-v.Self.Pitch, maxTurn),
	}
}

// Apply feeds cmd into the session. It reports whether a shot was fired.
func Apply(s *session.Session, cmd Command, delta float64) bool {
	s.Look(cmd.Turn, cmd.Pitch)
	s.Move(cmd.Forward, cmd.Strafe, delta)
	if cmd.Shoot {
		return s.Shoot()
	}
	return false
}

// aimAt returns the yaw and pitch that look from one point at another.
func aimAt(from, to gamemath.Vec3) (yaw, pitch float64) {
	dx, dy, dz := to.X-from.X, to.Y-from.Y, to.Z-from.Z
	yaw = math.Atan2(-dx, -dz)
	pitch = math.Atan2(dy, math.Hypot(dx, dz))
	return yaw, pitch
}

// angleDiff returns the signed shortest rotation from a to b.
func angleDiff(a, b float64) float64 {
	return math.Remainder(b-a, 2*math.Pi)
}
