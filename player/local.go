// Package player holds the local player's health and respawn lifecycle.
package player

import (
	"math"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/shared/gamemath"
	"github.com/automoto/doomerang-arena/shared/messages"
)

// DamageOutcome is the result of applying damage to the local player.
type DamageOutcome int

const (
	DamageIgnored DamageOutcome = iota
	DamageWounded
	DamageKilled
)

func (o DamageOutcome) String() string {
	switch o {
	case DamageWounded:
		return "wounded"
	case DamageKilled:
		return "killed"
	default:
		return "ignored"
	}
}

// RespawnKind describes what a Tick did.
type RespawnKind int

const (
	RespawnIdle      RespawnKind = iota // alive, nothing to count down
	RespawnWaiting                      // dead, timer still running
	RespawnRespawned                    // timer expired this tick
)

// RespawnOutcome is returned by Tick. Point is set only for RespawnRespawned.
type RespawnOutcome struct {
	Kind  RespawnKind
	Point gamemath.Vec3
}

// Pose is the local camera pose. Y is eye height.
type Pose struct {
	X, Y, Z    float64
	Yaw, Pitch float64
}

// Position returns the eye position.
func (p Pose) Position() gamemath.Vec3 {
	return gamemath.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// Spawner supplies respawn points.
type Spawner interface {
	Allocate() gamemath.Vec3
}

// Hooks are called on state transitions. Either may be nil.
type Hooks struct {
	// RequestPublish asks for an immediate presence publish.
	RequestPublish func()
	PlayCue        func(cfg.SoundID)
}

// Local is the local player state machine: Alive, or Dead with a respawn
// timer. Damage while dead is ignored.
type Local struct {
	hp           float64
	state        cfg.LifeState
	respawnTimer float64
	respawnDelay float64
	isRespawning bool

	pose    Pose
	maxX    float64
	spawner Spawner
	hooks   Hooks
}

// NewLocal returns a live player at full health, placed at a spawn point.
func NewLocal(spawner Spawner, maxX float64, hooks Hooks) *Local {
	l := &Local{
		hp:           cfg.Player.MaxHP,
		state:        cfg.LifeAlive,
		respawnDelay: cfg.Player.RespawnDelay,
		maxX:         maxX,
		spawner:      spawner,
		hooks:        hooks,
	}
	l.placeAt(spawner.Allocate())
	return l
}

func (l *Local) HP() float64               { return l.hp }
func (l *Local) State() cfg.LifeState      { return l.state }
func (l *Local) Alive() bool               { return l.state == cfg.LifeAlive }
func (l *Local) IsRespawning() bool        { return l.isRespawning }
func (l *Local) RespawnTimer() float64     { return l.respawnTimer }
func (l *Local) RespawnDelay() float64     { return l.respawnDelay }
func (l *Local) Pose() Pose                { return l.pose }
func (l *Local) SetHooks(hooks Hooks)      { l.hooks = hooks }
func (l *Local) SetRespawnDelay(d float64) { l.respawnDelay = d }

// ApplyDamage subtracts amount from hp. Callers clamp amount; this only keeps
// hp from going negative. Wounded and killed both request a publish.
func (l *Local) ApplyDamage(amount float64, shooterID string) DamageOutcome {
	if l.state != cfg.LifeAlive {
		return DamageIgnored
	}

	l.hp = math.Max(0, l.hp-amount)
	if l.hp > 0 {
		l.requestPublish()
		return DamageWounded
	}

	l.state = cfg.LifeDead
	l.respawnTimer = l.respawnDelay
	l.isRespawning = true
	l.playCue(cfg.SoundDeath)
	l.requestPublish()
	return DamageKilled
}

// Tick advances the respawn countdown.
func (l *Local) Tick(delta float64) RespawnOutcome {
	if l.state == cfg.LifeAlive {
		return RespawnOutcome{Kind: RespawnIdle}
	}

	l.respawnTimer -= delta
	if l.respawnTimer > 0 {
		return RespawnOutcome{Kind: RespawnWaiting}
	}

	l.state = cfg.LifeAlive
	l.isRespawning = false
	l.hp = cfg.Player.MaxHP
	l.respawnTimer = 0
	point := l.spawner.Allocate()
	l.placeAt(point)
	l.requestPublish()
	return RespawnOutcome{Kind: RespawnRespawned, Point: point}
}

// Spawn moves the player to a fresh spawn point facing forward. Used when
// (re)joining a room; it does not change health or publish.
func (l *Local) Spawn() gamemath.Vec3 {
	point := l.spawner.Allocate()
	l.placeAt(point)
	l.pose.Yaw, l.pose.Pitch = 0, 0
	return point
}

// Move walks along the current yaw. forward and strafe are in [-1, 1]; the
// combined input is normalised so diagonals are not faster.
func (l *Local) Move(forward, strafe, delta float64) {
	if l.state != cfg.LifeAlive {
		return
	}
	mag := math.Hypot(forward, strafe)
	if mag == 0 {
		return
	}
	forward, strafe = forward/mag, strafe/mag

	fwd, right := gamemath.Flat(l.pose.Yaw)
	step := cfg.Player.MoveSpeed * delta
	l.pose.X = gamemath.ClampSpeed(l.pose.X+(fwd.X*forward+right.X*strafe)*step, l.maxX)
	l.pose.Z = gamemath.ClampSpeed(l.pose.Z+(fwd.Z*forward+right.Z*strafe)*step, l.maxX)
}

// Look rotates the view. Pitch is clamped short of straight up or down.
func (l *Local) Look(dYaw, dPitch float64) {
	if l.state != cfg.LifeAlive {
		return
	}
	l.pose.Yaw = math.Remainder(l.pose.Yaw+dYaw, 2*math.Pi)
	l.pose.Pitch = gamemath.ClampSpeed(l.pose.Pitch+dPitch, cfg.Player.PitchLimit)
}

// Aim returns the eye origin and unit view direction.
func (l *Local) Aim() (origin, dir gamemath.Vec3) {
	return l.pose.Position(), gamemath.Forward(l.pose.Yaw, l.pose.Pitch)
}

// Record builds the presence record to publish. hp is clamped to [0, MaxHP].
func (l *Local) Record(color, name string) messages.PresenceRecord {
	return messages.PresenceRecord{
		X:     l.pose.X,
		Y:     l.pose.Y,
		Z:     l.pose.Z,
		Yaw:   l.pose.Yaw,
		Pitch: l.pose.Pitch,
		HP:    gamemath.Clamp(l.hp, 0, cfg.Player.MaxHP),
		Alive: l.Alive(),
		Color: color,
		Name:  name,
	}
}

func (l *Local) placeAt(p gamemath.Vec3) {
	l.pose.X, l.pose.Y, l.pose.Z = p.X, p.Y, p.Z
}

func (l *Local) requestPublish() {
	if l.hooks.RequestPublish != nil {
		l.hooks.RequestPublish()
	}
}

func (l *Local) playCue(id cfg.SoundID) {
	if l.hooks.PlayCue != nil {
		l.hooks.PlayCue(id)
	}
}
