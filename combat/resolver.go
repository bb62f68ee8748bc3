package combat

import (
	"log"
	"math/rand/v2"
	"time"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/peers"
	"github.com/automoto/doomerang-arena/player"
	"github.com/automoto/doomerang-arena/shared/gamemath"
	"github.com/automoto/doomerang-arena/shared/messages"
)

// LocalPlayer is the local damage path.
type LocalPlayer interface {
	ApplyDamage(amount float64, shooterID string) player.DamageOutcome
}

// Registry is the remote damage path and the source of shot candidates.
type Registry interface {
	ApplyDamage(id string, amount float64) (killed bool)
	Candidates(origin, dir gamemath.Vec3, length float64) []peers.Target
}

// Outcome describes what applying one damage event did.
type Outcome struct {
	Event    messages.DamageEvent // with the clamped amount
	Self     bool                 // targeted the local player
	Local    player.DamageOutcome // set when Self
	Killed   bool                 // target crossed to zero hp
	Credited bool                 // the kill counts for us
}

// Resolver routes damage. Each peer is the authority on its own health: events
// targeting us go to the local player, everything else to the registry.
type Resolver struct {
	local    LocalPlayer
	registry Registry
	tester   HitTester
	rng      *rand.Rand
	now      func() time.Time

	selfID string
	kills  int
}

// NewResolver wires a resolver with the default ray tester and wall clock.
func NewResolver(local LocalPlayer, registry Registry, rng *rand.Rand) *Resolver {
	return &Resolver{
		local:    local,
		registry: registry,
		tester:   RayTester{Range: cfg.Combat.ShotRange},
		rng:      rng,
		now:      time.Now,
	}
}

// SetHitTester replaces the narrowphase.
func (r *Resolver) SetHitTester(t HitTester) {
	r.tester = t
}

// SetClock replaces the time source used to stamp outgoing events.
func (r *Resolver) SetClock(now func() time.Time) {
	r.now = now
}

// SetSelfID records the local peer id. Until it is set every inbound event is
// dropped.
func (r *Resolver) SetSelfID(id string) {
	r.selfID = id
}

func (r *Resolver) SelfID() string {
	return r.selfID
}

// Kills is the number of remote kills credited to the local player.
func (r *Resolver) Kills() int {
	return r.kills
}

// Resolve decodes and applies a damage payload from the damage topic. Dropped
// events return an error and change nothing. Duplicates are applied again.
func (r *Resolver) Resolve(payload []byte) (Outcome, error) {
	if r.selfID == "" {
		r.debugf("dropping damage event before join")
		return Outcome{}, ErrNotJoined
	}
	ev, err := DecodeDamage(payload)
	if err != nil {
		r.debugf("dropping damage event: %v", err)
		return Outcome{}, err
	}
	return r.Apply(ev), nil
}

// Apply clamps and routes an already decoded event. Callers must have set the
// self id.
func (r *Resolver) Apply(ev messages.DamageEvent) Outcome {
	ev.Amount = ClampDamage(ev.Amount)
	out := Outcome{Event: ev}

	if ev.TargetPeerID == r.selfID {
		out.Self = true
		out.Local = r.local.ApplyDamage(ev.Amount, ev.ShooterPeerID)
		out.Killed = out.Local == player.DamageKilled
		return out
	}

	out.Killed = r.registry.ApplyDamage(ev.TargetPeerID, ev.Amount)
	if out.Killed && ev.ShooterPeerID != "" && ev.ShooterPeerID == r.selfID {
		out.Credited = true
		r.kills++
	}
	return out
}

// FireShot hit-tests a shot from origin along dir against live peers. The
// nearest hit produces a damage event with a random amount; the caller
// publishes it. ok is false on a miss.
func (r *Resolver) FireShot(origin, dir gamemath.Vec3) (ev messages.DamageEvent, ok bool) {
	candidates := r.registry.Candidates(origin, dir, cfg.Combat.ShotRange)
	if len(candidates) == 0 {
		return messages.DamageEvent{}, false
	}
	hits := r.tester.Test(origin, dir, candidates)
	if len(hits) == 0 {
		return messages.DamageEvent{}, false
	}

	amount := cfg.Combat.ShotDamageBase + r.rng.IntN(cfg.Combat.ShotDamageSpread)
	return messages.DamageEvent{
		TargetPeerID:  hits[0].ID,
		ShooterPeerID: r.selfID,
		Amount:        float64(amount),
		At:            r.now().UnixMilli(),
	}, true
}

func (r *Resolver) debugf(format string, args ...any) {
	if cfg.Debug.Verbose {
		log.Printf("[combat] "+format, args...)
	}
}
