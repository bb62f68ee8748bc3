// Package peers tracks the remote players in the current room. State is built
// by diffing presence snapshots and kept in a donburi world, one entity per
// peer, with hit volumes in a resolv space for shot broadphase.
package peers

import (
	"encoding/json"
	"log"
	"math/rand/v2"
	"sort"

	"github.com/automoto/doomerang-arena/components"
	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/shared/gamemath"
	"github.com/automoto/doomerang-arena/shared/leveldata"
	"github.com/automoto/doomerang-arena/systems"
	"github.com/automoto/doomerang-arena/systems/factory"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// Registry owns every known remote peer, indexed by peer id. It is not safe
// for concurrent use; all calls come from the session tick.
type Registry struct {
	ecs      *ecs.ECS
	byID     map[string]donburi.Entity
	observer Observer
	rng      *rand.Rand
	selfID   string
}

// NewRegistry creates an empty registry for the given arena.
func NewRegistry(arena *leveldata.ArenaData, rng *rand.Rand) *Registry {
	world := donburi.NewWorld()
	e := ecs.NewECS(world)
	factory.CreateSingletons(e)
	factory.CreateSpace(e, arena.MaxPlayerX)
	e.AddSystem(systems.UpdateDeathAnimations)

	return &Registry{
		ecs:      e,
		byID:     make(map[string]donburi.Entity),
		observer: ObserverFuncs{},
		rng:      rng,
	}
}

// SetObserver installs the presentation observer. nil removes it.
func (r *Registry) SetObserver(o Observer) {
	if o == nil {
		o = ObserverFuncs{}
	}
	r.observer = o
}

// Reconcile applies a presence snapshot. Unknown ids are created, known ids are
// updated in place, and ids missing from the snapshot are destroyed. selfID is
// never tracked; if it was tracked before it became known it is destroyed.
// Applying the same snapshot twice leaves the registry unchanged and emits no
// further signals.
func (r *Registry) Reconcile(snapshot map[string]json.RawMessage, selfID string) {
	if selfID != "" {
		r.selfID = selfID
	}
	if r.selfID != "" {
		if _, ok := r.byID[r.selfID]; ok {
			r.Destroy(r.selfID)
		}
	}

	ids := make([]string, 0, len(snapshot))
	for id := range snapshot {
		if id == "" || id == r.selfID {
			continue
		}
		ids = append(ids, id)
	}
	// Sorted so random draws happen in a reproducible order.
	sort.Strings(ids)

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
		rec := DecodeRecord(snapshot[id])
		if rec == (Record{}) {
			log.Printf("[peers] record for %s has no usable fields", id)
		}
		if e, ok := r.entry(id); ok {
			r.update(e, rec)
		} else {
			r.create(id, rec)
		}
	}

	for id := range r.byID {
		if _, ok := seen[id]; !ok {
			r.Destroy(id)
		}
	}
}

func (r *Registry) create(id string, rec Record) {
	e := factory.CreatePeer(r.ecs, id)
	r.byID[id] = e.Entity()

	peer := components.Peer.Get(e)
	peer.Name = shortID(id)
	if rec.Name.OK && rec.Name.Value != "" {
		peer.Name = rec.Name.Value
	}
	if rec.Color.OK {
		peer.BaseColor = ParseColor(rec.Color.Value)
	} else {
		peer.BaseColor = RandomColor(r.rng)
	}

	components.Transform.SetValue(e, components.TransformData{
		X:     rec.X.Or(0),
		Y:     rec.Y.Or(0),
		Z:     rec.Z.Or(0),
		Yaw:   rec.Yaw.Or(0),
		Pitch: rec.Pitch.Or(0),
	})
	factory.PlaceHitVolume(r.ecs, e)

	if rec.IsAlive() {
		components.Health.Get(e).Current = clampHP(rec.HP.Or(cfg.Player.MaxHP))
	} else {
		// First seen already dead: show the finished pose, no cue.
		systems.MarkDead(e)
	}

	r.observer.PeerJoined(r.view(e))
}

func (r *Registry) update(e *donburi.Entry, rec Record) {
	peer := components.Peer.Get(e)
	if rec.Name.OK && rec.Name.Value != "" {
		peer.Name = rec.Name.Value
	}

	t := components.Transform.Get(e)
	t.X = rec.X.Or(t.X)
	t.Y = rec.Y.Or(t.Y)
	t.Z = rec.Z.Or(t.Z)
	t.Yaw = rec.Yaw.Or(t.Yaw)
	t.Pitch = rec.Pitch.Or(t.Pitch)
	factory.PlaceHitVolume(r.ecs, e)

	death := components.Death.Get(e)
	health := components.Health.Get(e)
	incomingAlive := rec.IsAlive()

	switch {
	case death.Alive() && !incomingAlive:
		r.startDying(e)
		r.observer.PeerDied(peer.ID)
	case !death.Alive() && incomingAlive:
		if death.Predicted {
			// Our own kill has not reached the owner yet; this record is stale.
			break
		}
		systems.Revive(e, clampHP(rec.HP.Or(cfg.Player.MaxHP)))
		r.observer.PeerRevived(peer.ID)
	case !death.Alive() && !incomingAlive:
		death.Predicted = false
	}

	if components.Death.Get(e).Alive() {
		health.Current = clampHP(rec.HP.Or(health.Current))
	} else {
		health.Current = 0
	}

	if rec.Color.OK {
		if c := ParseColor(rec.Color.Value); c != peer.BaseColor {
			peer.BaseColor = c
			r.observer.PeerRecolored(peer.ID, c)
		}
	}
}

// ApplyDamage is the registry's damage path. Unknown and dead peers are
// ignored. It reports whether this call killed the peer. A kill is predicted:
// stale alive snapshots are ignored until the owner confirms or the grace
// period runs out.
func (r *Registry) ApplyDamage(id string, amount float64) bool {
	e, ok := r.entry(id)
	if !ok {
		return false
	}
	death := components.Death.Get(e)
	if !death.Alive() {
		return false
	}

	health := components.Health.Get(e)
	health.Current = max(0, health.Current-amount)
	if health.Current > 0 {
		return false
	}

	r.startDying(e)
	death.Predicted = true
	death.PredictedAge = 0
	r.observer.PeerDied(id)
	return true
}

func (r *Registry) startDying(e *donburi.Entry) {
	systems.StartDying(e, (r.rng.Float64()-0.5)*cfg.Death.SpinRange)
	systems.QueueSound(r.ecs, cfg.SoundDeath)
}

// Update advances death animations and prediction timers.
func (r *Registry) Update(delta float64) {
	systems.UpdateClock(r.ecs, delta)
	r.ecs.Update()
}

// Destroy removes a peer and releases its hit volume. Unknown ids are ignored.
func (r *Registry) Destroy(id string) {
	e, ok := r.entry(id)
	delete(r.byID, id)
	if !ok {
		return
	}
	factory.DestroyPeer(r.ecs, e)
	r.observer.PeerLeft(id)
}

// Clear destroys every peer and forgets the self id. Used when leaving a room.
func (r *Registry) Clear() {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		r.Destroy(id)
	}
	r.selfID = ""
	systems.DrainSounds(r.ecs)
}

// Len returns the number of tracked peers.
func (r *Registry) Len() int {
	return len(r.byID)
}

// Has reports whether id is tracked.
func (r *Registry) Has(id string) bool {
	_, ok := r.entry(id)
	return ok
}

// Peer returns a snapshot of one peer.
func (r *Registry) Peer(id string) (PeerView, bool) {
	e, ok := r.entry(id)
	if !ok {
		return PeerView{}, false
	}
	return r.view(e), true
}

// Entity returns the donburi entity backing a peer. Exposed so callers can
// check that updates preserve identity.
func (r *Registry) Entity(id string) (donburi.Entity, bool) {
	ent, ok := r.byID[id]
	return ent, ok
}

// Peers returns every tracked peer sorted by id.
func (r *Registry) Peers() []PeerView {
	out := make([]PeerView, 0, len(r.byID))
	for _, ent := range r.byID {
		out = append(out, r.view(r.ecs.World.Entry(ent)))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Nearest returns up to n peers ordered by horizontal distance from (x, z).
// n <= 0 returns all of them.
func (r *Registry) Nearest(x, z float64, n int) []Nearby {
	origin := gamemath.Vec3{X: x, Z: z}
	peers := r.Peers()
	out := make([]Nearby, 0, len(peers))
	for _, p := range peers {
		out = append(out, Nearby{PeerView: p, Distance: gamemath.DistXZ(origin, p.Position())})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// DrainCues returns and clears death cues raised since the last call.
func (r *Registry) DrainCues() []cfg.SoundID {
	return systems.DrainSounds(r.ecs)
}

func (r *Registry) entry(id string) (*donburi.Entry, bool) {
	ent, ok := r.byID[id]
	if !ok || !r.ecs.World.Valid(ent) {
		return nil, false
	}
	return r.ecs.World.Entry(ent), true
}

func clampHP(hp float64) float64 {
	return gamemath.Clamp(hp, 0, cfg.Player.MaxHP)
}

func shortID(id string) string {
	if len(id) > 5 {
		return id[:5]
	}
	return id
}
