// Package session runs one logical room connection: it publishes local
// presence, feeds presence snapshots to the peer registry, routes damage
// events through the combat resolver and applies the fallback-room policy.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"time"

	"github.com/automoto/doomerang-arena/combat"
	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/identity"
	"github.com/automoto/doomerang-arena/peers"
	"github.com/automoto/doomerang-arena/player"
	"github.com/automoto/doomerang-arena/shared/leveldata"
	"github.com/automoto/doomerang-arena/shared/netconfig"
	"github.com/automoto/doomerang-arena/spawn"
)

var ErrNotJoined = errors.New("not in a room")

// Session is single-threaded: every method, and every callback delivered by
// Room.Poll, runs on the caller's goroutine.
type Session struct {
	channel  Channel
	identity Identity

	local    *player.Local
	registry *peers.Registry
	resolver *combat.Resolver
	now      func() time.Time

	primaryKind  string
	fallbackKind string
	kind         string
	roomID       string
	fallbackUsed bool
	reconnect    bool
	failed       bool // persistent failure; no further retries

	room       Room
	profile    identity.Profile
	color      string
	controlled bool

	lastPublish time.Time
	lastShot    time.Time
	status      string
	cues        []cfg.SoundID

	cancelIdentity func()
}

// New builds a session for the given arena. Room kinds and id come from
// config.Room.
func New(channel Channel, ident Identity, arena *leveldata.ArenaData, rng *rand.Rand) *Session {
	s := &Session{
		channel:      channel,
		identity:     ident,
		now:          time.Now,
		primaryKind:  cfg.Room.PrimaryKind,
		fallbackKind: cfg.Room.FallbackKind,
		kind:         cfg.Room.PrimaryKind,
		roomID:       cfg.Room.ID,
	}

	s.registry = peers.NewRegistry(arena, rng)
	s.local = player.NewLocal(spawn.NewAllocator(arena, rng), arena.MaxPlayerX, player.Hooks{
		RequestPublish: func() { s.publish(true) },
		PlayCue:        s.queueCue,
	})
	s.resolver = combat.NewResolver(s.local, s.registry, rng)

	s.cancelIdentity = ident.Subscribe(s.onIdentity)
	if p, ok := ident.Current(); ok {
		s.adoptProfile(p)
	}
	return s
}

// SetClock replaces the wall clock used for throttling and event stamps.
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
	s.resolver.SetClock(now)
}

func (s *Session) Local() *player.Local       { return s.local }
func (s *Session) Registry() *peers.Registry  { return s.registry }
func (s *Session) Resolver() *combat.Resolver { return s.resolver }
func (s *Session) Kind() string               { return s.kind }
func (s *Session) Joined() bool               { return s.room != nil }
func (s *Session) Failed() bool               { return s.failed }
func (s *Session) Status() string             { return s.status }
func (s *Session) Controlled() bool           { return s.controlled }

// Connect signs in if needed, joins the current room kind and subscribes to
// presence and damage. A join failure is handled like any channel failure.
func (s *Session) Connect(ctx context.Context) error {
	if s.room != nil || s.failed {
		return nil
	}
	s.reconnect = false

	p, ok := s.identity.Current()
	if !ok {
		var err error
		if p, err = s.identity.SignInAsGuest(ctx); err != nil {
			s.setStatus("Sign-in failed: " + err.Error())
			return fmt.Errorf("sign in: %w", err)
		}
	}
	s.adoptProfile(p)

	s.local.Spawn()
	initial, err := s.local.Record(s.color, s.profile.Name).Encode()
	if err != nil {
		return err
	}

	room, err := s.channel.Join(ctx, s.kind, s.roomID, initial)
	if err != nil {
		err = fmt.Errorf("join %s/%s: %w", s.kind, s.roomID, err)
		s.channelFailure(err)
		return err
	}

	s.room = room
	s.reconnect = false
	room.SubscribePresence(s.onPresence)
	room.SubscribeTopic(netconfig.TopicDamage, s.onDamage)
	log.Printf("[session] joined %s/%s as %s", s.kind, s.roomID, s.profile.Name)
	s.setStatus(fmt.Sprintf("Connected to room %s.", s.kind))
	s.publish(true)
	return nil
}

// Tick runs one frame: deliver queued callbacks, retry a pending fallback
// join, advance the respawn timer and death animations, then publish if the
// throttle allows.
func (s *Session) Tick(ctx context.Context, delta float64) {
	if s.room != nil {
		s.room.Poll()
	}
	if s.reconnect && s.room == nil && !s.failed {
		if err := s.Connect(ctx); err != nil {
			log.Printf("[session] reconnect failed: %v", err)
		}
	}

	if out := s.local.Tick(delta); out.Kind == player.RespawnRespawned {
		s.setStatus("You respawned.")
	}
	s.registry.Update(delta)
	s.publish(false)
}

// SetControlled toggles whether the player is actively steering. Throttled
// publishes and shooting only happen while controlled.
func (s *Session) SetControlled(on bool) {
	if s.controlled == on {
		return
	}
	s.controlled = on
	if on {
		s.setStatus("Space to shoot. WASD to move.")
	} else {
		s.setStatus("Paused. Press Tab to take control.")
	}
}

// Move and Look steer the local player.
func (s *Session) Move(forward, strafe, delta float64) {
	if !s.controlled {
		return
	}
	s.local.Move(forward, strafe, delta)
}

func (s *Session) Look(dYaw, dPitch float64) {
	if !s.controlled {
		return
	}
	s.local.Look(dYaw, dPitch)
}

// Shoot fires if joined, controlled, alive and off cooldown. A hit publishes a
// damage event; presence is always force-published afterwards. It reports
// whether a shot was fired.
func (s *Session) Shoot() bool {
	if s.room == nil || !s.controlled || !s.local.Alive() {
		return false
	}
	now := s.now()
	if !s.lastShot.IsZero() && now.Sub(s.lastShot) < cfg.Combat.ShotCooldown {
		return false
	}
	s.lastShot = now
	s.queueCue(cfg.SoundShot)

	origin, dir := s.local.Aim()
	if ev, ok := s.resolver.FireShot(origin, dir); ok {
		payload, err := ev.Encode()
		if err == nil {
			err = s.room.PublishTopic(netconfig.TopicDamage, payload)
		}
		if err != nil {
			log.Printf("[session] publish damage: %v", err)
		} else {
			// The relay never echoes topics to the sender, so the shooter
			// applies its own hit to the target and credits the kill here.
			s.report(s.resolver.Apply(ev))
		}
	}
	s.publish(true)
	return true
}

// Leave tears the room down synchronously.
func (s *Session) Leave() {
	s.teardown()
	if s.cancelIdentity != nil {
		s.cancelIdentity()
		s.cancelIdentity = nil
	}
}

// DrainCues returns sound cues raised since the last call.
func (s *Session) DrainCues() []cfg.SoundID {
	out := append(s.cues, s.registry.DrainCues()...)
	s.cues = nil
	return out
}

// View is what the presentation layer draws each frame.
type View struct {
	Status     string
	HP         int
	Alive      bool
	RespawnIn  float64
	Kills      int
	Players    int
	Controlled bool
	Self       player.Pose
	Name       string
	Color      string
	Peers      []peers.PeerView
	Closest    []peers.Nearby
}

func (s *Session) View() View {
	pose := s.local.Pose()
	return View{
		Status:     s.status,
		HP:         int(math.Ceil(math.Max(0, s.local.HP()))),
		Alive:      s.local.Alive(),
		RespawnIn:  s.local.RespawnTimer(),
		Kills:      s.resolver.Kills(),
		Players:    1 + s.registry.Len(),
		Controlled: s.controlled,
		Self:       pose,
		Name:       s.profile.Name,
		Color:      s.color,
		Peers:      s.registry.Peers(),
		Closest:    s.registry.Nearest(pose.X, pose.Z, 3),
	}
}

func (s *Session) onPresence(snap Snapshot, err error) {
	if err != nil {
		s.channelFailure(err)
		return
	}

	if snap.SelfID != "" && snap.SelfID != s.resolver.SelfID() {
		s.resolver.SetSelfID(snap.SelfID)
		s.setStatus(fmt.Sprintf("Connected to %s. WASD to move, Q/E to turn.", s.kind))
	}
	if len(snap.Self) > 0 {
		if rec := peers.DecodeRecord(snap.Self); rec.Color.OK {
			s.color = rec.Color.Value
		}
	}
	s.registry.Reconcile(snap.Peers, snap.SelfID)
}

func (s *Session) onDamage(payload []byte) {
	out, err := s.resolver.Resolve(payload)
	if err != nil {
		return
	}
	s.report(out)
}

// report turns a damage outcome into a status message.
func (s *Session) report(out combat.Outcome) {
	shooter := out.Event.ShooterPeerID
	switch {
	case out.Self && out.Local == player.DamageKilled && shooter != "" && shooter != s.resolver.SelfID():
		s.setStatus("You were eliminated. Respawning...")
	case out.Credited:
		if v, ok := s.registry.Peer(out.Event.TargetPeerID); ok {
			s.setStatus("You eliminated " + v.Name + ".")
		}
	}
}

func (s *Session) onIdentity(p identity.Profile) {
	s.adoptProfile(p)
	if s.room == nil && !s.failed {
		s.reconnect = true
	}
}

// channelFailure applies the fallback policy: the first failure on the primary
// kind switches to the fallback kind and reconnects on the next tick; any other
// failure is final.
func (s *Session) channelFailure(err error) {
	log.Printf("[session] channel failure on %s: %v", s.kind, err)
	if cfg.Room.AllowFallback && !s.fallbackUsed && s.kind == s.primaryKind {
		s.fallbackUsed = true
		s.teardown()
		s.kind = s.fallbackKind
		s.reconnect = true
		s.setStatus("Fallback: using global room.")
		return
	}
	s.setStatus("Presence error: " + err.Error())
	s.failed = true
}

func (s *Session) teardown() {
	if s.room != nil {
		if err := s.room.Leave(); err != nil {
			log.Printf("[session] leave %s: %v", s.kind, err)
		}
		s.room = nil
	}
	s.registry.Clear()
	s.resolver.SetSelfID("")
}

// publish sends local presence. Forced publishes and publishes while
// respawning always go out; otherwise only while controlled and past the
// throttle interval.
func (s *Session) publish(force bool) {
	if s.room == nil {
		return
	}
	now := s.now()
	if !force && !s.local.IsRespawning() {
		if !s.controlled {
			return
		}
		if now.Sub(s.lastPublish) < cfg.Presence.Interval {
			return
		}
	}
	s.lastPublish = now

	payload, err := s.local.Record(s.color, s.profile.Name).Encode()
	if err != nil {
		log.Printf("[session] encode presence: %v", err)
		return
	}
	if err := s.room.PublishPresence(payload); err != nil {
		log.Printf("[session] publish presence: %v", err)
	}
}

func (s *Session) adoptProfile(p identity.Profile) {
	s.profile = p
	if s.color == "" || p.Color != "" {
		s.color = p.Color
	}
}

func (s *Session) setStatus(msg string) {
	if s.failed {
		return
	}
	s.status = msg
}

func (s *Session) queueCue(id cfg.SoundID) {
	s.cues = append(s.cues, id)
}
