package config

import (
	"math"
	"time"

	"github.com/automoto/doomerang-arena/shared/netconfig"
)

// ArenaConfig contains the default arena geometry. The embedded TMX map
// overrides these when it loads.
type ArenaConfig struct {
	MaxPlayerX       float64 // players are clamped to ±MaxPlayerX on x and z
	SpawnMargin      float64
	ExclusionRadius  float64 // no spawns this close to the centre
	EyeHeight        float64
	SpawnMaxAttempts int // rejection sampling cap before falling back to a corner
}

// PlayerConfig contains all local player configuration values
type PlayerConfig struct {
	MaxHP        float64
	MoveSpeed    float64 // units per second
	PitchLimit   float64 // radians, symmetric
	RespawnDelay float64 // seconds

	// Colors
	FallbackColor  uint32 // used when a color string does not parse
	RandomColorMin uint32
	RandomColorMax uint32
}

// CombatConfig contains hitscan and damage values
type CombatConfig struct {
	MinDamage        float64
	MaxDamage        float64
	ShotDamageBase   int
	ShotDamageSpread int // damage is ShotDamageBase + rand(ShotDamageSpread)
	ShotRange        float64
	ShotCooldown     time.Duration

	// Hit volume around a remote peer, centred on x/z and resting on the floor.
	HitWidth  float64
	HitHeight float64
	HitDepth  float64
}

// PresenceConfig controls how often local presence is published
type PresenceConfig struct {
	Interval time.Duration
}

// RoomConfig names the rooms a client joins
type RoomConfig struct {
	PrimaryKind   string
	FallbackKind  string
	ID            string
	AllowFallback bool
}

// DeathConfig controls the remote death animation
type DeathConfig struct {
	AnimDuration float64 // seconds
	SpinRange    float64 // spin is (rand - 0.5) * SpinRange
	// ConfirmGrace is how long a locally predicted death ignores stale
	// alive=true snapshots before the owner's record is trusted again.
	ConfirmGrace float64
}

// RelayConfig contains relay server defaults
type RelayConfig struct {
	Port         uint
	TickRate     int // snapshot flushes per second
	AllowedKinds []string
}

// ClientConfig contains channel client defaults
type ClientConfig struct {
	ServerAddr    string
	JoinTimeout   time.Duration
	TopicBuffer   int
	TickRate      int // client frames per second
	GuestNameBase string
}

// DebugConfig contains debug command-line options
type DebugConfig struct {
	Verbose bool // log dropped events and other per-message detail
}

var Arena ArenaConfig
var Player PlayerConfig
var Combat CombatConfig
var Presence PresenceConfig
var Room RoomConfig
var Death DeathConfig
var Relay RelayConfig
var Client ClientConfig
var Debug DebugConfig

func init() {
	Arena = ArenaConfig{
		MaxPlayerX:       52,
		SpawnMargin:      4,
		ExclusionRadius:  6,
		EyeHeight:        1.6,
		SpawnMaxAttempts: 64,
	}

	Player = PlayerConfig{
		MaxHP:        netconfig.MaxHP,
		MoveSpeed:    10,
		PitchLimit:   math.Pi/2 - 0.12,
		RespawnDelay: 2.2,

		FallbackColor:  0xdb3f3f,
		RandomColorMin: 0x444444,
		RandomColorMax: 0xffffff,
	}

	Combat = CombatConfig{
		MinDamage:        1,
		MaxDamage:        75,
		ShotDamageBase:   34,
		ShotDamageSpread: 12,
		ShotRange:        200,
		ShotCooldown:     110 * time.Millisecond,

		HitWidth:  1.5,
		HitHeight: 2.05,
		HitDepth:  0.6,
	}

	Presence = PresenceConfig{
		Interval: 60 * time.Millisecond,
	}

	Room = RoomConfig{
		PrimaryKind:   netconfig.RoomKindArena,
		FallbackKind:  netconfig.RoomKindShared,
		ID:            netconfig.DefaultRoomID,
		AllowFallback: true,
	}

	Death = DeathConfig{
		AnimDuration: 0.55,
		SpinRange:    1.5,
		ConfirmGrace: 1.5,
	}

	Relay = RelayConfig{
		Port:         7373,
		TickRate:     20,
		AllowedKinds: []string{netconfig.RoomKindArena, netconfig.RoomKindShared},
	}

	Client = ClientConfig{
		ServerAddr:    "localhost:7373",
		JoinTimeout:   5 * time.Second,
		TopicBuffer:   64,
		TickRate:      30,
		GuestNameBase: "Agent",
	}

	Debug = DebugConfig{
		Verbose: false,
	}
}
