// Package netconfig defines lightweight constants shared between the arena
// client and the relay. It must stay free of rendering and ECS dependencies so
// the relay binary stays headless.
package netconfig

// Room kinds understood by the relay. The client joins RoomKindArena first and
// falls back to RoomKindShared once if presence fails there.
const (
	RoomKindArena  = "arena"
	RoomKindShared = "todos"

	DefaultRoomID = "global-arena"
)

// TopicDamage is the only broadcast topic: hit reports from attackers.
const TopicDamage = "damage"

// Presence field names as they appear in the JSON presence record.
const (
	FieldX     = "x"
	FieldY     = "y"
	FieldZ     = "z"
	FieldYaw   = "yaw"
	FieldPitch = "pitch"
	FieldHP    = "hp"
	FieldAlive = "alive"
	FieldColor = "color"
	FieldName  = "name"
)

// Damage event field names.
const (
	FieldTargetPeerID  = "targetPeerId"
	FieldShooterPeerID = "shooterPeerId"
	FieldAmount        = "amount"
	FieldAt            = "at"
)

// MaxHP is the full health every player spawns with.
const MaxHP = 100.0
