// Package combat turns shots into damage events and applies inbound damage
// events to the local player or the remote peer registry.
package combat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/shared/gamemath"
	"github.com/automoto/doomerang-arena/shared/messages"
	"github.com/automoto/doomerang-arena/shared/netconfig"
)

var (
	ErrMissingTarget = errors.New("damage event has no target")
	ErrInvalidAmount = errors.New("damage event amount is not a number")
	ErrNotJoined     = errors.New("local peer id not established")
)

// DecodeDamage validates a raw damage payload. targetPeerId must be a
// non-empty string and amount must be a number; shooterPeerId and at are
// optional and dropped when they have the wrong type.
func DecodeDamage(payload []byte) (messages.DamageEvent, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return messages.DamageEvent{}, fmt.Errorf("decode damage event: %w", err)
	}

	var ev messages.DamageEvent
	if err := json.Unmarshal(fields[netconfig.FieldTargetPeerID], &ev.TargetPeerID); err != nil || ev.TargetPeerID == "" {
		return messages.DamageEvent{}, ErrMissingTarget
	}

	amount, err := decodeAmount(fields[netconfig.FieldAmount])
	if err != nil {
		return messages.DamageEvent{}, err
	}
	ev.Amount = amount

	if raw, ok := fields[netconfig.FieldShooterPeerID]; ok {
		var shooter string
		if json.Unmarshal(raw, &shooter) == nil {
			ev.ShooterPeerID = shooter
		}
	}
	if raw, ok := fields[netconfig.FieldAt]; ok {
		var at float64
		if json.Unmarshal(raw, &at) == nil {
			ev.At = int64(at)
		}
	}
	return ev, nil
}

// decodeAmount accepts any JSON number. Literals beyond float64 range come back
// as +/-Inf so the clamp still sees their sign.
func decodeAmount(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || raw[0] == '"' {
		return 0, ErrInvalidAmount
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil || n == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// ClampDamage bounds an inbound amount regardless of what the sender claimed.
func ClampDamage(amount float64) float64 {
	return gamemath.Clamp(amount, cfg.Combat.MinDamage, cfg.Combat.MaxDamage)
}
