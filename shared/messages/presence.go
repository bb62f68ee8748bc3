package messages

import (
	"encoding/json"
	"fmt"
)

// PresenceRecord is the state a peer publishes about itself. Only the owner
// writes it; everyone else treats it as read-only.
type PresenceRecord struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	HP    float64 `json:"hp"`
	Alive bool    `json:"alive"`
	Color string  `json:"color"`
	Name  string  `json:"name"`
}

// Encode returns the JSON form sent on the wire.
func (p PresenceRecord) Encode() ([]byte, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode presence: %w", err)
	}
	return b, nil
}

// PresenceUpdate carries a fresh JSON presence record from a client to the relay.
type PresenceUpdate struct {
	Presence []byte
}

// PresenceSnapshot is the full presence view of a room as seen by one member.
// Peers never contains the recipient. Records are raw JSON so receivers can
// validate each field independently. A non-empty Error means the presence
// subscription failed and no records are included.
type PresenceSnapshot struct {
	SelfID string
	Self   []byte
	Peers  map[string][]byte
	Error  string
}

// RawPeers returns the peer records as json.RawMessage values.
func (s PresenceSnapshot) RawPeers() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(s.Peers))
	for id, rec := range s.Peers {
		out[id] = json.RawMessage(rec)
	}
	return out
}
