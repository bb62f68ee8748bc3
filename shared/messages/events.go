package messages

import (
	"encoding/json"
	"fmt"
)

// DamageEvent is broadcast on the damage topic by the peer that believes it
// landed a hit. ShooterPeerID is empty for environmental damage. At is advisory
// (unix ms) and never used for ordering.
type DamageEvent struct {
	TargetPeerID  string  `json:"targetPeerId"`
	ShooterPeerID string  `json:"shooterPeerId,omitempty"`
	Amount        float64 `json:"amount"`
	At            int64   `json:"at,omitempty"`
}

// Encode returns the JSON form published on the topic.
func (d DamageEvent) Encode() ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode damage event: %w", err)
	}
	return b, nil
}

// TopicPublish is sent by a client to broadcast a payload to the rest of its room.
type TopicPublish struct {
	Topic   string
	Payload []byte
}

// TopicMessage is delivered by the relay to every other member of the room.
type TopicMessage struct {
	Topic    string
	SenderID string
	Payload  []byte
}
