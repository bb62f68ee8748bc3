package network

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/automoto/doomerang-arena/session"
	"github.com/automoto/doomerang-arena/shared/messages"
)

var ErrLeft = errors.New("room already left")

// source is the part of Client a Room reads from and writes to.
type source interface {
	SendMessage(msg any) error
	latestSnapshot() *messages.PresenceSnapshot
	drainTopics() []messages.TopicMessage
	drainDisconnects() []error
	leave() error
}

// Room is one membership of the relay. Callbacks run only from Poll.
type Room struct {
	src      source
	kind     string
	id       string
	peerID   string
	left     bool
	presence []func(session.Snapshot, error)
	topics   map[string][]func([]byte)
}

var _ session.Room = (*Room)(nil)

func newRoom(src source, accepted messages.JoinAccepted) *Room {
	return &Room{
		src:    src,
		kind:   accepted.RoomKind,
		id:     accepted.RoomID,
		peerID: accepted.PeerID,
		topics: make(map[string][]func([]byte)),
	}
}

func (r *Room) Kind() string   { return r.kind }
func (r *Room) ID() string     { return r.id }
func (r *Room) PeerID() string { return r.peerID }

func (r *Room) SubscribePresence(fn func(session.Snapshot, error)) {
	r.presence = append(r.presence, fn)
}

func (r *Room) SubscribeTopic(topic string, fn func(payload []byte)) {
	r.topics[topic] = append(r.topics[topic], fn)
}

func (r *Room) PublishPresence(record []byte) error {
	if r.left {
		return ErrLeft
	}
	if err := r.src.SendMessage(messages.PresenceUpdate{Presence: record}); err != nil {
		return fmt.Errorf("publish presence: %w", err)
	}
	return nil
}

func (r *Room) PublishTopic(topic string, payload []byte) error {
	if r.left {
		return ErrLeft
	}
	if err := r.src.SendMessage(messages.TopicPublish{Topic: topic, Payload: payload}); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Poll delivers the latest presence snapshot, queued topic messages and any
// disconnect, in that order.
func (r *Room) Poll() {
	if r.left {
		return
	}

	if snap := r.src.latestSnapshot(); snap != nil {
		if snap.Error != "" {
			r.firePresence(session.Snapshot{}, errors.New(snap.Error))
		} else {
			r.firePresence(session.Snapshot{
				SelfID: snap.SelfID,
				Self:   json.RawMessage(snap.Self),
				Peers:  snap.RawPeers(),
			}, nil)
		}
	}

	for _, msg := range r.src.drainTopics() {
		if r.left {
			return
		}
		for _, fn := range r.topics[msg.Topic] {
			fn(msg.Payload)
		}
	}

	for _, err := range r.src.drainDisconnects() {
		if r.left {
			return
		}
		r.firePresence(session.Snapshot{}, err)
	}
}

func (r *Room) firePresence(snap session.Snapshot, err error) {
	for _, fn := range r.presence {
		if r.left {
			return
		}
		fn(snap, err)
	}
}

func (r *Room) Leave() error {
	if r.left {
		return nil
	}
	r.left = true
	return r.src.leave()
}
