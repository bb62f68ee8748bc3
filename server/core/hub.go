package core

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/automoto/doomerang-arena/shared/messages"
	"github.com/google/uuid"
)

// Sender is a connected client the hub can write to.
type Sender interface {
	SendMessage(msg any) error
}

type roomKey struct {
	kind string
	id   string
}

func (k roomKey) String() string { return k.kind + "/" + k.id }

type member struct {
	id       string
	conn     Sender
	room     *room // nil when the member asked for a kind this relay does not host
	presence []byte
}

type room struct {
	key     roomKey
	members map[string]*member
	dirty   bool
}

type outbound struct {
	to  Sender
	msg any
}

// Hub tracks room membership, stores the last presence record of every member
// and fans out topic messages. All methods are safe for concurrent use.
type Hub struct {
	mu      sync.Mutex
	allowed map[string]bool
	rooms   map[roomKey]*room
	members map[Sender]*member
	newID   func() string
}

func NewHub(allowedKinds []string) *Hub {
	allowed := make(map[string]bool, len(allowedKinds))
	for _, k := range allowedKinds {
		allowed[k] = true
	}
	return &Hub{
		allowed: allowed,
		rooms:   make(map[roomKey]*room),
		members: make(map[Sender]*member),
		newID:   uuid.NewString,
	}
}

// Join makes conn a member of the requested room, leaving any previous room
// first. A kind this relay does not host is accepted but only ever receives a
// presence error, so clients can fall back to another kind.
func (h *Hub) Join(conn Sender, req messages.JoinRequest) {
	if req.RoomKind == "" || req.RoomID == "" {
		h.deliver([]outbound{{conn, messages.JoinRejected{Reason: "room kind and id are required"}}})
		return
	}

	h.mu.Lock()
	h.removeLocked(conn)

	m := &member{id: h.newID(), conn: conn}
	if json.Valid(req.Presence) {
		m.presence = req.Presence
	}
	h.members[conn] = m

	key := roomKey{kind: req.RoomKind, id: req.RoomID}
	out := []outbound{{conn, messages.JoinAccepted{PeerID: m.id, RoomKind: key.kind, RoomID: key.id}}}

	if h.allowed[key.kind] {
		r, ok := h.rooms[key]
		if !ok {
			r = &room{key: key, members: make(map[string]*member)}
			h.rooms[key] = r
			log.Printf("[relay] room %s opened", key)
		}
		r.members[m.id] = m
		r.dirty = true
		m.room = r
		log.Printf("[relay] peer %s joined %s (%d members)", m.id, key, len(r.members))
	} else {
		out = append(out, outbound{conn, messages.PresenceSnapshot{
			SelfID: m.id,
			Error:  fmt.Sprintf("room kind %q is not available", key.kind),
		}})
		log.Printf("[relay] peer %s asked for unavailable kind %q", m.id, key.kind)
	}
	h.mu.Unlock()

	h.deliver(out)
}

// UpdatePresence replaces the sender's presence record. Last write wins.
func (h *Hub) UpdatePresence(conn Sender, record []byte) {
	if !json.Valid(record) {
		log.Printf("[relay] dropped malformed presence record")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.members[conn]
	if !ok || m.room == nil {
		return
	}
	m.presence = record
	m.room.dirty = true
}

// Publish forwards a topic payload to every other member of the sender's room.
func (h *Hub) Publish(conn Sender, msg messages.TopicPublish) {
	h.mu.Lock()
	m, ok := h.members[conn]
	if !ok || m.room == nil {
		h.mu.Unlock()
		return
	}
	var out []outbound
	for _, other := range m.room.members {
		if other == m {
			continue
		}
		out = append(out, outbound{other.conn, messages.TopicMessage{
			Topic:    msg.Topic,
			SenderID: m.id,
			Payload:  msg.Payload,
		}})
	}
	h.mu.Unlock()

	if cfg.Debug.Verbose {
		log.Printf("[relay] %s from %s fanned out to %d peers", msg.Topic, m.id, len(out))
	}
	h.deliver(out)
}

// Leave drops conn from its room. Unknown connections are ignored.
func (h *Hub) Leave(conn Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(conn)
}

func (h *Hub) removeLocked(conn Sender) {
	m, ok := h.members[conn]
	if !ok {
		return
	}
	delete(h.members, conn)

	r := m.room
	if r == nil {
		return
	}
	delete(r.members, m.id)
	r.dirty = true
	log.Printf("[relay] peer %s left %s (%d members)", m.id, r.key, len(r.members))

	if len(r.members) == 0 {
		delete(h.rooms, r.key)
		log.Printf("[relay] room %s closed", r.key)
	}
}

// Flush sends a presence snapshot to every member of each room that changed
// since the last flush. Each member sees itself as Self and never in Peers.
func (h *Hub) Flush() {
	h.mu.Lock()
	var out []outbound
	for _, r := range h.rooms {
		if !r.dirty {
			continue
		}
		r.dirty = false
		for _, m := range r.members {
			peers := make(map[string][]byte, len(r.members)-1)
			for id, other := range r.members {
				if other == m || other.presence == nil {
					continue
				}
				peers[id] = other.presence
			}
			out = append(out, outbound{m.conn, messages.PresenceSnapshot{
				SelfID: m.id,
				Self:   m.presence,
				Peers:  peers,
			}})
		}
	}
	h.mu.Unlock()

	h.deliver(out)
}

func (h *Hub) deliver(out []outbound) {
	for _, o := range out {
		if err := o.to.SendMessage(o.msg); err != nil {
			log.Printf("[relay] send %T failed: %v", o.msg, err)
		}
	}
}

// MemberCount returns the number of connections holding a membership.
func (h *Hub) MemberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.members)
}

// Rooms returns the open rooms as "kind/id", sorted.
func (h *Hub) Rooms() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	keys := make([]string, 0, len(h.rooms))
	for k := range h.rooms {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}
