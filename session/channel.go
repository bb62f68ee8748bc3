package session

import (
	"context"
	"encoding/json"

	"github.com/automoto/doomerang-arena/identity"
)

// Snapshot is one presence delivery: the recipient's own record and every
// other member's record, keyed by peer id.
type Snapshot struct {
	SelfID string
	Self   json.RawMessage
	Peers  map[string]json.RawMessage
}

// Room is a joined room. Callbacks registered with the Subscribe methods run
// only from Poll, on the caller's goroutine.
type Room interface {
	SubscribePresence(fn func(Snapshot, error))
	PublishPresence(record []byte) error
	SubscribeTopic(topic string, fn func(payload []byte))
	PublishTopic(topic string, payload []byte) error
	// Poll delivers queued presence and topic callbacks.
	Poll()
	Leave() error
}

// Channel joins rooms.
type Channel interface {
	Join(ctx context.Context, kind, roomID string, initial []byte) (Room, error)
}

// Identity supplies the local player's profile.
type Identity interface {
	Current() (identity.Profile, bool)
	SignInAsGuest(ctx context.Context) (identity.Profile, error)
	Subscribe(fn func(identity.Profile)) (cancel func())
}
