// Package identity provides the local player's guest identity, persisted
// between runs.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"

	cfg "github.com/automoto/doomerang-arena/config"
	"github.com/google/uuid"
)

const profileKey = "profile"

// Profile is the persisted guest identity.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// GuestStore hands out and remembers a guest profile. It is not safe for
// concurrent use.
type GuestStore struct {
	storage Storage
	rng     *rand.Rand
	profile *Profile
	loaded  bool

	subs   map[int]func(Profile)
	nextID int
}

func NewGuestStore(storage Storage, rng *rand.Rand) *GuestStore {
	return &GuestStore{
		storage: storage,
		rng:     rng,
		subs:    make(map[int]func(Profile)),
	}
}

// Current returns the signed-in profile, loading it from storage on first use.
func (g *GuestStore) Current() (Profile, bool) {
	if !g.loaded {
		g.loaded = true
		g.profile = g.load()
	}
	if g.profile == nil {
		return Profile{}, false
	}
	return *g.profile, true
}

// SignInAsGuest returns the existing profile or creates and persists a new one.
func (g *GuestStore) SignInAsGuest(ctx context.Context) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}
	if p, ok := g.Current(); ok {
		return p, nil
	}

	p := Profile{
		ID:    uuid.NewString(),
		Name:  fmt.Sprintf("%s-%04d", cfg.Client.GuestNameBase, g.rng.IntN(10000)),
		Color: fmt.Sprintf("#%06x", cfg.Player.RandomColorMin+g.rng.Uint32N(cfg.Player.RandomColorMax-cfg.Player.RandomColorMin+1)),
	}
	if err := g.save(p); err != nil {
		return Profile{}, err
	}
	g.profile = &p
	log.Printf("[identity] signed in as guest %s (%s)", p.Name, p.ID)
	g.notify(p)
	return p, nil
}

// Rename changes the display name of the current profile.
func (g *GuestStore) Rename(name string) error {
	name = strings.TrimSpace(name)
	p, ok := g.Current()
	if !ok || name == "" || name == p.Name {
		return nil
	}
	p.Name = name
	if err := g.save(p); err != nil {
		return err
	}
	g.profile = &p
	g.notify(p)
	return nil
}

// Subscribe registers fn for profile changes. The returned func unsubscribes.
func (g *GuestStore) Subscribe(fn func(Profile)) (cancel func()) {
	id := g.nextID
	g.nextID++
	g.subs[id] = fn
	return func() { delete(g.subs, id) }
}

func (g *GuestStore) notify(p Profile) {
	for _, fn := range g.subs {
		fn(p)
	}
}

func (g *GuestStore) load() *Profile {
	data, err := g.storage.LoadItem(profileKey)
	if err != nil {
		log.Printf("[identity] could not load profile: %v", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil || p.ID == "" {
		log.Printf("[identity] ignoring corrupt profile")
		return nil
	}
	return &p
}

func (g *GuestStore) save(p Profile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := g.storage.SaveItem(profileKey, data); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
