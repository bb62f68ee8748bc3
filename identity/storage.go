package identity

import (
	"fmt"

	"github.com/quasilyte/gdata"
)

// Storage is a small key/value store. *gdata.Manager satisfies it.
type Storage interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// OpenStorage opens the per-user data directory for appName.
func OpenStorage(appName string) (Storage, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open gdata for %s: %w", appName, err)
	}
	return m, nil
}

// MemStorage is an in-process Storage for tests and the headless bot.
type MemStorage struct {
	items map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{items: make(map[string][]byte)}
}

func (m *MemStorage) LoadItem(key string) ([]byte, error) {
	return m.items[key], nil
}

func (m *MemStorage) SaveItem(key string, data []byte) error {
	m.items[key] = append([]byte(nil), data...)
	return nil
}
