package persistence

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jonathan/portfolio-keeper/internal/kv"
	"github.com/jonathan/portfolio-keeper/internal/types"
)

// scriptedStore is an in-memory store whose writes and reads can be made to fail.
type scriptedStore struct {
	*kv.Memory

	mu       sync.Mutex
	setHook  func(key, value string) error
	getHook  func(key string) error
	setCalls []setCall
	removes  []string
}

type setCall struct {
	Key   string
	Value string
}

func newScriptedStore() *scriptedStore {
	return &scriptedStore{Memory: kv.NewMemory()}
}

func (s *scriptedStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.setCalls = append(s.setCalls, setCall{Key: key, Value: value})
	hook := s.setHook
	s.mu.Unlock()

	if hook != nil {
		if err := hook(key, value); err != nil {
			return err
		}
	}
	return s.Memory.Set(ctx, key, value)
}

func (s *scriptedStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	hook := s.getHook
	s.mu.Unlock()

	if hook != nil {
		if err := hook(key); err != nil {
			return "", err
		}
	}
	return s.Memory.Get(ctx, key)
}

func (s *scriptedStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	s.removes = append(s.removes, key)
	s.mu.Unlock()
	return s.Memory.Remove(ctx, key)
}

// backupAttempts returns the length of every list written to the backup key, in order.
func (s *scriptedStore) backupAttempts() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sizes []int
	for _, c := range s.setCalls {
		if c.Key != DefaultBackupKey {
			continue
		}
		var list []string
		_ = json.Unmarshal([]byte(c.Value), &list)
		sizes = append(sizes, len(list))
	}
	return sizes
}

func (s *scriptedStore) writesTo(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.setCalls {
		if c.Key == key {
			n++
		}
	}
	return n
}

func record(name string) types.PortfolioRecord {
	return types.Normalize(types.PortfolioRecord{
		Name:  name,
		Email: "jane@example.com",
		Bio:   "Web Developer",
	})
}

func backupNames(ctx context.Context, g *Gateway) []string {
	var names []string
	for _, r := range g.Backups(ctx) {
		names = append(names, r.Name)
	}
	return names
}
