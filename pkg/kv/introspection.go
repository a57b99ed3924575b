package kv

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Backend    string     `json:"backend"`
	Path       string     `json:"path"`
	Keys       int        `json:"keys"`
	Watching   bool       `json:"watching"`
	LastReload *time.Time `json:"last_reload,omitempty"`
}

// State implements introspection.Introspectable.
func (s *FileStore) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Backend:    "json",
		Path:       s.path,
		Keys:       len(s.data),
		Watching:   s.watching,
		LastReload: s.lastReload,
	}
}

// ComponentType implements introspection.Component.
func (s *FileStore) ComponentType() string {
	return "store"
}

// State implements introspection.Introspectable.
func (s *SQLiteStore) State() any {
	return StoreState{
		Backend: "sqlite",
		Path:    s.path,
		Keys:    s.count(),
	}
}

// ComponentType implements introspection.Component.
func (s *SQLiteStore) ComponentType() string {
	return "store"
}

// State implements introspection.Introspectable.
func (s *MemoryStore) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{Backend: "memory", Keys: len(s.data)}
}

// ComponentType implements introspection.Component.
func (s *MemoryStore) ComponentType() string {
	return "store"
}

var (
	_ introspection.Introspectable = (*FileStore)(nil)
	_ introspection.Component      = (*FileStore)(nil)
	_ introspection.Introspectable = (*SQLiteStore)(nil)
	_ introspection.Component      = (*SQLiteStore)(nil)
	_ introspection.Introspectable = (*MemoryStore)(nil)
	_ introspection.Component      = (*MemoryStore)(nil)
)
