package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/jotter/pkg/core"
)

// DefaultFileName is the store file created inside a data directory.
const DefaultFileName = "store.json"

// FileConfig holds the configuration for a FileStore.
type FileConfig struct {
	Path        string // Path to the JSON store file.
	MustExist   bool   // Fail instead of creating a missing file or directory.
	Logger      *slog.Logger
	EventBuffer int // Size of the Watch channel buffer. Zero means 16.
}

// FileStore persists every key into one JSON document on disk.
//
// The whole document is loaded at open and rewritten on every mutation
// (temp file + fsync + rename), so a crash leaves either the old or the new
// version of the file, never a torn one. Concurrent goroutines are
// serialized; concurrent processes are not and may lose updates.
type FileStore struct {
	path   string
	logger *slog.Logger
	buffer int

	mu         sync.RWMutex
	data       map[string]json.RawMessage
	watching   bool
	lastReload *time.Time
}

var _ Store = (*FileStore)(nil)

// OpenFile loads the store at cfg.Path, creating its directory when allowed.
func OpenFile(cfg FileConfig) (*FileStore, error) {
	if cfg.Path == "" {
		return nil, core.ErrValidation.WithCause(errors.New("store path is empty"))
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	buffer := cfg.EventBuffer
	if buffer <= 0 {
		buffer = 16
	}

	dir := filepath.Dir(cfg.Path)
	if cfg.MustExist {
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, storageErr("open store", err)
		}
	} else if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, storageErr("create store directory", err)
	}

	s := &FileStore{
		path:   cfg.Path,
		logger: logger,
		buffer: buffer,
		data:   make(map[string]json.RawMessage),
	}

	data, err := s.readDisk()
	if err != nil {
		return nil, err
	}
	s.data = data

	logger.Debug("store opened", "path", cfg.Path, "keys", len(data))
	return s, nil
}

// Path returns the location of the store file.
func (s *FileStore) Path() string {
	return s.path
}

// readDisk parses the store file. A missing or empty file is an empty store;
// a corrupt file is an error, never silently reset.
func (s *FileStore) readDisk() (map[string]json.RawMessage, error) {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, storageErr("read store", err)
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return make(map[string]json.RawMessage), nil
	}

	data := make(map[string]json.RawMessage)
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, storageErr("parse store "+s.path, err)
	}
	// The file is indented; keep the in-memory copy compact so it compares
	// byte for byte with freshly encoded values.
	for k, v := range data {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return nil, storageErr("parse store "+s.path, err)
		}
		data[k] = buf.Bytes()
	}
	return data, nil
}

func (s *FileStore) writeDisk(data map[string]json.RawMessage) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	// The file holds password hashes.
	if err := writeFileAtomic(s.path, content, 0o600); err != nil {
		s.logger.Error("store write failed", "path", s.path, "error", err)
		return storageErr("write store", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, key string, dst any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := decode(key, raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (s *FileStore) Set(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := encode(key, value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := maps.Clone(s.data)
	next[key] = raw
	if err := s.writeDisk(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[key]; !ok {
		return nil
	}
	next := maps.Clone(s.data)
	delete(next, key)
	if err := s.writeDisk(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

// Close is a no-op: every write is already on disk.
func (s *FileStore) Close() error {
	return nil
}

// reload re-reads the file and returns one event per top-level key whose
// value differs from the in-memory copy. The file is read under the write
// lock so the snapshot can never predate a committed Set or Delete.
func (s *FileStore) reload() ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.readDisk()
	if err != nil {
		return nil, err
	}

	var events []Event
	for k, v := range data {
		if old, ok := s.data[k]; !ok || !bytes.Equal(old, v) {
			events = append(events, newEvent(EventSet, k))
		}
	}
	for k := range s.data {
		if _, ok := data[k]; !ok {
			events = append(events, newEvent(EventDelete, k))
		}
	}
	s.data = data
	now := time.Now()
	s.lastReload = &now
	return events, nil
}
