// Package kv provides the durable key-value stores jotter persists into.
//
// Every Store maps string keys to JSON documents. Reads decode into a
// caller-supplied destination; writes are durable before they return.
package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/jotter/pkg/core"
)

// Store is the contract every persistence backend fulfils.
type Store interface {
	// Get decodes the value stored under key into dst and reports whether
	// the key existed. When it did not, dst is left untouched, so callers
	// pre-fill dst with their default.
	Get(ctx context.Context, key string, dst any) (bool, error)

	// Set stores value under key. The write is durable when Set returns.
	Set(ctx context.Context, key string, value any) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}

// EventType represents the type of change observed in a store.
type EventType string

const (
	EventSet    EventType = "SET"
	EventDelete EventType = "DELETE"
)

// Event reports a top-level key changed by another writer.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.Key + " @" + strconv.FormatInt(e.Timestamp, 10)
}

func newEvent(t EventType, key string) Event {
	return Event{Type: t, Key: key, Timestamp: time.Now().Unix()}
}

func encode(key string, value any) (json.RawMessage, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %q: %w", key, err)
	}
	return raw, nil
}

func decode(key string, raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return core.ErrStorageIO.WithCause(fmt.Errorf("decode %q: %w", key, err))
	}
	return nil
}

func storageErr(op string, err error) error {
	return core.ErrStorageIO.WithCause(fmt.Errorf("%s: %w", op, err))
}
