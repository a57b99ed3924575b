package kv

import (
	"context"
	"slices"

	"github.com/aretw0/lifecycle"
)

// SourceOption configures a Source created by NewSource.
type SourceOption func(*storeSource)

// WithKeys restricts the source to events on the given top-level keys.
// Without it every key is forwarded.
func WithKeys(keys ...string) SourceOption {
	return func(s *storeSource) {
		s.keys = append(s.keys, keys...)
	}
}

type storeSource struct {
	in   <-chan Event
	out  chan lifecycle.Event
	keys []string
}

// NewSource adapts the channel returned by FileStore.Watch to a
// lifecycle.Source, so store changes can feed a lifecycle event loop.
func NewSource(events <-chan Event, opts ...SourceOption) lifecycle.Source {
	s := &storeSource{in: events, out: make(chan lifecycle.Event)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *storeSource) wants(e Event) bool {
	return len(s.keys) == 0 || slices.Contains(s.keys, e.Key)
}

// Start returns immediately. Events is closed once the store channel closes
// or ctx ends.
func (s *storeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			var e Event
			var ok bool
			select {
			case <-ctx.Done():
				return nil
			case e, ok = <-s.in:
			}
			if !ok {
				return nil
			}
			if !s.wants(e) {
				continue
			}
			select {
			case s.out <- e:
			case <-ctx.Done():
				return nil
			}
		}
	})
	return nil
}
