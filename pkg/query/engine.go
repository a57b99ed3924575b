// Package query answers search and tag questions over one owner's notes.
//
// Every call recomputes its answer from the repository, so results always
// reflect the latest saved state.
package query

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/jotter/pkg/core"
)

// Lister returns an owner's notes in display order.
type Lister interface {
	List(ctx context.Context, ownerID string) ([]core.Note, error)
}

// Engine runs queries against a Lister.
type Engine struct {
	notes Lister
}

// New creates an Engine.
func New(notes Lister) *Engine {
	return &Engine{notes: notes}
}

// Search returns the notes whose title, content or any tag contains q,
// ignoring case. The query is matched as given; only the empty query
// returns every note.
func (e *Engine) Search(ctx context.Context, ownerID, q string) ([]core.Note, error) {
	all, err := e.notes.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if q == "" {
		return all, nil
	}
	needle := strings.ToLower(q)
	return filter(all, func(n core.Note) bool { return matches(n, needle) }), nil
}

func matches(n core.Note, needle string) bool {
	if strings.Contains(strings.ToLower(n.Title), needle) ||
		strings.Contains(strings.ToLower(n.Content), needle) {
		return true
	}
	return slices.ContainsFunc(n.Tags, func(t string) bool {
		return strings.Contains(strings.ToLower(t), needle)
	})
}

// ByTag returns the notes carrying exactly tag.
func (e *Engine) ByTag(ctx context.Context, ownerID, tag string) ([]core.Note, error) {
	all, err := e.notes.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return filter(all, func(n core.Note) bool { return n.HasTag(tag) }), nil
}

// ByTags returns the notes carrying every one of tags. With no tags it
// returns every note.
func (e *Engine) ByTags(ctx context.Context, ownerID string, tags ...string) ([]core.Note, error) {
	all, err := e.notes.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return filter(all, func(n core.Note) bool {
		for _, t := range tags {
			if !n.HasTag(t) {
				return false
			}
		}
		return true
	}), nil
}

// AllTags returns the distinct tags of the owner's notes, sorted.
func (e *Engine) AllTags(ctx context.Context, ownerID string) ([]string, error) {
	all, err := e.notes.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	tags := []string{}
	for _, n := range all {
		tags = append(tags, n.Tags...)
	}
	slices.Sort(tags)
	return slices.Compact(tags), nil
}

// MatchTags returns the distinct tags matching a doublestar pattern, so
// "work/**" selects every tag below "work/".
func (e *Engine) MatchTags(ctx context.Context, ownerID, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, core.ErrValidation.WithCause(fmt.Errorf("invalid tag pattern %q", pattern))
	}
	tags, err := e.AllTags(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(tags, func(t string) bool {
		ok, _ := doublestar.Match(pattern, t)
		return !ok
	}), nil
}

func filter(notes []core.Note, keep func(core.Note) bool) []core.Note {
	out := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}
