// Package notes stores notes per owner.
//
// The whole "notes" collection is read, changed and written back on every
// mutation. A mutex serializes this inside the process; two processes on
// the same store can still lose each other's updates.
package notes

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aretw0/jotter/pkg/core"
	"github.com/aretw0/jotter/pkg/kv"
)

// OwnerChecker reports whether a user id is registered.
type OwnerChecker interface {
	UserExists(ctx context.Context, id string) (bool, error)
}

// Repository owns the notes collection.
type Repository struct {
	notes    *kv.Value[[]core.Note]
	owners   OwnerChecker
	validate *validator.Validate
	now      func() time.Time
	logger   *slog.Logger

	mu sync.Mutex
}

// Option configures a Repository.
type Option func(*Repository)

// WithOwnerChecker rejects notes whose owner is not a registered user.
func WithOwnerChecker(c OwnerChecker) Option {
	return func(r *Repository) { r.owners = c }
}

// WithClock sets the time source for missing timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// NewRepository creates a Repository on top of store.
func NewRepository(store kv.Store, opts ...Option) *Repository {
	r := &Repository{
		notes:    kv.NewValue(store, core.KeyNotes, func() []core.Note { return []core.Note{} }),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns the owner's notes, most recently updated first; notes with
// the same updatedAt are ordered by id.
func (r *Repository) List(ctx context.Context, ownerID string) ([]core.Note, error) {
	all, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	owned := make([]core.Note, 0, len(all))
	for _, n := range all {
		if n.OwnerID == ownerID {
			owned = append(owned, n)
		}
	}
	slices.SortStableFunc(owned, func(a, b core.Note) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return owned, nil
}

// Get returns the note with the given id if it belongs to ownerID.
func (r *Repository) Get(ctx context.Context, ownerID, id string) (core.Note, bool, error) {
	all, err := r.load(ctx)
	if err != nil {
		return core.Note{}, false, err
	}
	for _, n := range all {
		if n.ID == id && n.OwnerID == ownerID {
			return n, true, nil
		}
	}
	return core.Note{}, false, nil
}

// Save inserts note or fully replaces the stored note with the same id.
//
// A zero CreatedAt keeps the stored value (now, for a new note); a zero
// UpdatedAt becomes now. Ids are unique across owners: saving over another
// owner's note is a validation error.
func (r *Repository) Save(ctx context.Context, note core.Note) (core.Note, error) {
	note = normalize(note)
	if err := r.validate.StructCtx(ctx, note); err != nil {
		return core.Note{}, core.ErrValidation.WithCause(err)
	}
	if err := r.checkOwner(ctx, note.OwnerID); err != nil {
		return core.Note{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return core.Note{}, err
	}

	now := r.now().UTC()
	idx := slices.IndexFunc(all, func(n core.Note) bool { return n.ID == note.ID })
	if idx >= 0 {
		existing := all[idx]
		if existing.OwnerID != note.OwnerID {
			return core.Note{}, core.ErrValidation.WithCause(fmt.Errorf("note id %q is taken", note.ID))
		}
		if note.CreatedAt.IsZero() {
			note.CreatedAt = existing.CreatedAt
		}
	} else if note.CreatedAt.IsZero() {
		note.CreatedAt = now
	}
	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = now
	}

	if idx >= 0 {
		all[idx] = note
	} else {
		all = append(all, note)
	}

	if err := r.notes.Store(ctx, all); err != nil {
		r.logger.Error("save note failed", "note_id", note.ID, "owner_id", note.OwnerID, "error", err)
		return core.Note{}, fmt.Errorf("save notes: %w", err)
	}

	r.logger.Debug("note saved", "note_id", note.ID, "owner_id", note.OwnerID, "created", idx < 0)
	return note, nil
}

// Delete removes the note if it exists and belongs to ownerID. Anything
// else is a no-op.
func (r *Repository) Delete(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load(ctx)
	if err != nil {
		return err
	}

	before := len(all)
	kept := slices.DeleteFunc(all, func(n core.Note) bool {
		return n.ID == id && n.OwnerID == ownerID
	})
	if len(kept) == before {
		return nil
	}
	if err := r.notes.Store(ctx, kept); err != nil {
		r.logger.Error("delete note failed", "note_id", id, "owner_id", ownerID, "error", err)
		return fmt.Errorf("save notes: %w", err)
	}
	r.logger.Debug("note deleted", "note_id", id, "owner_id", ownerID)
	return nil
}

func (r *Repository) checkOwner(ctx context.Context, ownerID string) error {
	if r.owners == nil {
		return nil
	}
	ok, err := r.owners.UserExists(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("check owner: %w", err)
	}
	if !ok {
		return core.ErrValidation.WithCause(fmt.Errorf("owner %q is not a registered user", ownerID))
	}
	return nil
}

func (r *Repository) load(ctx context.Context) ([]core.Note, error) {
	all, err := r.notes.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	return all, nil
}

// normalize trims and de-duplicates tags (first occurrence wins), empties a
// whitespace-only title or content, turns nil collections into empty ones and
// drops monotonic/zone data from times so a saved note compares equal to the
// one read back.
func normalize(n core.Note) core.Note {
	if strings.TrimSpace(n.Title) == "" {
		n.Title = ""
	}
	if strings.TrimSpace(n.Content) == "" {
		n.Content = ""
	}

	tags := make([]string, 0, len(n.Tags))
	seen := make(map[string]bool, len(n.Tags))
	for _, t := range n.Tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	n.Tags = tags

	if n.Attachments == nil {
		n.Attachments = []core.Attachment{}
	} else {
		n.Attachments = slices.Clone(n.Attachments)
	}
	if !n.CreatedAt.IsZero() {
		n.CreatedAt = n.CreatedAt.UTC()
	}
	if !n.UpdatedAt.IsZero() {
		n.UpdatedAt = n.UpdatedAt.UTC()
	}
	return n
}
