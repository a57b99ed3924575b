// Package app is the boundary every front end talks to.
//
// Service wires the credential manager, session, note repository, query
// engine and settings onto one kv.Store and exposes their operations with
// a uniform error policy: storage failures are logged at error level and
// returned unchanged, so callers can turn them into a Result.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aretw0/introspection"

	"github.com/aretw0/jotter/pkg/core"
	"github.com/aretw0/jotter/pkg/credentials"
	"github.com/aretw0/jotter/pkg/kv"
	"github.com/aretw0/jotter/pkg/notes"
	"github.com/aretw0/jotter/pkg/query"
	"github.com/aretw0/jotter/pkg/session"
	"github.com/aretw0/jotter/pkg/settings"
)

// Service handles every user-facing operation.
type Service struct {
	store    kv.Store
	users    *credentials.Manager
	session  *session.State
	notes    *notes.Repository
	query    *query.Engine
	settings *settings.Settings
	logger   *slog.Logger
}

type options struct {
	logger *slog.Logger
	now    func() time.Time
	hasher credentials.PasswordHasher
}

// Option configures a Service.
type Option func(*options)

// WithLogger sets the logger shared by every component.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the time source for user and note timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithHasher replaces the default password hasher.
func WithHasher(h credentials.PasswordHasher) Option {
	return func(o *options) { o.hasher = h }
}

// New wires a Service on top of store. The Service owns store from now on:
// Close closes it.
func New(store kv.Store, opts ...Option) *Service {
	o := &options{
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	credOpts := []credentials.Option{
		credentials.WithLogger(o.logger.With("component", "credentials")),
		credentials.WithClock(o.now),
	}
	if o.hasher != nil {
		credOpts = append(credOpts, credentials.WithHasher(o.hasher))
	}
	users := credentials.NewManager(store, credOpts...)

	repo := notes.NewRepository(store,
		notes.WithOwnerChecker(users),
		notes.WithClock(o.now),
		notes.WithLogger(o.logger.With("component", "notes")),
	)

	return &Service{
		store:    store,
		users:    users,
		session:  session.New(store, users),
		notes:    repo,
		query:    query.New(repo),
		settings: settings.New(store),
		logger:   o.logger,
	}
}

// Close releases the store.
func (s *Service) Close() error {
	return s.store.Close()
}

// Store returns the underlying store.
func (s *Service) Store() kv.Store {
	return s.store
}

// check logs storage failures loudly and everything else quietly, then
// hands err back.
func (s *Service) check(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, core.ErrStorageIO) {
		s.logger.Error("storage failure", "op", op, "error", err)
	} else {
		s.logger.Debug("operation failed", "op", op, "error", err)
	}
	return err
}

// Register creates a user account.
func (s *Service) Register(ctx context.Context, identifier, password string) (core.PublicUser, error) {
	u, err := s.users.Register(ctx, identifier, password)
	return u, s.check("register", err)
}

// Login authenticates a user. It does not change the current session.
func (s *Service) Login(ctx context.Context, identifier, password string) (core.PublicUser, error) {
	u, err := s.users.Login(ctx, identifier, password)
	return u, s.check("login", err)
}

// CurrentUser returns the signed-in user, if any.
func (s *Service) CurrentUser(ctx context.Context) (core.PublicUser, bool, error) {
	u, ok, err := s.session.CurrentUser(ctx)
	return u, ok, s.check("current_user", err)
}

// SetCurrentUser records u as the signed-in user.
func (s *Service) SetCurrentUser(ctx context.Context, u core.PublicUser) error {
	return s.check("set_current_user", s.session.SetCurrentUser(ctx, u))
}

// Logout clears the session.
func (s *Service) Logout(ctx context.Context) error {
	return s.check("logout", s.session.ClearCurrentUser(ctx))
}

// RequireUser returns the signed-in user or ErrUnauthenticated.
func (s *Service) RequireUser(ctx context.Context) (core.PublicUser, error) {
	u, ok, err := s.CurrentUser(ctx)
	if err != nil {
		return core.PublicUser{}, err
	}
	if !ok {
		return core.PublicUser{}, core.ErrUnauthenticated
	}
	return u, nil
}

// ListNotes returns the owner's notes, newest first.
func (s *Service) ListNotes(ctx context.Context, ownerID string) ([]core.Note, error) {
	ns, err := s.notes.List(ctx, ownerID)
	return ns, s.check("list_notes", err)
}

// GetNote returns one of the owner's notes.
func (s *Service) GetNote(ctx context.Context, ownerID, id string) (core.Note, bool, error) {
	n, ok, err := s.notes.Get(ctx, ownerID, id)
	return n, ok, s.check("get_note", err)
}

// SaveNote creates or replaces a note.
func (s *Service) SaveNote(ctx context.Context, note core.Note) (core.Note, error) {
	n, err := s.notes.Save(ctx, note)
	return n, s.check("save_note", err)
}

// DeleteNote removes one of the owner's notes. Missing notes are ignored.
func (s *Service) DeleteNote(ctx context.Context, ownerID, id string) error {
	return s.check("delete_note", s.notes.Delete(ctx, ownerID, id))
}

// SearchNotes runs a case-insensitive text search.
func (s *Service) SearchNotes(ctx context.Context, ownerID, q string) ([]core.Note, error) {
	ns, err := s.query.Search(ctx, ownerID, q)
	return ns, s.check("search_notes", err)
}

// NotesByTag returns the notes carrying tag.
func (s *Service) NotesByTag(ctx context.Context, ownerID, tag string) ([]core.Note, error) {
	ns, err := s.query.ByTag(ctx, ownerID, tag)
	return ns, s.check("notes_by_tag", err)
}

// NotesByTags returns the notes carrying all of tags.
func (s *Service) NotesByTags(ctx context.Context, ownerID string, tags ...string) ([]core.Note, error) {
	ns, err := s.query.ByTags(ctx, ownerID, tags...)
	return ns, s.check("notes_by_tags", err)
}

// AllTags returns the owner's distinct tags, sorted.
func (s *Service) AllTags(ctx context.Context, ownerID string) ([]string, error) {
	tags, err := s.query.AllTags(ctx, ownerID)
	return tags, s.check("all_tags", err)
}

// MatchTags returns the owner's tags matching a glob pattern.
func (s *Service) MatchTags(ctx context.Context, ownerID, pattern string) ([]string, error) {
	tags, err := s.query.MatchTags(ctx, ownerID, pattern)
	return tags, s.check("match_tags", err)
}

// Theme returns the persisted theme.
func (s *Service) Theme(ctx context.Context) (core.Theme, error) {
	t, err := s.settings.Theme(ctx)
	return t, s.check("theme", err)
}

// SetTheme persists the theme.
func (s *Service) SetTheme(ctx context.Context, t core.Theme) error {
	return s.check("set_theme", s.settings.SetTheme(ctx, t))
}

// ServiceState is the introspection snapshot of a Service.
type ServiceState struct {
	Store any `json:"store,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	st := ServiceState{}
	if in, ok := s.store.(introspection.Introspectable); ok {
		st.Store = in.State()
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var (
	_ introspection.Introspectable = (*Service)(nil)
	_ introspection.Component      = (*Service)(nil)
)
