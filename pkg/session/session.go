// Package session tracks the user currently signed in on this machine.
//
// There is one session per store, persisted so it survives restarts. It is
// not a capability: anything that can open the store can read or change it.
package session

import (
	"context"
	"fmt"

	"github.com/aretw0/jotter/pkg/core"
	"github.com/aretw0/jotter/pkg/kv"
)

// UserFinder resolves a user id to its public view.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (core.PublicUser, bool, error)
}

// State reads and writes the currentUser key.
type State struct {
	current *kv.Value[core.Session]
	users   UserFinder
}

// New creates a State. users resolves the stored id on every read.
func New(store kv.Store, users UserFinder) *State {
	return &State{
		current: kv.NewValue[core.Session](store, core.KeyCurrentUser, nil),
		users:   users,
	}
}

// SetCurrentUser records u as the signed-in user.
func (s *State) SetCurrentUser(ctx context.Context, u core.PublicUser) error {
	if u.ID == "" {
		return core.ErrValidation.WithCause(fmt.Errorf("session user has no id"))
	}
	if err := s.current.Store(ctx, core.Session{UserID: u.ID}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// CurrentUser returns the signed-in user. ok is false when nobody is signed
// in or the recorded user no longer exists.
func (s *State) CurrentUser(ctx context.Context) (user core.PublicUser, ok bool, err error) {
	sess, err := s.current.Load(ctx)
	if err != nil {
		return core.PublicUser{}, false, fmt.Errorf("load session: %w", err)
	}
	if sess.UserID == "" {
		return core.PublicUser{}, false, nil
	}
	return s.users.FindByID(ctx, sess.UserID)
}

// ClearCurrentUser signs the current user out. It is a no-op when nobody
// is signed in.
func (s *State) ClearCurrentUser(ctx context.Context) error {
	if err := s.current.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
