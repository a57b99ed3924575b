package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotter/pkg/core"
	"github.com/aretw0/jotter/pkg/kv"
	"github.com/aretw0/jotter/pkg/session"
)

type stubUsers map[string]core.PublicUser

func (s stubUsers) FindByID(_ context.Context, id string) (core.PublicUser, bool, error) {
	u, ok := s[id]
	return u, ok, nil
}

func TestState(t *testing.T) {
	ctx := context.Background()
	alice := core.PublicUser{ID: "alice-id", Identifier: "alice", DisplayName: "alice"}
	users := stubUsers{alice.ID: alice}

	t.Run("Empty By Default", func(t *testing.T) {
		s := session.New(kv.NewMemory(), users)
		_, ok, err := s.CurrentUser(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Set Get Clear", func(t *testing.T) {
		store := kv.NewMemory()
		s := session.New(store, users)

		require.NoError(t, s.SetCurrentUser(ctx, alice))

		got, ok, err := s.CurrentUser(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, alice, got)

		var raw core.Session
		_, err = store.Get(ctx, core.KeyCurrentUser, &raw)
		require.NoError(t, err)
		assert.Equal(t, core.Session{UserID: "alice-id"}, raw)

		require.NoError(t, s.ClearCurrentUser(ctx))
		require.NoError(t, s.ClearCurrentUser(ctx))
		_, ok, err = s.CurrentUser(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Vanished User Is Absent", func(t *testing.T) {
		s := session.New(kv.NewMemory(), users)
		require.NoError(t, s.SetCurrentUser(ctx, core.PublicUser{ID: "ghost"}))

		_, ok, err := s.CurrentUser(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Rejects User Without ID", func(t *testing.T) {
		s := session.New(kv.NewMemory(), users)
		assert.ErrorIs(t, s.SetCurrentUser(ctx, core.PublicUser{}), core.ErrValidation)
	})
}
