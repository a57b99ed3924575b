package settings_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotter/pkg/core"
	"github.com/aretw0/jotter/pkg/kv"
	"github.com/aretw0/jotter/pkg/settings"
)

func TestTheme(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults To Light", func(t *testing.T) {
		s := settings.New(kv.NewMemory())
		theme, err := s.Theme(ctx)
		require.NoError(t, err)
		assert.Equal(t, core.ThemeLight, theme)
	})

	t.Run("Persists Choice", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), kv.DefaultFileName)
		store, err := kv.OpenFile(kv.FileConfig{Path: path})
		require.NoError(t, err)
		require.NoError(t, settings.New(store).SetTheme(ctx, core.ThemeDark))
		require.NoError(t, store.Close())

		reopened, err := kv.OpenFile(kv.FileConfig{Path: path})
		require.NoError(t, err)
		defer reopened.Close()

		theme, err := settings.New(reopened).Theme(ctx)
		require.NoError(t, err)
		assert.Equal(t, core.ThemeDark, theme)
	})

	t.Run("Rejects Unknown Theme", func(t *testing.T) {
		s := settings.New(kv.NewMemory())
		assert.ErrorIs(t, s.SetTheme(ctx, core.Theme("solarized")), core.ErrValidation)

		theme, err := s.Theme(ctx)
		require.NoError(t, err)
		assert.Equal(t, core.ThemeLight, theme)
	})

	t.Run("Ignores Garbage In Store", func(t *testing.T) {
		store := kv.NewMemory()
		require.NoError(t, store.Set(ctx, core.KeyTheme, "neon"))

		theme, err := settings.New(store).Theme(ctx)
		require.NoError(t, err)
		assert.Equal(t, core.ThemeLight, theme)
	})
}
