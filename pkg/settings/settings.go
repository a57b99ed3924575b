// Package settings persists user interface preferences.
package settings

import (
	"context"
	"fmt"

	"github.com/aretw0/jotter/pkg/core"
	"github.com/aretw0/jotter/pkg/kv"
)

// DefaultTheme is returned when no theme has been chosen.
const DefaultTheme = core.ThemeLight

// Settings reads and writes preferences in a kv.Store.
type Settings struct {
	theme *kv.Value[core.Theme]
}

// New creates Settings on top of store.
func New(store kv.Store) *Settings {
	return &Settings{
		theme: kv.NewValue(store, core.KeyTheme, func() core.Theme { return DefaultTheme }),
	}
}

// Theme returns the stored theme, or DefaultTheme. An unknown stored value
// also yields DefaultTheme.
func (s *Settings) Theme(ctx context.Context) (core.Theme, error) {
	theme, err := s.theme.Load(ctx)
	if err != nil {
		return DefaultTheme, fmt.Errorf("load theme: %w", err)
	}
	if !theme.Valid() {
		return DefaultTheme, nil
	}
	return theme, nil
}

// SetTheme stores theme, which must be light or dark.
func (s *Settings) SetTheme(ctx context.Context, theme core.Theme) error {
	if !theme.Valid() {
		return core.ErrValidation.WithCause(fmt.Errorf("unknown theme %q", theme))
	}
	if err := s.theme.Store(ctx, theme); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}
