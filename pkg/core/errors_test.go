package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotter/pkg/core"
)

func TestDomainError_IsSurvivesCauseAndWrapping(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("save notes: %w", core.ErrStorageIO.WithCause(cause))

	assert.ErrorIs(t, err, core.ErrStorageIO)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, core.ErrValidation)
	assert.Equal(t, "save notes: storage i/o failed: disk full", err.Error())
}

func TestAsDomainError(t *testing.T) {
	de, ok := core.AsDomainError(fmt.Errorf("wrapped: %w", core.ErrNotFound))
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", de.Code())
	assert.Equal(t, core.CategoryNotFound, de.Category())

	_, ok = core.AsDomainError(errors.New("plain"))
	assert.False(t, ok)
}

func TestUser_PublicHidesCredentials(t *testing.T) {
	u := core.User{ID: "u1", Identifier: "alice", PasswordHash: "h", PasswordSalt: "s", DisplayName: "alice"}
	assert.Equal(t, core.PublicUser{ID: "u1", Identifier: "alice", DisplayName: "alice"}, u.Public())
}

func TestTheme_Valid(t *testing.T) {
	assert.True(t, core.ThemeLight.Valid())
	assert.True(t, core.ThemeDark.Valid())
	assert.False(t, core.Theme("solarized").Valid())
}
