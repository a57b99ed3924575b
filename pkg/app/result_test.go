package app_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jotter/pkg/app"
	"github.com/aretw0/jotter/pkg/core"
)

func TestResultOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want app.Result
	}{
		{"success", nil, app.Result{Success: true}},
		{"domain", core.ErrDuplicateIdentifier, app.Result{Error: &app.ErrorBody{
			Code: "DUPLICATE_IDENTIFIER", Message: "identifier already registered",
		}}},
		{"wrapped domain", fmt.Errorf("save: %w", core.ErrValidation.WithCause(errors.New("title"))), app.Result{Error: &app.ErrorBody{
			Code: "VALIDATION_FAILED", Message: "validation failed",
		}}},
		{"foreign", errors.New("boom"), app.Result{Error: &app.ErrorBody{
			Code: app.CodeInternal, Message: "boom",
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, app.ResultOf(tt.err))
		})
	}
}

func TestResultJSON(t *testing.T) {
	raw, err := json.Marshal(app.ResultOf(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(raw))

	raw, err = json.Marshal(app.ResultOf(core.ErrNotFound))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"not found"}}`, string(raw))
}
