// Test Type: Unit Test
// Description: Tests for the errors package - coded error construction, wrapping and inspection

package errors_test

import (
	"fmt"
	"testing"

	"github.com/arthur-debert/strata/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := errors.New(errors.ErrKindConflict, "file and directory share a path")

	assert.Equal(t, errors.ErrKindConflict, err.Code)
	assert.Equal(t, "[KIND_CONFLICT] file and directory share a path", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrUnresolvedVariable, "unknown variable %q", "frontend_kind")

	assert.Equal(t, errors.ErrUnresolvedVariable, err.Code)
	assert.Contains(t, err.Error(), `unknown variable "frontend_kind"`)
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		inner    error
		wantNil  bool
		wantCode errors.ErrorCode
	}{
		{
			name:     "wraps_non_nil_error",
			inner:    fmt.Errorf("read failed"),
			wantCode: errors.ErrLayerLoad,
		},
		{
			name:    "nil_error_returns_nil",
			inner:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.Wrap(tt.inner, errors.ErrLayerLoad, "loading layer")
			if tt.wantNil {
				assert.Nil(t, err)
				return
			}
			require.NotNil(t, err)
			assert.Equal(t, tt.wantCode, err.Code)
			assert.Equal(t, tt.inner, err.Unwrap())
			assert.Contains(t, err.Error(), "read failed")
		})
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrPathCollision, "resolved paths collide").
		WithDetail("rawPathA", "{{x}}/file").
		WithDetail("rawPathB", "lit/file")

	details := errors.GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "{{x}}/file", details["rawPathA"])
	assert.Equal(t, "lit/file", details["rawPathB"])
}

func TestIsErrorCode(t *testing.T) {
	base := errors.New(errors.ErrUnbalancedBlock, "missing endif")
	wrapped := fmt.Errorf("render: %w", base)

	assert.True(t, errors.IsErrorCode(wrapped, errors.ErrUnbalancedBlock))
	assert.False(t, errors.IsErrorCode(wrapped, errors.ErrKindConflict))
	assert.False(t, errors.IsErrorCode(fmt.Errorf("plain"), errors.ErrUnbalancedBlock))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrPathInjection, errors.GetErrorCode(errors.New(errors.ErrPathInjection, "separator in segment")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(fmt.Errorf("plain")))
}
