// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, stage mapping and code helpers

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "cache_unavailable",
			code:    errors.ErrCacheUnavailable,
			message: "template cache is empty",
			wantStr: "[CACHE_UNAVAILABLE] template cache is empty",
		},
		{
			name:    "invalid_input",
			code:    errors.ErrInvalidInput,
			message: "library name cannot be empty",
			wantStr: "[INVALID_INPUT] library name cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrInvalidInput, "unknown library type %q", "dynamic")
	assert.Equal(t, `unknown library type "dynamic"`, err.Message)
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("connection refused")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrFetchFailed, "failed to download templates")

		assert.Equal(t, errors.ErrFetchFailed, err.Code)
		assert.Same(t, baseErr, err.Wrapped)
		assert.Equal(t, "[FETCH_FAILED] failed to download templates: connection refused", err.Error())
		assert.True(t, stderrors.Is(err, baseErr))
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrFetchFailed, "unused"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrFetchFailed, "unused %d", 1))
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrExtractFailed, "bad entry").
		WithDetail(errors.DetailEntry, "templates/project/CMakeLists.txt").
		WithDetails(map[string]interface{}{errors.DetailStage: "extract"})

	assert.Equal(t, "templates/project/CMakeLists.txt", err.Details[errors.DetailEntry])
	assert.Equal(t, "extract", err.Details[errors.DetailStage])
}

func TestIsErrorCode(t *testing.T) {
	inner := errors.New(errors.ErrCopyFailed, "copy failed")
	wrapped := fmt.Errorf("create library: %w", inner)

	assert.True(t, errors.IsErrorCode(wrapped, errors.ErrCopyFailed))
	assert.False(t, errors.IsErrorCode(wrapped, errors.ErrPlaceholderIO))
	assert.False(t, errors.IsErrorCode(stderrors.New("plain"), errors.ErrCopyFailed))
	assert.Equal(t, errors.ErrCopyFailed, errors.GetErrorCode(wrapped))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}

func TestIsMatchesByCode(t *testing.T) {
	err := errors.Wrap(stderrors.New("disk full"), errors.ErrExtractFailed, "write failed")
	require.True(t, stderrors.Is(err, errors.New(errors.ErrExtractFailed, "")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrFetchFailed, "")))
}

func TestGetErrorDetails(t *testing.T) {
	err := errors.New(errors.ErrPlaceholderIO, "read failed").WithDetail(errors.DetailPath, "/tmp/x")
	assert.Equal(t, "/tmp/x", errors.GetErrorDetails(err)[errors.DetailPath])
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestStage(t *testing.T) {
	tests := []struct {
		code errors.ErrorCode
		want string
	}{
		{errors.ErrFetchFailed, "fetch"},
		{errors.ErrExtractFailed, "extract"},
		{errors.ErrCopyFailed, "copy"},
		{errors.ErrPlaceholderIO, "substitute"},
		{errors.ErrUnresolvedPlaceholders, "substitute"},
		{errors.ErrProjectRootNotFound, "config"},
		{errors.ErrInternal, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Stage(tt.code))
		})
	}
}

func TestIsFatal(t *testing.T) {
	assert.False(t, errors.IsFatal(nil))
	assert.False(t, errors.IsFatal(errors.New(errors.ErrFetchFailed, "offline")))
	assert.False(t, errors.IsFatal(errors.New(errors.ErrExtractFailed, "corrupt")))
	assert.True(t, errors.IsFatal(errors.New(errors.ErrConfiguration, "HOME not set")))
	assert.True(t, errors.IsFatal(stderrors.New("plain")))
}
