package errs

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/cldfs/errors"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/api"
	"github.com/jmgilman/go/cldfs/fs/core"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      errors.ErrorCode
		retryable bool
	}{
		{name: "bad request", err: &api.Error{StatusCode: http.StatusBadRequest}, code: errors.CodeInvalidInput},
		{name: "unauthorized", err: &api.Error{StatusCode: http.StatusUnauthorized}, code: errors.CodeUnauthorized},
		{name: "forbidden", err: &api.Error{StatusCode: http.StatusForbidden}, code: errors.CodeForbidden},
		{name: "not found", err: &api.Error{StatusCode: http.StatusNotFound}, code: errors.CodeNotFound},
		{name: "conflict", err: &api.Error{StatusCode: http.StatusConflict}, code: errors.CodeAlreadyExists},
		{name: "rate limit 420", err: &api.Error{StatusCode: 420}, code: errors.CodeRateLimit, retryable: true},
		{name: "rate limit 429", err: &api.Error{StatusCode: http.StatusTooManyRequests}, code: errors.CodeRateLimit, retryable: true},
		{name: "server error", err: &api.Error{StatusCode: http.StatusBadGateway}, code: errors.CodeUnavailable, retryable: true},
		{name: "other status", err: &api.Error{StatusCode: http.StatusTeapot}, code: errors.CodeUnknown},
		{name: "wrapped api error", err: fmt.Errorf("ctx: %w", &api.Error{StatusCode: 404}), code: errors.CodeNotFound},
		{name: "transport", err: stderrors.New("dial tcp: connection refused"), code: errors.CodeNetwork, retryable: true},
		{name: "deadline", err: context.DeadlineExceeded, code: errors.CodeTimeout, retryable: true},
		{name: "unsupported", err: core.ErrUnsupported, code: errors.CodeNotImplemented},
		{name: "canceled", err: context.Canceled, code: errors.CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.err)
			require.Error(t, got)
			assert.Equal(t, tt.code, errors.GetCode(got))
			assert.Equal(t, tt.retryable, errors.IsRetryable(got))
			assert.True(t, stderrors.Is(got, tt.err))
		})
	}
}

func TestTranslate_Passthrough(t *testing.T) {
	assert.NoError(t, Translate(nil))

	original := errors.New(errors.CodeForbidden, "nope")
	assert.Equal(t, error(original), Translate(original))
}

func TestPathError(t *testing.T) {
	err := PathError(errors.CodeUnableToWriteFile, "write", "docs/a.txt", &api.Error{StatusCode: 420, Message: "slow down"})

	assert.Equal(t, errors.CodeUnableToWriteFile, errors.GetCode(err))
	assert.True(t, errors.HasCode(err, errors.CodeRateLimit))
	assert.True(t, errors.IsRetryable(err))

	var storageErr errors.StorageError
	require.True(t, stderrors.As(err, &storageErr))
	assert.Equal(t, "write docs/a.txt", storageErr.Message())
	assert.Equal(t, "write", storageErr.Context()["operation"])
	assert.Equal(t, "docs/a.txt", storageErr.Context()["path"])

	var apiErr *api.Error
	require.True(t, stderrors.As(err, &apiErr))
	assert.Equal(t, "slow down", apiErr.Message)
}

func TestPathError_NoCause(t *testing.T) {
	err := PathError(errors.CodeUnableToSetVisibility, "set visibility", "a.txt", nil)

	assert.Equal(t, errors.CodeUnableToSetVisibility, errors.GetCode(err))
	assert.Nil(t, stderrors.Unwrap(err))
}

func TestMoveError(t *testing.T) {
	err := MoveError(errors.CodeUnableToMoveFile, "move", "a.txt", "b.txt", NotFound("a.txt"))

	assert.Equal(t, errors.CodeUnableToMoveFile, errors.GetCode(err))
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))

	var storageErr errors.StorageError
	require.True(t, stderrors.As(err, &storageErr))
	assert.Equal(t, "b.txt", storageErr.Context()["destination"])
}
