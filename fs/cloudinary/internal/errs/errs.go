// Package errs translates remote failures into coded storage errors for
// the cloudinary filesystem.
package errs

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/jmgilman/go/cldfs/errors"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/api"
	"github.com/jmgilman/go/cldfs/fs/core"
)

// Translate converts a capability error to a StorageError whose code
// describes the remote condition. StorageErrors pass through unchanged.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	var storageErr errors.StorageError
	if stderrors.As(err, &storageErr) {
		return err
	}

	switch {
	case stderrors.Is(err, core.ErrUnsupported):
		return errors.Wrap(err, errors.CodeNotImplemented, "cloudinary")
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(err, errors.CodeTimeout, "deadline exceeded")
	case stderrors.Is(err, context.Canceled):
		return errors.Wrap(err, errors.CodeUnknown, "canceled")
	}

	var apiErr *api.Error
	if stderrors.As(err, &apiErr) {
		return errors.Wrap(err, codeForStatus(apiErr.StatusCode), "cloudinary")
	}

	// Anything else failed before a response arrived.
	return errors.Wrap(err, errors.CodeNetwork, "transport")
}

func codeForStatus(status int) errors.ErrorCode {
	switch {
	case status == http.StatusBadRequest:
		return errors.CodeInvalidInput
	case status == http.StatusUnauthorized:
		return errors.CodeUnauthorized
	case status == http.StatusForbidden:
		return errors.CodeForbidden
	case status == http.StatusNotFound:
		return errors.CodeNotFound
	case status == http.StatusConflict:
		return errors.CodeAlreadyExists
	case status == 420 || status == http.StatusTooManyRequests:
		return errors.CodeRateLimit
	case status == http.StatusNotImplemented:
		return errors.CodeNotImplemented
	case status >= 500:
		return errors.CodeUnavailable
	default:
		return errors.CodeUnknown
	}
}

// PathError wraps a failure of op on path under code. The translated
// cause stays in the chain; operation and path are attached as context.
// A nil cause produces an error without one.
func PathError(code errors.ErrorCode, op, path string, cause error) error {
	ctx := map[string]interface{}{"operation": op, "path": path}
	if cause == nil {
		return errors.WithContextMap(errors.New(code, op+" "+path), ctx)
	}
	return errors.WrapWithContext(Translate(cause), code, op+" "+path, ctx)
}

// MoveError is PathError for two-path operations.
func MoveError(code errors.ErrorCode, op, source, destination string, cause error) error {
	ctx := map[string]interface{}{"operation": op, "path": source, "destination": destination}
	msg := op + " " + source + " to " + destination
	if cause == nil {
		return errors.WithContextMap(errors.New(code, msg), ctx)
	}
	return errors.WrapWithContext(Translate(cause), code, msg, ctx)
}

// NotFound is the cause recorded when a lookup finds no asset.
func NotFound(path string) error {
	return errors.Newf(errors.CodeNotFound, "no asset at %s", path)
}
