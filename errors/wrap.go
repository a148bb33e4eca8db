package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps err under a new code while keeping it reachable through Unwrap.
//
// If err is (or wraps) a StorageError, its classification is preserved.
// Otherwise the default classification for code is used.
//
// Returns nil if err is nil.
//
// Example:
//
//	if _, err := uploader.Upload(ctx, payload, params); err != nil {
//	    return errors.Wrap(err, errors.CodeUnableToWriteFile, "upload rejected")
//	}
func Wrap(err error, code ErrorCode, message string) StorageError {
	if err == nil {
		return nil
	}

	return &storageError{
		code:           code,
		classification: inheritClassification(err, code),
		message:        message,
		cause:          err,
	}
}

// Wrapf wraps err with a formatted message.
//
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) StorageError {
	if err == nil {
		return nil
	}

	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps err and attaches context metadata in one step.
// The context map is copied.
//
// Returns nil if err is nil.
//
// Example:
//
//	return errors.WrapWithContext(err, errors.CodeUnableToMoveFile, "rename rejected", map[string]interface{}{
//	    "path":        source,
//	    "destination": destination,
//	})
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) StorageError {
	if err == nil {
		return nil
	}

	return &storageError{
		code:           code,
		classification: inheritClassification(err, code),
		message:        message,
		context:        copyContext(ctx),
		cause:          err,
	}
}

func inheritClassification(err error, code ErrorCode) ErrorClassification {
	var storageErr StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Classification()
	}
	return getDefaultClassification(code)
}
