package errors

import "fmt"

// New creates a StorageError with the default classification for code.
//
// Example:
//
//	err := errors.New(errors.CodeUnableToCopyFile, "copy is not supported")
func New(code ErrorCode, message string) StorageError {
	return &storageError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a StorageError with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodeNotFound, "no asset with public id %q", id)
func Newf(code ErrorCode, format string, args ...interface{}) StorageError {
	return New(code, fmt.Sprintf(format, args...))
}
