package errors

import "fmt"

// StorageError extends error with a code, a retry classification and
// context metadata.
type StorageError interface {
	error

	// Code returns the code identifying the failure.
	Code() ErrorCode

	// Classification returns whether the error is retryable or permanent.
	Classification() ErrorClassification

	// Message returns the human-readable message without the cause.
	Message() string

	// Context returns attached metadata as a copy.
	// Returns nil if no context has been attached.
	Context() map[string]interface{}

	// Unwrap returns the wrapped cause, or nil.
	Unwrap() error
}

// storageError is the only StorageError implementation.
// It is private so that errors are built through New, Wrap and friends.
type storageError struct {
	code           ErrorCode
	classification ErrorClassification
	message        string
	context        map[string]interface{}
	cause          error
}

// Error formats as "[CODE] message" or "[CODE] message: cause".
func (e *storageError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Code returns the error code.
func (e *storageError) Code() ErrorCode {
	return e.code
}

// Classification returns the error classification.
func (e *storageError) Classification() ErrorClassification {
	return e.classification
}

// Message returns the error message.
func (e *storageError) Message() string {
	return e.message
}

// Context returns a copy of the context map.
func (e *storageError) Context() map[string]interface{} {
	return copyContext(e.context)
}

// Unwrap returns the cause.
func (e *storageError) Unwrap() error {
	return e.cause
}

func copyContext(src map[string]interface{}) map[string]interface{} {
	if src == nil {
		return nil
	}
	dst := make(map[string]interface{}, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
