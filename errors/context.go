package errors

import "errors"

// WithContext adds a single context field to an error and returns the result.
// Existing fields are preserved.
//
// If err is not a StorageError it is converted to one with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err = errors.WithContext(err, "path", "images/cat.jpg")
func WithContext(err error, key string, value interface{}) StorageError {
	if err == nil {
		return nil
	}
	return WithContextMap(err, map[string]interface{}{key: value})
}

// WithContextMap merges ctx into the error's context and returns the result.
// New fields override existing ones with the same key.
//
// If err is not a StorageError it is converted to one with CodeUnknown.
// Returns nil if err is nil.
func WithContextMap(err error, ctx map[string]interface{}) StorageError {
	if err == nil {
		return nil
	}

	storageErr := asStorageError(err)

	merged := storageErr.Context()
	if merged == nil {
		merged = make(map[string]interface{}, len(ctx))
	}
	for k, v := range ctx {
		merged[k] = v
	}

	return &storageError{
		code:           storageErr.Code(),
		classification: storageErr.Classification(),
		message:        storageErr.Message(),
		context:        merged,
		cause:          storageErr.Unwrap(),
	}
}

// WithClassification overrides the classification of an error.
//
// If err is not a StorageError it is converted to one with CodeUnknown.
// Returns nil if err is nil.
func WithClassification(err error, classification ErrorClassification) StorageError {
	if err == nil {
		return nil
	}

	storageErr := asStorageError(err)

	return &storageError{
		code:           storageErr.Code(),
		classification: classification,
		message:        storageErr.Message(),
		context:        storageErr.Context(),
		cause:          storageErr.Unwrap(),
	}
}

// asStorageError returns the first StorageError in err's chain, or wraps a
// plain error as CodeUnknown.
func asStorageError(err error) StorageError {
	var storageErr StorageError
	if errors.As(err, &storageErr) {
		return storageErr
	}
	return &storageError{
		code:           CodeUnknown,
		classification: ClassificationPermanent,
		message:        err.Error(),
		cause:          err,
	}
}
