package errors

import (
	stderrors "errors"
)

// Is reports whether any error in err's chain matches target.
// It is a convenience wrapper around the standard library errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// It is a convenience wrapper around the standard library errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// GetCode returns the code of the outermost StorageError in err's chain.
// Returns CodeUnknown if the error is nil or carries no StorageError.
//
// Example:
//
//	if errors.GetCode(err) == errors.CodeUnableToMoveFile {
//	    // handle move failure
//	}
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	var storageErr StorageError
	if stderrors.As(err, &storageErr) {
		return storageErr.Code()
	}

	return CodeUnknown
}

// HasCode reports whether any StorageError in err's chain carries code.
// Unlike GetCode it looks past the outermost error, which is how callers
// find a not-found cause under an operation failure.
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if storageErr, ok := err.(StorageError); ok && storageErr.Code() == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// GetClassification returns the classification of the outermost StorageError.
// Returns ClassificationPermanent if the error is nil or carries no StorageError.
func GetClassification(err error) ErrorClassification {
	if err == nil {
		return ClassificationPermanent
	}

	var storageErr StorageError
	if stderrors.As(err, &storageErr) {
		return storageErr.Classification()
	}

	return ClassificationPermanent
}

// IsRetryable returns true if the error is classified as retryable.
// Returns false for nil and for errors that carry no StorageError.
func IsRetryable(err error) bool {
	return GetClassification(err).IsRetryable()
}
