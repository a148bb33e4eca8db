package errors

// ErrorClassification indicates whether retrying the failed operation may succeed.
type ErrorClassification string

const (
	// ClassificationRetryable marks temporary failures such as timeouts and rate limits.
	ClassificationRetryable ErrorClassification = "RETRYABLE"

	// ClassificationPermanent marks failures that will not succeed on retry.
	ClassificationPermanent ErrorClassification = "PERMANENT"
)

// IsRetryable returns true if the classification indicates retry should be attempted.
func (c ErrorClassification) IsRetryable() bool {
	return c == ClassificationRetryable
}

// defaultClassifications maps codes to their default classification.
// Operation codes are permanent on their own; a retryable cause keeps
// the wrapped error retryable (see Wrap).
var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeTimeout:     ClassificationRetryable,
	CodeNetwork:     ClassificationRetryable,
	CodeRateLimit:   ClassificationRetryable,
	CodeUnavailable: ClassificationRetryable,

	CodeNotFound:       ClassificationPermanent,
	CodeAlreadyExists:  ClassificationPermanent,
	CodeUnauthorized:   ClassificationPermanent,
	CodeForbidden:      ClassificationPermanent,
	CodeInvalidInput:   ClassificationPermanent,
	CodeInvalidConfig:  ClassificationPermanent,
	CodeNotImplemented: ClassificationPermanent,

	CodeUnableToWriteFile:        ClassificationPermanent,
	CodeUnableToReadFile:         ClassificationPermanent,
	CodeUnableToDeleteFile:       ClassificationPermanent,
	CodeUnableToDeleteDirectory:  ClassificationPermanent,
	CodeUnableToMoveFile:         ClassificationPermanent,
	CodeUnableToCopyFile:         ClassificationPermanent,
	CodeUnableToCreateDirectory:  ClassificationPermanent,
	CodeUnableToListContents:     ClassificationPermanent,
	CodeUnableToSetVisibility:    ClassificationPermanent,
	CodeUnableToRetrieveMetadata: ClassificationPermanent,
	CodeUnableToCheckExistence:   ClassificationPermanent,

	CodeInternal: ClassificationPermanent,
	CodeUnknown:  ClassificationPermanent,
}

// getDefaultClassification returns the default classification for a code.
// Unknown codes are permanent.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationPermanent
}
