package errors

// ErrorCode identifies a failure condition.
// Codes are strings so they read well in logs and serialize naturally to JSON.
type ErrorCode string

const (
	// Operation errors.

	// CodeUnableToWriteFile indicates a file could not be written.
	CodeUnableToWriteFile ErrorCode = "UNABLE_TO_WRITE_FILE"

	// CodeUnableToReadFile indicates a file could not be read.
	CodeUnableToReadFile ErrorCode = "UNABLE_TO_READ_FILE"

	// CodeUnableToDeleteFile indicates a file could not be deleted.
	CodeUnableToDeleteFile ErrorCode = "UNABLE_TO_DELETE_FILE"

	// CodeUnableToDeleteDirectory indicates a directory could not be deleted.
	CodeUnableToDeleteDirectory ErrorCode = "UNABLE_TO_DELETE_DIRECTORY"

	// CodeUnableToMoveFile indicates a file could not be moved.
	CodeUnableToMoveFile ErrorCode = "UNABLE_TO_MOVE_FILE"

	// CodeUnableToCopyFile indicates a file could not be copied.
	CodeUnableToCopyFile ErrorCode = "UNABLE_TO_COPY_FILE"

	// CodeUnableToCreateDirectory indicates a directory could not be created.
	CodeUnableToCreateDirectory ErrorCode = "UNABLE_TO_CREATE_DIRECTORY"

	// CodeUnableToListContents indicates a directory listing could not be produced.
	CodeUnableToListContents ErrorCode = "UNABLE_TO_LIST_CONTENTS"

	// CodeUnableToSetVisibility indicates visibility could not be changed.
	CodeUnableToSetVisibility ErrorCode = "UNABLE_TO_SET_VISIBILITY"

	// CodeUnableToRetrieveMetadata indicates file metadata could not be retrieved.
	CodeUnableToRetrieveMetadata ErrorCode = "UNABLE_TO_RETRIEVE_METADATA"

	// CodeUnableToCheckExistence indicates existence could not be determined.
	// A missing file is not this error; it is a false result.
	CodeUnableToCheckExistence ErrorCode = "UNABLE_TO_CHECK_EXISTENCE"

	// Resource errors.

	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates a resource already exists.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Permission errors.

	// CodeUnauthorized indicates the request lacks valid credentials.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeForbidden indicates the credentials lack permission for the operation.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// Validation errors.

	// CodeInvalidInput indicates the caller passed malformed input.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// Infrastructure errors.

	// CodeNetwork indicates the transport failed before a response arrived.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeRateLimit indicates the remote API rate limit has been exceeded.
	CodeRateLimit ErrorCode = "RATE_LIMIT_EXCEEDED"

	// CodeUnavailable indicates the remote service is temporarily unavailable.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeNotImplemented indicates the backend does not support the operation.
	CodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Generic errors.

	// CodeUnknown indicates an unclassified error.
	CodeUnknown ErrorCode = "UNKNOWN"
)
