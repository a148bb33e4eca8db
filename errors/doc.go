// Package errors provides the structured error type shared by every storage
// backend in this module.
//
// A StorageError carries a code naming the operation that failed (for example
// CodeUnableToWriteFile), a retryable/permanent classification, optional
// context metadata, and the underlying cause. It stays compatible with the
// standard library errors package (errors.Is, errors.As, errors.Unwrap).
//
// # Codes
//
// Operation codes mirror the filesystem contract, one per failing operation:
//
//   - CodeUnableToWriteFile, CodeUnableToReadFile
//   - CodeUnableToDeleteFile, CodeUnableToDeleteDirectory
//   - CodeUnableToMoveFile, CodeUnableToCopyFile
//   - CodeUnableToCreateDirectory, CodeUnableToListContents
//   - CodeUnableToSetVisibility, CodeUnableToRetrieveMetadata
//   - CodeUnableToCheckExistence
//
// Cause codes describe why a remote call failed and usually sit further down
// the chain: CodeNotFound, CodeUnauthorized, CodeForbidden, CodeRateLimit,
// CodeNetwork, CodeTimeout, CodeUnavailable, CodeInvalidInput.
//
// # Usage
//
//	res, err := searcher.Search(ctx, query)
//	if err != nil {
//	    return errors.Wrap(errs.Translate(err), errors.CodeUnableToCheckExistence, "search failed")
//	}
//
// Checking for a specific failure:
//
//	if errors.GetCode(err) == errors.CodeUnableToReadFile {
//	    // the outermost failure was a read
//	}
//
//	if errors.HasCode(err, errors.CodeNotFound) {
//	    // somewhere in the chain the asset was missing
//	}
//
// # Classification
//
// Wrapping preserves the classification of a wrapped StorageError, so a write
// failure caused by a rate limit is still reported as retryable:
//
//	if errors.IsRetryable(err) {
//	    // back off and try again
//	}
//
// The storage adapters themselves never retry.
package errors
