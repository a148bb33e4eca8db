// Package cloudinary provides a Cloudinary-backed implementation of the
// core.FS interface.
//
// Cloudinary stores assets under flat public identifiers, records folders
// as separate metadata and answers queries through a paginated search
// endpoint. This package emulates filesystem semantics on top of those:
//
//   - Paths map to public identifiers. Image, video and audio files lose
//     their extension (the platform stores the format separately); other
//     files keep it.
//   - Existence, metadata, reads and deletes locate an asset with an exact
//     public_id search.
//   - Move is rename followed by a best-effort cleanup of the source.
//   - Listings drain every search page before yielding, then append the
//     immediate sub-folders as directories.
//
// Copying, visibility and MIME type lookups are not supported and return
// coded errors (SetVisibility can be configured to be a silent no-op).
//
// # Usage
//
//	store, err := cloudinary.New(cloudinary.Config{
//	    URL:       os.Getenv("CLOUDINARY_URL"),
//	    URIPrefix: "uploads",
//	})
//	if err != nil {
//	    return err
//	}
//	err = store.Write(ctx, "images/cat.jpg", data)
//
// # Prefix
//
// A configured URIPrefix is applied exactly once to every identifier and
// folder the adapter sends, and stripped from every path it returns, so
// callers only ever see paths relative to the prefix.
//
// # Errors
//
// Every failure is an errors.StorageError coded for the operation
// (errors.CodeUnableToWriteFile and so on). The translated remote cause
// stays in the chain:
//
//	if errors.HasCode(err, errors.CodeNotFound) { ... }
//	if errors.IsRetryable(err) { ... }
//
// The adapter never retries; transport-level retries are configured on
// the api.Client.
//
// # Thread Safety
//
// FS holds only immutable configuration and stateless capability handles
// and is safe for concurrent use. Multi-step operations are not atomic.
package cloudinary
