package core

import (
	"context"
	"io"
	"iter"
	"time"
)

// FSType represents the underlying type of filesystem implementation.
type FSType int

const (
	// FSTypeUnknown indicates the filesystem type is unknown or unspecified.
	FSTypeUnknown FSType = iota
	// FSTypeLocal indicates a local filesystem (e.g., disk-backed).
	FSTypeLocal
	// FSTypeMemory indicates an in-memory filesystem.
	FSTypeMemory
	// FSTypeRemote indicates a remote filesystem (e.g., a media API).
	FSTypeRemote
)

// String returns a string representation of the FSType.
func (t FSType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeMemory:
		return "memory"
	case FSTypeRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// FS is the primary filesystem interface combining all operations.
//
// All providers MUST implement this interface. Operations a provider cannot
// perform return an error coded for that operation rather than panicking.
type FS interface {
	ReadFS
	WriteFS
	ManageFS
	ListFS
	MetadataFS

	// Type returns the underlying filesystem type.
	Type() FSType
}

// ReadFS defines read and existence operations.
type ReadFS interface {
	// Read returns the full contents of the file at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// ReadStream returns a reader over the contents of the file at path.
	// The caller must close it.
	ReadStream(ctx context.Context, path string) (io.ReadCloser, error)

	// FileExists reports whether a file exists at path.
	// A missing file is (false, nil); an error means existence could not
	// be determined.
	FileExists(ctx context.Context, path string) (bool, error)

	// DirectoryExists reports whether a directory exists at path.
	DirectoryExists(ctx context.Context, path string) (bool, error)
}

// WriteFS defines write operations.
type WriteFS interface {
	// Write stores data at path, overwriting any existing file.
	Write(ctx context.Context, path string, data []byte, opts ...Option) error

	// WriteStream stores everything read from r at path.
	// A nil reader is rejected.
	WriteStream(ctx context.Context, path string, r io.Reader, opts ...Option) error

	// CreateDirectory creates the directory at path.
	// Creating an existing directory is not an error.
	CreateDirectory(ctx context.Context, path string, opts ...Option) error
}

// ManageFS defines removal and relocation operations.
//
// Multi-step implementations (Move on object stores) are not atomic.
type ManageFS interface {
	// Delete removes the file at path. Deleting a missing file is not an error.
	Delete(ctx context.Context, path string) error

	// DeleteDirectory removes the directory at path and everything under it.
	DeleteDirectory(ctx context.Context, path string) error

	// Move relocates the file at source to destination, replacing any file there.
	Move(ctx context.Context, source, destination string, opts ...Option) error

	// Copy duplicates the file at source to destination.
	Copy(ctx context.Context, source, destination string, opts ...Option) error
}

// ListFS defines directory enumeration.
type ListFS interface {
	// ListContents yields the entries under path. With deep set, files of
	// every nested directory are included.
	//
	// Iteration stops at the first error, which is yielded with a nil entry.
	ListContents(ctx context.Context, path string, deep bool) iter.Seq2[StorageAttributes, error]
}

// MetadataFS defines file metadata operations.
type MetadataFS interface {
	// Metadata returns the attributes of the file at path.
	Metadata(ctx context.Context, path string) (*FileAttributes, error)

	// LastModified returns the last modification (or creation) time.
	LastModified(ctx context.Context, path string) (time.Time, error)

	// FileSize returns the size of the file in bytes.
	FileSize(ctx context.Context, path string) (int64, error)

	// MimeType returns the media type of the file.
	MimeType(ctx context.Context, path string) (string, error)

	// Visibility returns VisibilityPublic or VisibilityPrivate.
	Visibility(ctx context.Context, path string) (string, error)

	// SetVisibility changes the visibility of the file at path.
	SetVisibility(ctx context.Context, path, visibility string) error
}
