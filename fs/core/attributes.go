package core

import "time"

// Visibility values understood by every provider.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// AttributeType distinguishes files from directories in a listing.
type AttributeType string

const (
	// AttributeTypeFile marks a file entry.
	AttributeTypeFile AttributeType = "file"
	// AttributeTypeDirectory marks a directory entry.
	AttributeTypeDirectory AttributeType = "dir"
)

// StorageAttributes is an entry yielded by ListContents.
// It is implemented by *FileAttributes and *DirectoryAttributes.
type StorageAttributes interface {
	Path() string
	Type() AttributeType
	IsFile() bool
	IsDir() bool
	LastModified() time.Time
	Visibility() string
	Extra() map[string]any
}

// FileAttributes describes a stored file.
// Zero values mean the provider did not report the attribute.
type FileAttributes struct {
	FilePath         string
	FileSize         int64
	FileLastModified time.Time
	FileVersion      int64
	FileMimeType     string
	FileVisibility   string
	FileExtra        map[string]any
}

// Path returns the path relative to the filesystem root.
func (a *FileAttributes) Path() string { return a.FilePath }

// Type returns AttributeTypeFile.
func (a *FileAttributes) Type() AttributeType { return AttributeTypeFile }

// IsFile returns true.
func (a *FileAttributes) IsFile() bool { return true }

// IsDir returns false.
func (a *FileAttributes) IsDir() bool { return false }

// Size returns the file size in bytes.
func (a *FileAttributes) Size() int64 { return a.FileSize }

// LastModified returns the modification time.
func (a *FileAttributes) LastModified() time.Time { return a.FileLastModified }

// Version returns the provider's version number for the file, or 0.
func (a *FileAttributes) Version() int64 { return a.FileVersion }

// MimeType returns the media type, or "" if unknown.
func (a *FileAttributes) MimeType() string { return a.FileMimeType }

// Visibility returns the visibility, or "" if unknown.
func (a *FileAttributes) Visibility() string { return a.FileVisibility }

// Extra returns provider-specific metadata.
func (a *FileAttributes) Extra() map[string]any { return a.FileExtra }

// DirectoryAttributes describes a directory.
type DirectoryAttributes struct {
	DirPath         string
	DirLastModified time.Time
	DirVisibility   string
	DirExtra        map[string]any
}

// Path returns the path relative to the filesystem root.
func (a *DirectoryAttributes) Path() string { return a.DirPath }

// Type returns AttributeTypeDirectory.
func (a *DirectoryAttributes) Type() AttributeType { return AttributeTypeDirectory }

// IsFile returns false.
func (a *DirectoryAttributes) IsFile() bool { return false }

// IsDir returns true.
func (a *DirectoryAttributes) IsDir() bool { return true }

// LastModified returns the modification time, or the zero time.
func (a *DirectoryAttributes) LastModified() time.Time { return a.DirLastModified }

// Visibility returns the visibility, or "" if unknown.
func (a *DirectoryAttributes) Visibility() string { return a.DirVisibility }

// Extra returns provider-specific metadata.
func (a *DirectoryAttributes) Extra() map[string]any { return a.DirExtra }

// Compile-time interface checks.
var (
	_ StorageAttributes = (*FileAttributes)(nil)
	_ StorageAttributes = (*DirectoryAttributes)(nil)
)
