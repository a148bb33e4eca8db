package billy

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/jmgilman/go/cldfs/errors"
	"github.com/jmgilman/go/cldfs/fs/core"
)

const (
	publicPerm  fs.FileMode = 0o644
	privatePerm fs.FileMode = 0o600
	dirPerm     fs.FileMode = 0o755
)

// FS adapts a billy.Filesystem to core.FS.
type FS struct {
	bfs billy.Filesystem
	typ core.FSType
}

// New wraps an existing billy filesystem. typ is reported by Type.
func New(bfs billy.Filesystem, typ core.FSType) *FS {
	return &FS{bfs: bfs, typ: typ}
}

// NewLocal creates a filesystem rooted at the local directory root.
func NewLocal(root string) *FS {
	return New(osfs.New(root), core.FSTypeLocal)
}

// NewMemory creates an empty in-memory filesystem.
func NewMemory() *FS {
	return New(memfs.New(), core.FSTypeMemory)
}

// Unwrap returns the underlying billy.Filesystem.
func (f *FS) Unwrap() billy.Filesystem {
	return f.bfs
}

// Type returns the filesystem type given at construction.
func (f *FS) Type() core.FSType {
	return f.typ
}

// normalize converts p to a slash-separated path relative to the root.
// The root itself is "".
func normalize(p string) string {
	p = path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(p, "/")
}

// name returns the billy name for a normalized path.
func name(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func pathError(code errors.ErrorCode, op, p string, cause error) error {
	ctx := map[string]interface{}{"operation": op, "path": p}
	if stderrors.Is(cause, fs.ErrNotExist) {
		cause = errors.Wrap(cause, errors.CodeNotFound, "no such file")
	}
	return errors.WrapWithContext(cause, code, op+" "+p, ctx)
}

func moveError(code errors.ErrorCode, op, source, destination string, cause error) error {
	ctx := map[string]interface{}{"operation": op, "path": source, "destination": destination}
	if stderrors.Is(cause, fs.ErrNotExist) {
		cause = errors.Wrap(cause, errors.CodeNotFound, "no such file")
	}
	return errors.WrapWithContext(cause, code, op+" "+source+" to "+destination, ctx)
}

// stat returns the info at p, or nil if nothing exists there.
func (f *FS) stat(p string) (fs.FileInfo, error) {
	info, err := f.bfs.Stat(name(p))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return info, nil
}

// Read returns the contents of the file at p.
func (f *FS) Read(ctx context.Context, p string) ([]byte, error) {
	r, err := f.ReadStream(ctx, p)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, pathError(errors.CodeUnableToReadFile, "read", p, err)
	}
	return data, nil
}

// ReadStream opens the file at p for reading.
func (f *FS) ReadStream(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, pathError(errors.CodeUnableToReadFile, "read", p, err)
	}
	file, err := f.bfs.Open(name(normalize(p)))
	if err != nil {
		return nil, pathError(errors.CodeUnableToReadFile, "read", p, err)
	}
	return file, nil
}

// FileExists reports whether a regular file exists at p.
func (f *FS) FileExists(_ context.Context, p string) (bool, error) {
	info, err := f.stat(normalize(p))
	if err != nil {
		return false, pathError(errors.CodeUnableToCheckExistence, "file exists", p, err)
	}
	return info != nil && !info.IsDir(), nil
}

// DirectoryExists reports whether a directory exists at p.
func (f *FS) DirectoryExists(_ context.Context, p string) (bool, error) {
	info, err := f.stat(normalize(p))
	if err != nil {
		return false, pathError(errors.CodeUnableToCheckExistence, "directory exists", p, err)
	}
	return info != nil && info.IsDir(), nil
}

// Write stores data at p, creating parent directories as needed.
// core.WithVisibility selects the permission bits.
func (f *FS) Write(ctx context.Context, p string, data []byte, opts ...core.Option) error {
	return f.WriteStream(ctx, p, bytes.NewReader(data), opts...)
}

// WriteStream stores everything read from r at p.
func (f *FS) WriteStream(ctx context.Context, p string, r io.Reader, opts ...core.Option) error {
	if r == nil {
		return errors.WithContextMap(
			errors.New(errors.CodeInvalidInput, "contents must be a readable stream"),
			map[string]interface{}{"operation": "write stream", "path": p},
		)
	}
	if err := ctx.Err(); err != nil {
		return pathError(errors.CodeUnableToWriteFile, "write", p, err)
	}

	n := normalize(p)
	if n == "" {
		return pathError(errors.CodeUnableToWriteFile, "write", p, errors.New(errors.CodeInvalidInput, "path is empty"))
	}

	cfg := core.NewConfig(opts...)
	perm := publicPerm
	if cfg.Visibility == core.VisibilityPrivate {
		perm = privatePerm
	}

	if err := f.bfs.MkdirAll(name(parent(n)), dirPerm); err != nil {
		return pathError(errors.CodeUnableToWriteFile, "write", p, err)
	}
	file, err := f.bfs.OpenFile(n, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return pathError(errors.CodeUnableToWriteFile, "write", p, err)
	}
	if _, err := io.Copy(file, r); err != nil {
		_ = file.Close()
		return pathError(errors.CodeUnableToWriteFile, "write", p, err)
	}
	if err := file.Close(); err != nil {
		return pathError(errors.CodeUnableToWriteFile, "write", p, err)
	}
	return nil
}

// CreateDirectory creates p and any missing parents.
func (f *FS) CreateDirectory(_ context.Context, p string, _ ...core.Option) error {
	if err := f.bfs.MkdirAll(name(normalize(p)), dirPerm); err != nil {
		return pathError(errors.CodeUnableToCreateDirectory, "create directory", p, err)
	}
	return nil
}

// Delete removes the file at p. A missing file is not an error; a
// directory is.
func (f *FS) Delete(_ context.Context, p string) error {
	n := normalize(p)
	info, err := f.stat(n)
	if err != nil {
		return pathError(errors.CodeUnableToDeleteFile, "delete", p, err)
	}
	if info == nil {
		return nil
	}
	if info.IsDir() {
		return pathError(errors.CodeUnableToDeleteFile, "delete", p, errors.New(errors.CodeInvalidInput, "path is a directory"))
	}
	if err := f.bfs.Remove(n); err != nil {
		return pathError(errors.CodeUnableToDeleteFile, "delete", p, err)
	}
	return nil
}

// DeleteDirectory removes p and everything below it. A missing directory
// is not an error; the root is refused.
func (f *FS) DeleteDirectory(_ context.Context, p string) error {
	n := normalize(p)
	if n == "" {
		return pathError(errors.CodeUnableToDeleteDirectory, "delete directory", p,
			errors.New(errors.CodeInvalidInput, "refusing to delete the root directory"))
	}
	if err := f.removeAll(n); err != nil {
		return pathError(errors.CodeUnableToDeleteDirectory, "delete directory", p, err)
	}
	return nil
}

// removeAll removes p recursively. billy has no RemoveAll of its own.
func (f *FS) removeAll(p string) error {
	info, err := f.stat(p)
	if err != nil || info == nil {
		return err
	}
	if !info.IsDir() {
		return f.bfs.Remove(p)
	}

	entries, err := f.bfs.ReadDir(p)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := f.removeAll(path.Join(p, entry.Name())); err != nil {
			return err
		}
	}
	return f.bfs.Remove(p)
}

// Move renames source to destination, replacing any file there.
func (f *FS) Move(_ context.Context, source, destination string, _ ...core.Option) error {
	src, dst := normalize(source), normalize(destination)
	info, err := f.stat(src)
	if err != nil {
		return moveError(errors.CodeUnableToMoveFile, "move", source, destination, err)
	}
	if info == nil || info.IsDir() {
		return moveError(errors.CodeUnableToMoveFile, "move", source, destination,
			errors.Newf(errors.CodeNotFound, "no file at %s", source))
	}
	if src == dst {
		return nil
	}
	if dst == "" {
		return moveError(errors.CodeUnableToMoveFile, "move", source, destination,
			errors.New(errors.CodeInvalidInput, "destination is empty"))
	}

	if err := f.bfs.MkdirAll(name(parent(dst)), dirPerm); err != nil {
		return moveError(errors.CodeUnableToMoveFile, "move", source, destination, err)
	}
	if existing, err := f.stat(dst); err == nil && existing != nil && !existing.IsDir() {
		if err := f.bfs.Remove(dst); err != nil {
			return moveError(errors.CodeUnableToMoveFile, "move", source, destination, err)
		}
	}
	if err := f.bfs.Rename(src, dst); err != nil {
		return moveError(errors.CodeUnableToMoveFile, "move", source, destination, err)
	}
	return nil
}

// Copy duplicates source at destination, keeping its permission bits.
func (f *FS) Copy(ctx context.Context, source, destination string, opts ...core.Option) error {
	src := normalize(source)
	info, err := f.stat(src)
	if err != nil {
		return moveError(errors.CodeUnableToCopyFile, "copy", source, destination, err)
	}
	if info == nil || info.IsDir() {
		return moveError(errors.CodeUnableToCopyFile, "copy", source, destination,
			errors.Newf(errors.CodeNotFound, "no file at %s", source))
	}
	if src == normalize(destination) {
		return nil
	}

	r, err := f.bfs.Open(src)
	if err != nil {
		return moveError(errors.CodeUnableToCopyFile, "copy", source, destination, err)
	}
	defer func() { _ = r.Close() }()

	visibility := core.VisibilityPublic
	if info.Mode().Perm()&0o044 == 0 {
		visibility = core.VisibilityPrivate
	}
	opts = append([]core.Option{core.WithVisibility(visibility)}, opts...)
	if err := f.WriteStream(ctx, destination, r, opts...); err != nil {
		return moveError(errors.CodeUnableToCopyFile, "copy", source, destination, err)
	}
	return nil
}

// ListContents yields the entries of p in name order. With deep set, the
// listing descends depth-first into every sub-directory. A missing
// directory lists as empty.
func (f *FS) ListContents(ctx context.Context, p string, deep bool) iter.Seq2[core.StorageAttributes, error] {
	return func(yield func(core.StorageAttributes, error) bool) {
		f.list(ctx, normalize(p), deep, yield)
	}
}

func (f *FS) list(ctx context.Context, dir string, deep bool, yield func(core.StorageAttributes, error) bool) bool {
	if err := ctx.Err(); err != nil {
		return yield(nil, pathError(errors.CodeUnableToListContents, "list contents", dir, err))
	}

	infos, err := f.bfs.ReadDir(name(dir))
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return true
		}
		yield(nil, pathError(errors.CodeUnableToListContents, "list contents", dir, err))
		return false
	}

	for _, info := range infos {
		p := path.Join(dir, info.Name())
		if !yield(attributes(p, info), nil) {
			return false
		}
		if deep && info.IsDir() {
			if !f.list(ctx, p, deep, yield) {
				return false
			}
		}
	}
	return true
}

// Metadata returns the attributes of the file at p.
func (f *FS) Metadata(_ context.Context, p string) (*core.FileAttributes, error) {
	n := normalize(p)
	info, err := f.stat(n)
	if err != nil {
		return nil, pathError(errors.CodeUnableToRetrieveMetadata, "metadata", p, err)
	}
	if info == nil || info.IsDir() {
		return nil, pathError(errors.CodeUnableToRetrieveMetadata, "metadata", p,
			errors.Newf(errors.CodeNotFound, "no file at %s", p))
	}
	return attributes(n, info).(*core.FileAttributes), nil
}

// LastModified returns the modification time of the file at p.
func (f *FS) LastModified(ctx context.Context, p string) (time.Time, error) {
	attrs, err := f.Metadata(ctx, p)
	if err != nil {
		return time.Time{}, err
	}
	return attrs.LastModified(), nil
}

// FileSize returns the size of the file at p.
func (f *FS) FileSize(ctx context.Context, p string) (int64, error) {
	attrs, err := f.Metadata(ctx, p)
	if err != nil {
		return 0, err
	}
	return attrs.Size(), nil
}

// MimeType sniffs the media type of the file at p from its content.
func (f *FS) MimeType(ctx context.Context, p string) (string, error) {
	r, err := f.ReadStream(ctx, p)
	if err != nil {
		return "", pathError(errors.CodeUnableToRetrieveMetadata, "mime type", p, err)
	}
	defer func() { _ = r.Close() }()

	m, err := mimetype.DetectReader(r)
	if err != nil {
		return "", pathError(errors.CodeUnableToRetrieveMetadata, "mime type", p, err)
	}
	t, _, _ := strings.Cut(m.String(), ";")
	return strings.TrimSpace(t), nil
}

// Visibility derives public or private from the group and other read bits.
func (f *FS) Visibility(ctx context.Context, p string) (string, error) {
	attrs, err := f.Metadata(ctx, p)
	if err != nil {
		return "", err
	}
	return attrs.Visibility(), nil
}

// SetVisibility changes the permission bits of the file at p.
func (f *FS) SetVisibility(ctx context.Context, p, visibility string) error {
	var perm fs.FileMode
	switch visibility {
	case core.VisibilityPublic:
		perm = publicPerm
	case core.VisibilityPrivate:
		perm = privatePerm
	default:
		return pathError(errors.CodeUnableToSetVisibility, "set visibility", p,
			errors.Newf(errors.CodeInvalidInput, "unknown visibility %q", visibility))
	}

	n := normalize(p)
	if ok, err := f.FileExists(ctx, n); err != nil || !ok {
		if err == nil {
			err = errors.Newf(errors.CodeNotFound, "no file at %s", p)
		}
		return pathError(errors.CodeUnableToSetVisibility, "set visibility", p, err)
	}

	if ch, ok := f.bfs.(billy.Change); ok {
		if err := ch.Chmod(n, perm); err != nil {
			return pathError(errors.CodeUnableToSetVisibility, "set visibility", p, err)
		}
		return nil
	}

	// Without chmod support the file is rewritten with the new mode.
	data, err := f.Read(ctx, n)
	if err != nil {
		return pathError(errors.CodeUnableToSetVisibility, "set visibility", p, err)
	}
	if err := f.bfs.Remove(n); err != nil {
		return pathError(errors.CodeUnableToSetVisibility, "set visibility", p, err)
	}
	if err := f.Write(ctx, n, data, core.WithVisibility(visibility)); err != nil {
		return pathError(errors.CodeUnableToSetVisibility, "set visibility", p, err)
	}
	return nil
}

func attributes(p string, info fs.FileInfo) core.StorageAttributes {
	visibility := core.VisibilityPublic
	if info.Mode().Perm()&0o044 == 0 {
		visibility = core.VisibilityPrivate
	}
	if info.IsDir() {
		return &core.DirectoryAttributes{
			DirPath:         p,
			DirLastModified: info.ModTime(),
			DirVisibility:   visibility,
		}
	}
	return &core.FileAttributes{
		FilePath:         p,
		FileSize:         info.Size(),
		FileLastModified: info.ModTime(),
		FileVisibility:   visibility,
		FileExtra:        map[string]any{"mode": info.Mode().String()},
	}
}

func parent(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

// Compile-time interface check.
var _ core.FS = (*FS)(nil)
