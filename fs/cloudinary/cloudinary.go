package cloudinary

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/jmgilman/go/cldfs/errors"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/api"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/internal/datauri"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/internal/errs"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/internal/pathutil"
	"github.com/jmgilman/go/cldfs/fs/core"
)

// FS implements core.FS for Cloudinary.
type FS struct {
	uploader   api.Uploader
	admin      api.Admin
	searcher   api.Searcher
	fetcher    api.Fetcher
	prefix     string
	visibility VisibilityHandling
	logger     *slog.Logger
}

// New creates a Cloudinary-backed filesystem.
// Returns an error coded CodeInvalidConfig if the configuration is invalid.
func New(cfg Config) (*FS, error) {
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "invalid config")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	f := &FS{
		uploader:   cfg.Uploader,
		admin:      cfg.Admin,
		searcher:   cfg.Searcher,
		fetcher:    cfg.Fetcher,
		prefix:     pathutil.NormalizePrefix(cfg.URIPrefix),
		visibility: cfg.VisibilityHandling,
		logger:     logger,
	}
	if f.visibility == "" {
		f.visibility = VisibilityThrow
	}

	if !cfg.injected() {
		creds, err := cfg.credentials()
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "invalid config")
		}
		opts := append([]api.Option{api.WithLogger(logger)}, cfg.ClientOptions...)
		client, err := api.NewClient(creds, opts...)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "failed to create cloudinary client")
		}
		if f.uploader == nil {
			f.uploader = client
		}
		if f.admin == nil {
			f.admin = client
		}
		if f.searcher == nil {
			f.searcher = client
		}
		if f.fetcher == nil {
			f.fetcher = client
		}
	}

	return f, nil
}

// Type returns core.FSTypeRemote.
func (f *FS) Type() core.FSType {
	return core.FSTypeRemote
}

// joinPath joins the prefix with a directory or folder path.
func (f *FS) joinPath(p string) string {
	return pathutil.JoinPrefix(f.prefix, p)
}

// publicID returns the prefixed identifier for a file path, or "" when
// the path names the root.
func (f *FS) publicID(p string) string {
	name := pathutil.ToPublicID(pathutil.Normalize(p))
	if name == "" {
		return ""
	}
	return pathutil.JoinPrefix(f.prefix, name)
}

// find returns the first asset whose identifier matches path exactly, or
// nil if there is none.
func (f *FS) find(ctx context.Context, p string) (*api.Resource, error) {
	id := f.publicID(p)
	if id == "" {
		return nil, nil
	}

	f.logger.DebugContext(ctx, "searching for asset", "path", p, "public_id", id)
	page, err := f.searcher.Search(ctx, api.SearchQuery{Expression: "public_id:" + pathutil.EscapeQuery(id)})
	if err != nil {
		return nil, err
	}
	if len(page.Resources) == 0 {
		return nil, nil
	}
	res := page.Resources[0]
	return &res, nil
}

// Write uploads data to path, overwriting any existing asset.
// Supported options: core.WithAsync and core.WithMetadata.
func (f *FS) Write(ctx context.Context, path string, data []byte, opts ...core.Option) error {
	cfg := core.NewConfig(opts...)
	id := f.publicID(path)
	if id == "" {
		return errs.PathError(errors.CodeUnableToWriteFile, "write", path, errors.New(errors.CodeInvalidInput, "path is empty"))
	}

	f.logger.DebugContext(ctx, "uploading asset", "path", path, "public_id", id, "bytes", len(data), "async", cfg.Async)
	_, err := f.uploader.Upload(ctx, datauri.Encode(data), api.UploadParams{
		PublicID:     id,
		ResourceType: api.KindAuto,
		Overwrite:    true,
		Async:        cfg.Async,
		Context:      cfg.Metadata,
	})
	if err != nil {
		return errs.PathError(errors.CodeUnableToWriteFile, "write", path, err)
	}
	return nil
}

// WriteStream reads r fully and uploads it as Write does.
// A nil reader is rejected with CodeInvalidInput.
func (f *FS) WriteStream(ctx context.Context, path string, r io.Reader, opts ...core.Option) error {
	if r == nil {
		return errors.WithContextMap(
			errors.New(errors.CodeInvalidInput, "contents must be a readable stream"),
			map[string]interface{}{"operation": "write stream", "path": path},
		)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return errs.PathError(errors.CodeUnableToWriteFile, "write stream", path, err)
	}
	return f.Write(ctx, path, data, opts...)
}

// Delete removes the asset at path. A missing asset is not an error.
func (f *FS) Delete(ctx context.Context, path string) error {
	res, err := f.find(ctx, path)
	if err != nil {
		return errs.PathError(errors.CodeUnableToDeleteFile, "delete", path, err)
	}
	if res == nil {
		return nil
	}

	f.logger.DebugContext(ctx, "deleting asset", "path", path, "public_id", res.PublicID, "resource_type", res.ResourceType)
	if err := f.admin.DeleteAssets(ctx, []string{res.PublicID}, res.ResourceType); err != nil {
		return errs.PathError(errors.CodeUnableToDeleteFile, "delete", path, err)
	}
	return nil
}

// DeleteDirectory removes every raw, image and video asset below path,
// then the folder itself. A folder that does not exist is not an error.
func (f *FS) DeleteDirectory(ctx context.Context, path string) error {
	if pathutil.Normalize(path) == "" {
		return errs.PathError(errors.CodeUnableToDeleteDirectory, "delete directory", path,
			errors.New(errors.CodeInvalidInput, "refusing to delete the root directory"))
	}
	dir := f.joinPath(path)

	for _, kind := range api.DeletableKinds {
		f.logger.DebugContext(ctx, "deleting assets by prefix", "prefix", dir+"/", "resource_type", kind)
		if err := f.admin.DeleteAssetsByPrefix(ctx, dir+"/", kind); err != nil {
			return errs.PathError(errors.CodeUnableToDeleteDirectory, "delete directory", path, err)
		}
	}

	if err := f.admin.DeleteFolder(ctx, dir); err != nil {
		translated := errs.Translate(err)
		if errors.HasCode(translated, errors.CodeNotFound) {
			return nil
		}
		return errs.PathError(errors.CodeUnableToDeleteDirectory, "delete directory", path, translated)
	}
	return nil
}

// Move renames the asset at source to destination, overwriting any asset
// there, then removes whatever is left at source. Cleanup failures are
// logged, not returned.
func (f *FS) Move(ctx context.Context, source, destination string, _ ...core.Option) error {
	res, err := f.find(ctx, source)
	if err != nil {
		return errs.MoveError(errors.CodeUnableToMoveFile, "move", source, destination, err)
	}
	if res == nil {
		return errs.MoveError(errors.CodeUnableToMoveFile, "move", source, destination, errs.NotFound(source))
	}

	to := f.publicID(destination)
	if to == "" {
		return errs.MoveError(errors.CodeUnableToMoveFile, "move", source, destination,
			errors.New(errors.CodeInvalidInput, "destination is empty"))
	}
	if to == res.PublicID {
		return nil
	}

	f.logger.DebugContext(ctx, "renaming asset", "from", res.PublicID, "to", to, "resource_type", res.ResourceType)
	if _, err := f.uploader.Rename(ctx, res.PublicID, to, api.RenameParams{
		ResourceType: res.ResourceType,
		Overwrite:    true,
	}); err != nil {
		return errs.MoveError(errors.CodeUnableToMoveFile, "move", source, destination, err)
	}

	if err := f.Delete(ctx, source); err != nil {
		f.logger.WarnContext(ctx, "move cleanup failed", "path", source, "error", err)
	}
	return nil
}

// Copy always fails: the platform has no server-side copy.
func (f *FS) Copy(_ context.Context, source, destination string, _ ...core.Option) error {
	return errs.MoveError(errors.CodeUnableToCopyFile, "copy", source, destination, core.ErrUnsupported)
}

// SetVisibility fails unless the filesystem was configured with
// VisibilityIgnore, in which case it does nothing.
func (f *FS) SetVisibility(_ context.Context, path, _ string) error {
	if f.visibility == VisibilityIgnore {
		return nil
	}
	return errs.PathError(errors.CodeUnableToSetVisibility, "set visibility", path, core.ErrUnsupported)
}

// Visibility always fails.
func (f *FS) Visibility(_ context.Context, path string) (string, error) {
	return "", errs.PathError(errors.CodeUnableToRetrieveMetadata, "visibility", path, core.ErrUnsupported)
}

// MimeType always fails.
func (f *FS) MimeType(_ context.Context, path string) (string, error) {
	return "", errs.PathError(errors.CodeUnableToRetrieveMetadata, "mime type", path, core.ErrUnsupported)
}

// FileExists reports whether an asset exists at path.
func (f *FS) FileExists(ctx context.Context, path string) (bool, error) {
	res, err := f.find(ctx, path)
	if err != nil {
		return false, errs.PathError(errors.CodeUnableToCheckExistence, "file exists", path, err)
	}
	return res != nil, nil
}

// Metadata returns the attributes of the asset at path. A missing asset
// yields CodeUnableToRetrieveMetadata with a CodeNotFound cause.
func (f *FS) Metadata(ctx context.Context, path string) (*core.FileAttributes, error) {
	res, err := f.find(ctx, path)
	if err != nil {
		return nil, errs.PathError(errors.CodeUnableToRetrieveMetadata, "metadata", path, err)
	}
	if res == nil {
		return nil, errs.PathError(errors.CodeUnableToRetrieveMetadata, "metadata", path, errs.NotFound(path))
	}
	return fileAttributes(pathutil.Normalize(path), res), nil
}

// LastModified returns the creation time of the asset.
func (f *FS) LastModified(ctx context.Context, path string) (time.Time, error) {
	attrs, err := f.Metadata(ctx, path)
	if err != nil {
		return time.Time{}, err
	}
	return attrs.LastModified(), nil
}

// FileSize returns the stored size of the asset in bytes.
func (f *FS) FileSize(ctx context.Context, path string) (int64, error) {
	attrs, err := f.Metadata(ctx, path)
	if err != nil {
		return 0, err
	}
	return attrs.Size(), nil
}

// CreateDirectory creates the folder at path. Existing folders and the
// root are accepted.
func (f *FS) CreateDirectory(ctx context.Context, path string, _ ...core.Option) error {
	dir := f.joinPath(path)
	if dir == "" {
		return nil
	}

	f.logger.DebugContext(ctx, "creating folder", "path", path, "folder", dir)
	if err := f.admin.CreateFolder(ctx, dir); err != nil {
		return errs.PathError(errors.CodeUnableToCreateDirectory, "create directory", path, err)
	}
	return nil
}

// Read returns the content of the asset at path.
func (f *FS) Read(ctx context.Context, path string) ([]byte, error) {
	body, err := f.ReadStream(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, errs.PathError(errors.CodeUnableToReadFile, "read", path, err)
	}
	return data, nil
}

// ReadStream opens the delivery URL of the asset at path.
// The caller must close the returned reader.
func (f *FS) ReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	res, err := f.find(ctx, path)
	if err != nil {
		return nil, errs.PathError(errors.CodeUnableToReadFile, "read", path, err)
	}
	if res == nil {
		return nil, errs.PathError(errors.CodeUnableToReadFile, "read", path, errs.NotFound(path))
	}

	url := res.SecureURL
	if url == "" {
		url = res.URL
	}
	if url == "" {
		return nil, errs.PathError(errors.CodeUnableToReadFile, "read", path,
			errors.Newf(errors.CodeInternal, "asset %s has no delivery url", res.PublicID))
	}

	f.logger.DebugContext(ctx, "fetching asset", "path", path, "public_id", res.PublicID)
	body, err := f.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, errs.PathError(errors.CodeUnableToReadFile, "read", path, err)
	}
	return body, nil
}

// fileAttributes converts a resource record to attributes reported at p.
func fileAttributes(p string, res *api.Resource) *core.FileAttributes {
	version := res.Version
	if version == 0 {
		version = 1
	}
	url := res.SecureURL
	if url == "" {
		url = res.URL
	}

	return &core.FileAttributes{
		FilePath:         p,
		FileSize:         res.Bytes,
		FileLastModified: res.CreatedAt,
		FileVersion:      version,
		FileExtra: map[string]any{
			"public_id":     res.PublicID,
			"resource_type": string(res.ResourceType),
			"format":        res.Format,
			"url":           url,
		},
	}
}

// Compile-time interface check.
var _ core.FS = (*FS)(nil)
