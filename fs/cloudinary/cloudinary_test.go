package cloudinary

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/cldfs/errors"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/api"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/cldtest"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/internal/datauri"
	"github.com/jmgilman/go/cldfs/fs/core"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

var created = time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

func newTestFS(t *testing.T, cfg Config, opts ...cldtest.Option) (*FS, *cldtest.Server) {
	t.Helper()

	srv := cldtest.NewServer(append([]cldtest.Option{cldtest.WithClock(func() time.Time { return created })}, opts...)...)
	cfg.Uploader = srv
	cfg.Admin = srv
	cfg.Searcher = srv
	cfg.Fetcher = srv

	f, err := New(cfg)
	require.NoError(t, err)
	return f, srv
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "no credentials", cfg: Config{}, wantErr: true},
		{name: "partial credentials", cfg: Config{CloudName: "demo", APIKey: "k"}, wantErr: true},
		{name: "credentials", cfg: Config{CloudName: "demo", APIKey: "k", APISecret: "s"}},
		{name: "url", cfg: Config{URL: "cloudinary://k:s@demo"}},
		{name: "bad url", cfg: Config{URL: "http://k:s@demo"}, wantErr: true},
		{name: "bad visibility handling", cfg: Config{URL: "cloudinary://k:s@demo", VisibilityHandling: "loud"}, wantErr: true},
		{
			name: "injected capabilities",
			cfg: func() Config {
				srv := cldtest.NewServer()
				return Config{Uploader: srv, Admin: srv, Searcher: srv, Fetcher: srv}
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidConfig, errors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, core.FSTypeRemote, f.Type())
		})
	}
}

func TestWrite_ReadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		path string
		data []byte
	}{
		{name: "text", path: "notes/hello.txt", data: []byte("hello world")},
		{name: "binary", path: "bin/blob.dat", data: []byte{0x00, 0xff, 0x10, 0x80, 0x7f}},
		{name: "image", path: "images/cat.png", data: pngHeader},
		{name: "space in name", path: "test/foo bar.txt", data: []byte("spaced")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestFS(t, Config{})
			ctx := context.Background()

			require.NoError(t, f.Write(ctx, tt.path, tt.data))

			got, err := f.Read(ctx, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.data, got)
		})
	}
}

func TestWrite_Upload(t *testing.T) {
	f, srv := newTestFS(t, Config{URIPrefix: "/tenant/"})
	ctx := context.Background()

	require.NoError(t, f.Write(ctx, "images/cat.png", pngHeader, core.WithAsync(true)))

	calls := srv.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, cldtest.Call{Method: cldtest.MethodUpload, Args: []string{"tenant/images/cat", "auto", "true"}}, calls[0])

	res, _, ok := srv.Asset("tenant/images/cat")
	require.True(t, ok)
	assert.Equal(t, api.KindImage, res.ResourceType)
}

func TestWrite_KeepsNonMediaExtension(t *testing.T) {
	f, srv := newTestFS(t, Config{})
	require.NoError(t, f.Write(context.Background(), "docs/readme.txt", []byte("x")))
	assert.Equal(t, []string{"docs/readme.txt"}, srv.PublicIDs())
}

func TestWrite_Errors(t *testing.T) {
	f, srv := newTestFS(t, Config{})
	ctx := context.Background()

	srv.FailOn(cldtest.MethodUpload, &api.Error{StatusCode: 420, Message: "Rate Limit Exceeded"})
	err := f.Write(ctx, "a.txt", []byte("a"))
	assert.Equal(t, errors.CodeUnableToWriteFile, errors.GetCode(err))
	assert.True(t, errors.HasCode(err, errors.CodeRateLimit))
	assert.True(t, errors.IsRetryable(err))
	assert.Contains(t, err.Error(), "Rate Limit Exceeded")

	srv.ClearFailures()
	err = f.Write(ctx, "", []byte("a"))
	assert.Equal(t, errors.CodeUnableToWriteFile, errors.GetCode(err))
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))
}

func TestWrite_EmptyContentUnsupported(t *testing.T) {
	f, _ := newTestFS(t, Config{})
	err := f.Write(context.Background(), "empty.txt", nil)
	assert.Equal(t, errors.CodeUnableToWriteFile, errors.GetCode(err))
}

func TestWriteStream(t *testing.T) {
	f, _ := newTestFS(t, Config{})
	ctx := context.Background()

	require.NoError(t, f.WriteStream(ctx, "stream.txt", strings.NewReader("streamed")))
	got, err := f.Read(ctx, "stream.txt")
	require.NoError(t, err)
	assert.Equal(t, "streamed", string(got))

	err = f.WriteStream(ctx, "nil.txt", nil)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	err = f.WriteStream(ctx, "broken.txt", io.MultiReader(strings.NewReader("x"), errReader{}))
	assert.Equal(t, errors.CodeUnableToWriteFile, errors.GetCode(err))
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, stderrors.New("disk on fire") }

func TestDelete(t *testing.T) {
	f, srv := newTestFS(t, Config{})
	ctx := context.Background()
	require.NoError(t, f.Write(ctx, "images/cat.png", pngHeader))

	require.NoError(t, f.Delete(ctx, "images/cat.png"))
	assert.Empty(t, srv.PublicIDs())
	assert.Equal(t, cldtest.Call{Method: cldtest.MethodDeleteAssets, Args: []string{"image", "images/cat"}}, srv.Calls()[2])

	// Missing file is a no-op.
	srv.ResetCalls()
	require.NoError(t, f.Delete(ctx, "images/cat.png"))
	assert.Zero(t, srv.CallCount(cldtest.MethodDeleteAssets))
}

func TestDelete_Errors(t *testing.T) {
	f, srv := newTestFS(t, Config{})
	ctx := context.Background()
	require.NoError(t, f.Write(ctx, "a.txt", []byte("a")))

	srv.FailOn(cldtest.MethodDeleteAssets, &api.Error{StatusCode: http.StatusForbidden})
	err := f.Delete(ctx, "a.txt")
	assert.Equal(t, errors.CodeUnableToDeleteFile, errors.GetCode(err))
	assert.True(t, errors.HasCode(err, errors.CodeForbidden))

	srv.FailOn(cldtest.MethodSearch, stderrors.New("connection reset"))
	err = f.Delete(ctx, "a.txt")
	assert.Equal(t, errors.CodeUnableToDeleteFile, errors.GetCode(err))
	assert.True(t, errors.HasCode(err, errors.CodeNetwork))
}

func TestDeleteDirectory(t *testing.T) {
	f, srv := newTestFS(t, Config{URIPrefix: "p"})
	ctx := context.Background()
	require.NoError(t, f.Write(ctx, "dir/a.txt", []byte("a")))
	require.NoError(t, f.Write(ctx, "dir/sub/cat.png", pngHeader))
	require.NoError(t, f.Write(ctx, "dirx/keep.txt", []byte("k")))
	srv.ResetCalls()

	require.NoError(t, f.DeleteDirectory(ctx, "dir"))

	assert.Equal(t, []string{"p/dirx/keep.txt"}, srv.PublicIDs())
	assert.Equal(t, []string{"p", "p/dirx"}, srv.Folders())

	calls := srv.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, []string{"p/dir/", "raw"}, calls[0].Args)
	assert.Equal(t, []string{"p/dir/", "image"}, calls[1].Args)
	assert.Equal(t, []string{"p/dir/", "video"}, calls[2].Args)
	assert.Equal(t, cldtest.Call{Method: cldtest.MethodDeleteFolder, Args: []string{"p/dir"}}, calls[3])
}

func TestDeleteDirectory_Missing(t *testing.T) {
	f, _ := newTestFS(t, Config{})
	require.NoError(t, f.DeleteDirectory(context.Background(), "never-created"))
}

func TestDeleteDirectory_Errors(t *testing.T) {
	f, srv := newTestFS(t, Config{})
	ctx := context.Background()

	err := f.DeleteDirectory(ctx, "/")
	assert.Equal(t, errors.CodeUnableToDeleteDirectory, errors.GetCode(err))
	assert.True(t, errors.HasCode(err, errors.CodeInvalidInput))

	srv.FailOn(cldtest.MethodDeleteAssetsByPrefix, &api.Error{StatusCode: http.StatusInternalServerError})
	err = f.DeleteDirectory(ctx, "dir")
	assert.Equal(t, errors.CodeUnableToDeleteDirectory, errors.GetCode(err))
	assert.True(t, errors.IsRetryable(err))

	srv.ClearFailures()
	srv.FailOn(cldtest.MethodDeleteFolder, &api.Error{StatusCode: http.StatusBadRequest, Message: "Folder is not empty"})
	err = f.DeleteDirectory(ctx, "dir")
	assert.Equal(t, errors.CodeUnableToDeleteDirectory, errors.GetCode(err))
}

func TestMove(t *testing.T) {
	f, srv := newTestFS(t, Config{})
	ctx := context.Background()
	require.NoError(t, f.Write(ctx, "a.txt", []byte("payload")))

	require.NoError(t, f.Move(ctx, "a.txt", "moved/b.txt"))

	exists, err := f.FileExists(ctx, "a.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = f.FileExists(ctx, "moved/b.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := f.Read(ctx, "moved/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	assert.Equal(t, 1, srv.CallCount(cldtest.MethodRename))
}

func TestMove_Media(t *testing.T) {
	f, srv := newTestFS(t, Config{URIPrefix: "p"})
	ctx := context.Background()
	require.NoError(t, f.Write(ctx, "cat.png", pngHeader))

	require.NoError(t, f.Move(ctx, "cat.png", "pets/cat.png"))
	assert.Equal(t, []string{"p/pets/cat"}, srv.PublicIDs())

	calls := srv.Calls()
	var rename cldtest.Call
	for _, c := range calls {
		if c.Method == cldtest.MethodRename {
			rename = c
		}
	}
	assert.Equal(t, []string{"p/cat", "p/pets/cat", "image"}, rename.Args)
}

func TestMove_SameIdentifier(t *testing.T) {
	f, srv := newTestFS(t, Config{})
	ctx := context.Background()
	require.NoError(t, f.Write(ctx, "cat.png", pngHeader))

	// cat.png and cat.jpg share an identifier; the asset must survive.
	require.NoError(t, f.Move(ctx, "cat.png", "cat.jpg"))
	assert.Equal(t, []string{"cat"}, srv.PublicIDs())
	assert.Zero(t, srv.CallCount(cldtest.MethodRename))
}

func TestMove_Errors(t *testing.T) {
	f, srv := newTestFS(t, Config{})
	ctx := context.Background()

	err := f.Move(ctx, "missing.txt", "b.txt")
	assert.Equal(t, errors.CodeUnableToMoveFile, errors.GetCode(err))
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))

	require.NoError(t, f.Write(ctx, "a.txt", []byte("a")))
	srv.FailOn(cldtest.MethodRename, &api.Error{StatusCode: http.StatusBadRequest, Message: "bad"})
	err = f.Move(ctx, "a.txt", "b.txt")
	assert.Equal(t, errors.CodeUnableToMoveFile, errors.GetCode(err))

	var storageErr errors.StorageError
	require.True(t, stderrors.As(err, &storageErr))
	assert.Equal(t, "b.txt", storageErr.Context()["destination"])
}

// failingSearcher fails every search after the first n.
type failingSearcher struct {
	api.Searcher
	n int
}

func (s *failingSearcher) Search(ctx context.Context, q api.SearchQuery) (*api.SearchPage, error) {
	if s.n == 0 {
		return nil, stderrors.New("search unavailable")
	}
	s.n--
	return s.Searcher.Search(ctx, q)
}

func TestMove_CleanupFailureIsNotFatal(t *testing.T) {
	srv := cldtest.NewServer()
	var logs bytes.Buffer
	f, err := New(Config{
		Uploader: srv,
		Admin:    srv,
		Searcher: &failingSearcher{Searcher: srv, n: 1},
		Fetcher:  srv,
		Logger:   slog.New(slog.NewTextHandler(&logs, nil)),
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = srv.Upload(ctx, datauri.Encode([]byte("a")), api.UploadParams{PublicID: "a.txt", ResourceType: api.KindAuto})
	require.NoError(t, err)

	require.NoError(t, f.Move(ctx, "a.txt", "b.txt"))
	assert.Equal(t, []string{"b.txt"}, srv.PublicIDs())
	assert.Contains(t, logs.String(), "move cleanup failed")
}

func TestCopy_AlwaysFails(t *testing.T) {
	f, _ := newTestFS(t, Config{})
	ctx := context.Background()
	require.NoError(t, f.Write(ctx, "a.txt", []byte("a")))

	for _, src := range []string{"a.txt", "missing.txt"} {
		err := f.Copy(ctx, src, "b.txt")
		assert.Equal(t, errors.CodeUnableToCopyFile, errors.GetCode(err))
		assert.ErrorIs(t, err, core.ErrUnsupported)
	}
}

func TestVisibility(t *testing.T) {
	ctx := context.Background()

	throwing, _ := newTestFS(t, Config{})
	err := throwing.SetVisibility(ctx, "a.txt", core.VisibilityPrivate)
	assert.Equal(t, errors.CodeUnableToSetVisibility, errors.GetCode(err))

	ignoring, _ := newTestFS(t, Config{VisibilityHandling: VisibilityIgnore})
	assert.NoError(t, ignoring.SetVisibility(ctx, "a.txt", core.VisibilityPrivate))

	_, err = ignoring.Visibility(ctx, "a.txt")
	assert.Equal(t, errors.CodeUnableToRetrieveMetadata, errors.GetCode(err))

	_, err = ignoring.MimeType(ctx, "a.txt")
	assert.Equal(t, errors.CodeUnableToRetrieveMetadata, errors.GetCode(err))
}

func TestFileExists(t *testing.T) {
	f, srv := newTestFS(t, Config{URIPrefix: "p"})
	ctx := context.Background()
	require.NoError(t, f.Write(ctx, "x/(weird) name!.txt", []byte("w")))
	require.NoError(t, f.Write(ctx, "img.png", pngHeader))

	for path, want := range map[string]bool{
		"x/(weird) name!.txt": true,
		"img.png":             true,
		"img.jpg":             true,
		"nope.txt":            false,
		"":                    false,
	} {
		got, err := f.FileExists(ctx, path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	srv.FailOn(cldtest.MethodSearch, &api.Error{StatusCode: http.StatusUnauthorized})
	_, err := f.FileExists(ctx, "img.png")
	assert.Equal(t, errors.CodeUnableToCheckExistence, errors.GetCode(err))
	assert.True(t, errors.HasCode(err, errors.CodeUnauthorized))
}

func TestFileExists_EscapesExpression(t *testing.T) {
	f, srv := newTestFS(t, Config{})
	_, err := f.FileExists(context.Background(), "a b:c.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{`public_id:a\ b\:c.txt`, ""}, srv.Calls()[0].Args)
}

func TestMetadata(t *testing.T) {
	f, _ := newTestFS(t, Config{URIPrefix: "p"})
	ctx := context.Background()
	require.NoError(t, f.Write(ctx, "docs/a.txt", []byte("12345")))

	attrs, err := f.Metadata(ctx, "/docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "docs/a.txt", attrs.Path())
	assert.Equal(t, int64(5), attrs.Size())
	assert.Equal(t, created, attrs.LastModified())
	assert.Equal(t, int64(1), attrs.Version())
	assert.Equal(t, "p/docs/a.txt", attrs.Extra()["public_id"])
	assert.Equal(t, "raw", attrs.Extra()["resource_type"])

	size, err := f.FileSize(ctx, "docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	modified, err := f.LastModified(ctx, "docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, created, modified)
}

func TestMetadata_NotFound(t *testing.T) {
	f, _ := newTestFS(t, Config{})
	ctx := context.Background()

	_, err := f.Metadata(ctx, "missing.txt")
	assert.Equal(t, errors.CodeUnableToRetrieveMetadata, errors.GetCode(err))
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))

	_, err = f.FileSize(ctx, "missing.txt")
	assert.Equal(t, errors.CodeUnableToRetrieveMetadata, errors.GetCode(err))

	_, err = f.LastModified(ctx, "missing.txt")
	assert.Equal(t, errors.CodeUnableToRetrieveMetadata, errors.GetCode(err))
}

func TestCreateDirectory(t *testing.T) {
	f, srv := newTestFS(t, Config{URIPrefix: "p"})
	ctx := context.Background()

	require.NoError(t, f.CreateDirectory(ctx, "a/b"))
	require.NoError(t, f.CreateDirectory(ctx, "a/b"))
	require.NoError(t, f.CreateDirectory(ctx, ""))

	assert.Equal(t, []string{"p", "p/a", "p/a/b"}, srv.Folders())

	var dirs []string
	for attrs, err := range f.ListContents(ctx, "a", false) {
		require.NoError(t, err)
		dirs = append(dirs, attrs.Path())
	}
	assert.Equal(t, []string{"a/b"}, dirs)

	srv.FailOn(cldtest.MethodCreateFolder, &api.Error{StatusCode: http.StatusForbidden})
	err := f.CreateDirectory(ctx, "c")
	assert.Equal(t, errors.CodeUnableToCreateDirectory, errors.GetCode(err))
}

func TestDirectoryExists(t *testing.T) {
	f, srv := newTestFS(t, Config{}, cldtest.WithPageSize(1))
	ctx := context.Background()
	require.NoError(t, f.CreateDirectory(ctx, "a/b"))
	require.NoError(t, f.CreateDirectory(ctx, "a/c"))
	require.NoError(t, f.CreateDirectory(ctx, "z"))

	for path, want := range map[string]bool{
		"":      true,
		"a":     true,
		"z":     true,
		"a/b":   true,
		"a/c":   true,
		"a/d":   false,
		"q":     false,
		"q/r/s": false,
	} {
		got, err := f.DirectoryExists(ctx, path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	srv.FailOn(cldtest.MethodRootFolders, &api.Error{StatusCode: http.StatusServiceUnavailable})
	_, err := f.DirectoryExists(ctx, "a")
	assert.Equal(t, errors.CodeUnableToCheckExistence, errors.GetCode(err))
}

func TestReadStream(t *testing.T) {
	f, srv := newTestFS(t, Config{})
	ctx := context.Background()
	data := bytes.Repeat([]byte("abc"), 1000)
	require.NoError(t, f.Write(ctx, "big.txt", data))

	body, err := f.ReadStream(ctx, "big.txt")
	require.NoError(t, err)
	got, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, data, got)

	srv.FailOn(cldtest.MethodFetch, &api.Error{StatusCode: http.StatusNotFound})
	_, err = f.ReadStream(ctx, "big.txt")
	assert.Equal(t, errors.CodeUnableToReadFile, errors.GetCode(err))
}

func TestRead_NotFound(t *testing.T) {
	f, srv := newTestFS(t, Config{})

	got, err := f.Read(context.Background(), "missing.txt")
	assert.Nil(t, got)
	assert.Equal(t, errors.CodeUnableToReadFile, errors.GetCode(err))
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
	assert.Zero(t, srv.CallCount(cldtest.MethodFetch))
}
