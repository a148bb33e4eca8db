// Package cldtest provides an in-memory implementation of the Cloudinary
// capabilities for tests.
//
// Server honours resource kinds, implicit folder creation, exact and folder
// search expressions (with escaping), cursor pagination, injected failures
// and a call log:
//
//	srv := cldtest.NewServer(cldtest.WithPageSize(2))
//	store, err := cloudinary.New(cloudinary.Config{
//	    Uploader: srv, Admin: srv, Searcher: srv, Fetcher: srv,
//	})
package cldtest

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jmgilman/go/cldfs/fs/cloudinary/api"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/internal/datauri"
)

// DeliveryBase is the root of the URLs the server hands out.
const DeliveryBase = "res.cloudinary.test/demo"

// Method names accepted by FailOn and recorded in Calls.
const (
	MethodUpload               = "Upload"
	MethodRename               = "Rename"
	MethodDeleteAssets         = "DeleteAssets"
	MethodDeleteAssetsByPrefix = "DeleteAssetsByPrefix"
	MethodCreateFolder         = "CreateFolder"
	MethodDeleteFolder         = "DeleteFolder"
	MethodSubFolders           = "SubFolders"
	MethodRootFolders          = "RootFolders"
	MethodSearch               = "Search"
	MethodFetch                = "Fetch"
)

// Call is one recorded capability invocation.
type Call struct {
	Method string
	Args   []string
}

type assetKey struct {
	kind     api.ResourceKind
	publicID string
}

type asset struct {
	res  api.Resource
	data []byte
}

// Option configures a Server.
type Option func(*Server)

// WithPageSize caps every search and folder page at n entries.
func WithPageSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithClock overrides the time source for created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// Server is an in-memory Uploader, Admin, Searcher and Fetcher.
// It is safe for concurrent use.
type Server struct {
	mu       sync.Mutex
	assets   map[assetKey]*asset
	folders  map[string]bool
	failures map[string]error
	calls    []Call
	pageSize int
	version  int64
	now      func() time.Time
}

// NewServer creates an empty Server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		assets:   make(map[assetKey]*asset),
		folders:  make(map[string]bool),
		failures: make(map[string]error),
		pageSize: 500,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailOn makes every call of method return err until ClearFailures.
func (s *Server) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method] = err
}

// ClearFailures removes all injected failures.
func (s *Server) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.failures)
}

// Calls returns a copy of the call log.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// CallCount returns how many times method was invoked.
func (s *Server) CallCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// ResetCalls clears the call log.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Asset returns the stored record and content for publicID in any kind.
func (s *Server) Asset(publicID string) (api.Resource, []byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, kind := range api.DeletableKinds {
		if a, ok := s.assets[assetKey{kind, publicID}]; ok {
			return a.res, bytes.Clone(a.data), true
		}
	}
	return api.Resource{}, nil, false
}

// PublicIDs returns every stored identifier, sorted.
func (s *Server) PublicIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.assets))
	for k := range s.assets {
		ids = append(ids, k.publicID)
	}
	sort.Strings(ids)
	return ids
}

// Folders returns every folder path, sorted.
func (s *Server) Folders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.folders))
	for f := range s.folders {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// begin records a call and returns its injected failure, if any.
// The caller must hold s.mu.
func (s *Server) begin(method string, args ...string) error {
	s.calls = append(s.calls, Call{Method: method, Args: args})
	return s.failures[method]
}

// Upload stores a data URI.
func (s *Server) Upload(ctx context.Context, file string, params api.UploadParams) (*api.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(MethodUpload, params.PublicID, string(params.ResourceType), strconv.FormatBool(params.Async)); err != nil {
		return nil, err
	}

	mimeType, data, err := datauri.Decode(file)
	if err != nil {
		return nil, &api.Error{StatusCode: http.StatusBadRequest, Message: "Invalid file: " + err.Error()}
	}
	if len(data) == 0 {
		return nil, &api.Error{StatusCode: http.StatusBadRequest, Message: "Empty file"}
	}
	if params.PublicID == "" {
		return nil, &api.Error{StatusCode: http.StatusBadRequest, Message: "Missing public_id"}
	}

	kind := params.ResourceType
	if kind == "" || kind == api.KindAuto {
		kind = kindFor(mimeType)
	}
	key := assetKey{kind, params.PublicID}
	if existing, ok := s.assets[key]; ok && !params.Overwrite {
		res := existing.res
		return &res, nil
	}

	s.version++
	res := api.Resource{
		PublicID:     params.PublicID,
		ResourceType: kind,
		Type:         "upload",
		Format:       formatFor(kind, mimeType),
		Bytes:        int64(len(data)),
		CreatedAt:    s.now().UTC().Truncate(time.Second),
		Version:      s.version,
		Folder:       parent(params.PublicID),
	}
	setURLs(&res)
	s.assets[key] = &asset{res: res, data: bytes.Clone(data)}
	s.addFolders(res.Folder)

	return &res, nil
}

// Rename moves an asset to a new identifier within its kind.
func (s *Server) Rename(ctx context.Context, from, to string, params api.RenameParams) (*api.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(MethodRename, from, to, string(params.ResourceType)); err != nil {
		return nil, err
	}

	kind := params.ResourceType
	if kind == "" || kind == api.KindAuto {
		kind = api.KindImage
	}
	src, ok := s.assets[assetKey{kind, from}]
	if !ok {
		return nil, &api.Error{StatusCode: http.StatusNotFound, Message: "Resource not found - " + from}
	}
	dstKey := assetKey{kind, to}
	if _, exists := s.assets[dstKey]; exists && !params.Overwrite && from != to {
		return nil, &api.Error{StatusCode: http.StatusBadRequest, Message: "to_public_id " + to + " already exists"}
	}

	delete(s.assets, assetKey{kind, from})
	src.res.PublicID = to
	src.res.Folder = parent(to)
	setURLs(&src.res)
	s.assets[dstKey] = src
	s.addFolders(src.res.Folder)

	res := src.res
	return &res, nil
}

// DeleteAssets removes the given identifiers of one kind. Missing ones are ignored.
func (s *Server) DeleteAssets(ctx context.Context, publicIDs []string, kind api.ResourceKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(MethodDeleteAssets, append([]string{string(kind)}, publicIDs...)...); err != nil {
		return err
	}

	for _, id := range publicIDs {
		delete(s.assets, assetKey{normalizeKind(kind), id})
	}
	return nil
}

// DeleteAssetsByPrefix removes every identifier of one kind starting with prefix.
func (s *Server) DeleteAssetsByPrefix(ctx context.Context, prefix string, kind api.ResourceKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(MethodDeleteAssetsByPrefix, prefix, string(kind)); err != nil {
		return err
	}

	kind = normalizeKind(kind)
	for k := range s.assets {
		if k.kind == kind && strings.HasPrefix(k.publicID, prefix) {
			delete(s.assets, k)
		}
	}
	return nil
}

// CreateFolder creates path and its parents.
func (s *Server) CreateFolder(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(MethodCreateFolder, path); err != nil {
		return err
	}

	path = strings.Trim(path, "/")
	if path == "" {
		return &api.Error{StatusCode: http.StatusBadRequest, Message: "Folder path is required"}
	}
	s.addFolders(path)
	return nil
}

// DeleteFolder removes a folder that holds no assets, along with its
// (empty) descendant folders.
func (s *Server) DeleteFolder(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(MethodDeleteFolder, path); err != nil {
		return err
	}

	path = strings.Trim(path, "/")
	if !s.folders[path] {
		return &api.Error{StatusCode: http.StatusNotFound, Message: "Can't find folder with path " + path}
	}
	for k := range s.assets {
		if inTree(parent(k.publicID), path) {
			return &api.Error{StatusCode: http.StatusBadRequest, Message: "Folder is not empty"}
		}
	}
	for f := range s.folders {
		if inTree(f, path) {
			delete(s.folders, f)
		}
	}
	return nil
}

// SubFolders lists one page of the immediate children of path.
func (s *Server) SubFolders(ctx context.Context, path, cursor string) (*api.FolderPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(MethodSubFolders, path, cursor); err != nil {
		return nil, err
	}

	path = strings.Trim(path, "/")
	if !s.folders[path] {
		return nil, &api.Error{StatusCode: http.StatusNotFound, Message: "Can't find folder with path " + path}
	}
	return s.folderPage(path, cursor)
}

// RootFolders lists one page of the top-level folders.
func (s *Server) RootFolders(ctx context.Context, cursor string) (*api.FolderPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(MethodRootFolders, cursor); err != nil {
		return nil, err
	}
	return s.folderPage("", cursor)
}

func (s *Server) folderPage(path, cursor string) (*api.FolderPage, error) {
	var all []api.Folder
	for f := range s.folders {
		if parent(f) == path {
			all = append(all, api.Folder{Name: base(f), Path: f})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Path < all[j].Path })

	start, err := decodeCursor(cursor)
	if err != nil {
		return nil, err
	}
	page, next := paginate(all, start, s.pageSize)
	return &api.FolderPage{Folders: page, NextCursor: next, TotalCount: len(all)}, nil
}

// Search runs one page of an expression. Supported expressions are the
// empty expression, public_id:<id>, folder:<path> and folder:<path>/*.
func (s *Server) Search(ctx context.Context, query api.SearchQuery) (*api.SearchPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(MethodSearch, query.Expression, query.NextCursor); err != nil {
		return nil, err
	}

	match, err := compile(query.Expression)
	if err != nil {
		return nil, err
	}

	var all []api.Resource
	for _, a := range s.assets {
		if match(a.res) {
			all = append(all, a.res)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].PublicID != all[j].PublicID {
			return all[i].PublicID < all[j].PublicID
		}
		return all[i].ResourceType < all[j].ResourceType
	})

	limit := query.MaxResults
	if limit <= 0 {
		limit = 50
	}
	limit = min(limit, s.pageSize)

	start, err := decodeCursor(query.NextCursor)
	if err != nil {
		return nil, err
	}
	page, next := paginate(all, start, limit)
	return &api.SearchPage{TotalCount: len(all), Resources: page, NextCursor: next}, nil
}

// Fetch returns the content behind a delivery URL.
func (s *Server) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(MethodFetch, url); err != nil {
		return nil, err
	}

	for _, a := range s.assets {
		if a.res.URL == url || a.res.SecureURL == url {
			return io.NopCloser(bytes.NewReader(bytes.Clone(a.data))), nil
		}
	}
	return nil, &api.Error{StatusCode: http.StatusNotFound, Message: "Resource not found"}
}

// addFolders marks path and its ancestors as folders. The caller must hold s.mu.
func (s *Server) addFolders(path string) {
	for path != "" {
		s.folders[path] = true
		path = parent(path)
	}
}

// compile turns a search expression into a predicate.
func compile(expr string) (func(api.Resource) bool, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return func(api.Resource) bool { return true }, nil
	}

	field, value, ok := strings.Cut(expr, ":")
	if !ok {
		return nil, &api.Error{StatusCode: http.StatusBadRequest, Message: "unsupported expression " + expr}
	}

	switch field {
	case "public_id":
		id := unescape(value)
		return func(r api.Resource) bool { return r.PublicID == id }, nil
	case "folder":
		if dir, deep := strings.CutSuffix(value, "/*"); deep {
			dir = unescape(dir)
			return func(r api.Resource) bool { return inTree(r.Folder, dir) }, nil
		}
		dir := unescape(value)
		return func(r api.Resource) bool { return r.Folder == dir }, nil
	default:
		return nil, &api.Error{StatusCode: http.StatusBadRequest, Message: "unsupported field " + field}
	}
}

// unescape drops the backslash in front of every escaped character.
func unescape(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

func paginate[T any](all []T, start, size int) ([]T, string) {
	if start >= len(all) {
		return nil, ""
	}
	end := min(start+size, len(all))
	next := ""
	if end < len(all) {
		next = encodeCursor(end)
	}
	return all[start:end], next
}

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte("offset:" + strconv.Itoa(offset)))
}

func decodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, &api.Error{StatusCode: http.StatusBadRequest, Message: "invalid next_cursor"}
	}
	n, err := strconv.Atoi(strings.TrimPrefix(string(raw), "offset:"))
	if err != nil || n < 0 {
		return 0, &api.Error{StatusCode: http.StatusBadRequest, Message: "invalid next_cursor"}
	}
	return n, nil
}

func kindFor(mimeType string) api.ResourceKind {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return api.KindImage
	case strings.HasPrefix(mimeType, "video/"), strings.HasPrefix(mimeType, "audio/"):
		return api.KindVideo
	default:
		return api.KindRaw
	}
}

func normalizeKind(kind api.ResourceKind) api.ResourceKind {
	if kind == "" || kind == api.KindAuto {
		return api.KindImage
	}
	return kind
}

// formatFor derives the stored format of media uploads. Raw assets keep
// their extension in the identifier and report no format.
func formatFor(kind api.ResourceKind, mimeType string) string {
	if kind == api.KindRaw {
		return ""
	}
	if m := mimetype.Lookup(mimeType); m != nil {
		return strings.TrimPrefix(m.Extension(), ".")
	}
	return ""
}

func setURLs(res *api.Resource) {
	name := res.PublicID
	if res.Format != "" {
		name += "." + res.Format
	}
	path := fmt.Sprintf("%s/%s/upload/v%d/%s", DeliveryBase, res.ResourceType, res.Version, name)
	res.URL = "http://" + path
	res.SecureURL = "https://" + path
}

func parent(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return ""
}

func base(p string) string {
	return p[strings.LastIndexByte(p, '/')+1:]
}

// inTree reports whether folder is dir or below it.
func inTree(folder, dir string) bool {
	return folder == dir || strings.HasPrefix(folder, dir+"/")
}

// Compile-time interface checks.
var (
	_ api.Uploader = (*Server)(nil)
	_ api.Admin    = (*Server)(nil)
	_ api.Searcher = (*Server)(nil)
	_ api.Fetcher  = (*Server)(nil)
)
