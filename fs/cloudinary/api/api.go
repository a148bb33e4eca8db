package api

import (
	"context"
	"io"
	"time"
)

// ResourceKind is the Cloudinary resource type of an asset.
type ResourceKind string

const (
	KindImage ResourceKind = "image"
	KindVideo ResourceKind = "video"
	KindRaw   ResourceKind = "raw"
	// KindAuto lets the platform pick the kind on upload. It is never
	// reported back on a stored asset.
	KindAuto ResourceKind = "auto"
)

// DeletableKinds lists the concrete kinds, in the order directory
// deletion clears them.
var DeletableKinds = []ResourceKind{KindRaw, KindImage, KindVideo}

// Resource is the metadata record of a stored asset.
type Resource struct {
	PublicID     string       `json:"public_id"`
	ResourceType ResourceKind `json:"resource_type"`
	Type         string       `json:"type"`
	Format       string       `json:"format"`
	Bytes        int64        `json:"bytes"`
	CreatedAt    time.Time    `json:"created_at"`
	Version      int64        `json:"version"`
	URL          string       `json:"url"`
	SecureURL    string       `json:"secure_url"`
	Folder       string       `json:"folder"`
}

// UploadParams are the options of an upload call.
type UploadParams struct {
	PublicID     string
	ResourceType ResourceKind
	Overwrite    bool
	Async        bool
	// Context is stored as contextual metadata on the asset.
	Context map[string]string
}

// RenameParams are the options of a rename call.
type RenameParams struct {
	ResourceType ResourceKind
	Overwrite    bool
}

// SearchQuery is one page request against the search endpoint.
// An empty Expression matches every asset.
type SearchQuery struct {
	Expression string `json:"expression,omitempty"`
	MaxResults int    `json:"max_results,omitempty"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// SearchPage is one page of search results.
// An empty NextCursor means there are no more pages.
type SearchPage struct {
	TotalCount int        `json:"total_count"`
	Resources  []Resource `json:"resources"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// Folder is a folder entry.
type Folder struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// FolderPage is one page of a folder listing.
type FolderPage struct {
	Folders    []Folder `json:"folders"`
	NextCursor string   `json:"next_cursor,omitempty"`
	TotalCount int      `json:"total_count"`
}

// Uploader stores and renames assets.
type Uploader interface {
	// Upload stores file (a data URI or remote URL) under params.PublicID.
	Upload(ctx context.Context, file string, params UploadParams) (*Resource, error)

	// Rename changes the public identifier of an asset.
	Rename(ctx context.Context, fromPublicID, toPublicID string, params RenameParams) (*Resource, error)
}

// Admin manages assets and folders.
type Admin interface {
	DeleteAssets(ctx context.Context, publicIDs []string, kind ResourceKind) error
	DeleteAssetsByPrefix(ctx context.Context, prefix string, kind ResourceKind) error
	CreateFolder(ctx context.Context, path string) error
	DeleteFolder(ctx context.Context, path string) error
	// SubFolders lists the immediate children of path. cursor is "" for the first page.
	SubFolders(ctx context.Context, path, cursor string) (*FolderPage, error)
	// RootFolders lists the top-level folders. cursor is "" for the first page.
	RootFolders(ctx context.Context, cursor string) (*FolderPage, error)
}

// Searcher runs search expressions over asset metadata.
type Searcher interface {
	Search(ctx context.Context, query SearchQuery) (*SearchPage, error)
}

// Fetcher downloads the content behind a delivery URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}
