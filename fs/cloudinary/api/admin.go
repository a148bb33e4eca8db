package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// folderPageSize is the largest page the folders endpoint returns.
const folderPageSize = 500

// DeleteAssets deletes the given uploaded assets of one kind.
func (c *Client) DeleteAssets(ctx context.Context, publicIDs []string, kind ResourceKind) error {
	q := url.Values{}
	for _, id := range publicIDs {
		q.Add("public_ids[]", id)
	}
	return c.do(ctx, http.MethodDelete, c.endpoint(resourcesPath(kind), q), "", nil, true, nil)
}

// DeleteAssetsByPrefix deletes every uploaded asset of one kind whose
// public identifier starts with prefix.
func (c *Client) DeleteAssetsByPrefix(ctx context.Context, prefix string, kind ResourceKind) error {
	q := url.Values{}
	q.Set("prefix", prefix)
	return c.do(ctx, http.MethodDelete, c.endpoint(resourcesPath(kind), q), "", nil, true, nil)
}

// CreateFolder creates path and any missing parents.
func (c *Client) CreateFolder(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodPost, c.endpoint(foldersPath(path), nil), "", nil, true, nil)
}

// DeleteFolder deletes an empty folder.
func (c *Client) DeleteFolder(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, c.endpoint(foldersPath(path), nil), "", nil, true, nil)
}

// SubFolders lists one page of the immediate children of path.
func (c *Client) SubFolders(ctx context.Context, path, cursor string) (*FolderPage, error) {
	return c.folders(ctx, foldersPath(path), cursor)
}

// RootFolders lists one page of the top-level folders.
func (c *Client) RootFolders(ctx context.Context, cursor string) (*FolderPage, error) {
	return c.folders(ctx, "folders", cursor)
}

func (c *Client) folders(ctx context.Context, path, cursor string) (*FolderPage, error) {
	q := url.Values{}
	q.Set("max_results", strconv.Itoa(folderPageSize))
	if cursor != "" {
		q.Set("next_cursor", cursor)
	}

	var page FolderPage
	if err := c.do(ctx, http.MethodGet, c.endpoint(path, q), "", nil, true, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func resourcesPath(kind ResourceKind) string {
	if kind == "" || kind == KindAuto {
		kind = KindImage
	}
	return "resources/" + string(kind) + "/upload"
}

// foldersPath escapes each segment of a folder path.
func foldersPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return "folders/" + strings.Join(segments, "/")
}
