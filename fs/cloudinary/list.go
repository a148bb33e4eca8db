package cloudinary

import (
	"context"
	"iter"

	"github.com/jmgilman/go/cldfs/errors"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/api"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/internal/errs"
	"github.com/jmgilman/go/cldfs/fs/cloudinary/internal/pathutil"
	"github.com/jmgilman/go/cldfs/fs/core"
)

// searchPageSize is the largest page the search endpoint returns.
const searchPageSize = 500

// ListContents yields the files under path, then its immediate
// sub-folders as directories. With deep set, files of every nested folder
// are included. All search pages are fetched before the first file is
// yielded. A folder that does not exist lists as empty.
func (f *FS) ListContents(ctx context.Context, path string, deep bool) iter.Seq2[core.StorageAttributes, error] {
	return func(yield func(core.StorageAttributes, error) bool) {
		dir := f.joinPath(path)

		resources, err := f.searchAll(ctx, folderExpression(dir, deep))
		if err != nil {
			yield(nil, errs.PathError(errors.CodeUnableToListContents, "list contents", path, err))
			return
		}

		for i := range resources {
			res := &resources[i]
			// Without a prefix the root listing is unfiltered; keep only
			// top-level assets unless deep.
			if dir == "" && !deep && pathutil.Parent(res.PublicID) != "" {
				continue
			}
			if !yield(f.listedFile(res), nil) {
				return
			}
		}

		folders, err := f.folders(ctx, dir)
		if err != nil {
			yield(nil, errs.PathError(errors.CodeUnableToListContents, "list contents", path, err))
			return
		}
		for _, folder := range folders {
			attrs := &core.DirectoryAttributes{
				DirPath:  pathutil.StripPrefix(f.prefix, folder.Path),
				DirExtra: map[string]any{"name": folder.Name},
			}
			if !yield(attrs, nil) {
				return
			}
		}
	}
}

// DirectoryExists reports whether the folder at path exists, by looking
// for it among the sub-folders of its parent. The root always exists.
func (f *FS) DirectoryExists(ctx context.Context, path string) (bool, error) {
	if pathutil.Normalize(path) == "" {
		return true, nil
	}
	dir := f.joinPath(path)

	siblings, err := f.folders(ctx, pathutil.Parent(dir))
	if err != nil {
		return false, errs.PathError(errors.CodeUnableToCheckExistence, "directory exists", path, err)
	}
	for _, folder := range siblings {
		if folder.Path == dir {
			return true, nil
		}
	}
	return false, nil
}

// folderExpression builds the search expression for a listing of dir.
// The empty directory matches everything.
func folderExpression(dir string, deep bool) string {
	if dir == "" {
		return ""
	}
	expr := "folder:" + pathutil.EscapeQuery(dir)
	if deep {
		expr += "/*"
	}
	return expr
}

// searchAll drains every page of an expression.
func (f *FS) searchAll(ctx context.Context, expression string) ([]api.Resource, error) {
	var all []api.Resource
	cursor := ""
	for {
		f.logger.DebugContext(ctx, "searching", "expression", expression, "cursor", cursor)
		page, err := f.searcher.Search(ctx, api.SearchQuery{
			Expression: expression,
			MaxResults: searchPageSize,
			NextCursor: cursor,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Resources...)

		// An empty continuation token means there are no more pages.
		if page.NextCursor == "" {
			return all, nil
		}
		cursor = page.NextCursor
	}
}

// folders drains the sub-folder listing of dir, or of the root when dir is
// empty. A missing folder has no sub-folders.
func (f *FS) folders(ctx context.Context, dir string) ([]api.Folder, error) {
	var all []api.Folder
	cursor := ""
	for {
		var page *api.FolderPage
		var err error
		if dir == "" {
			page, err = f.admin.RootFolders(ctx, cursor)
		} else {
			page, err = f.admin.SubFolders(ctx, dir, cursor)
		}
		if err != nil {
			translated := errs.Translate(err)
			if errors.HasCode(translated, errors.CodeNotFound) {
				return nil, nil
			}
			return nil, translated
		}
		all = append(all, page.Folders...)

		if page.NextCursor == "" {
			return all, nil
		}
		cursor = page.NextCursor
	}
}

// listedFile converts a search hit to attributes. Media identifiers get
// their extension back from the reported format so the path round-trips.
func (f *FS) listedFile(res *api.Resource) *core.FileAttributes {
	id := res.PublicID
	if res.ResourceType != api.KindRaw {
		id = pathutil.WithFormat(id, res.Format)
	}
	return fileAttributes(pathutil.StripPrefix(f.prefix, id), res)
}
