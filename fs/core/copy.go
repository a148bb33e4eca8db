package core

import (
	"context"
	"io/fs"
	"path"
	"strings"
)

// CopyFromFS uploads every file of a read-only filesystem (typically
// embed.FS or os.DirFS) into dst, preserving the directory structure
// below srcRoot under dstRoot.
//
// Use "." as srcRoot to copy the entire source filesystem and "" as
// dstRoot to copy into the destination root. Directories are not created
// explicitly; providers with emulated directories derive them from file paths.
//
// Example:
//
//	//go:embed assets/*
//	var assets embed.FS
//
//	err := core.CopyFromFS(ctx, assets, store, "assets", "static")
func CopyFromFS(ctx context.Context, src fs.FS, dst FS, srcRoot, dstRoot string, opts ...Option) error {
	return fs.WalkDir(src, srcRoot, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		data, err := fs.ReadFile(src, filePath)
		if err != nil {
			return err
		}

		dstPath := filePath
		if srcRoot != "." && srcRoot != "" {
			dstPath = strings.TrimPrefix(filePath, srcRoot)
			dstPath = strings.TrimPrefix(dstPath, "/")
		}
		if dstRoot = strings.Trim(dstRoot, "/"); dstRoot != "" {
			dstPath = path.Join(dstRoot, dstPath)
		}

		return dst.Write(ctx, dstPath, data, opts...)
	})
}
