package main

import (
	"context"
	"path"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmgilman/go/cldfs/errors"
	"github.com/jmgilman/go/cldfs/fs/billy"
	"github.com/jmgilman/go/cldfs/fs/core"
)

func newPushCmd(a *app) *cobra.Command {
	var jobs int
	var async bool
	cmd := &cobra.Command{
		Use:   "push <local-dir> <remote-dir>",
		Short: "Upload a local directory tree",
		Args:  cobra.ExactArgs(2),
		RunE: a.withFS(func(cmd *cobra.Command, fs core.FS, args []string) error {
			n, err := push(cmd.Context(), billy.NewLocal(args[0]), fs, args[1], a.concurrency(jobs), core.WithAsync(async))
			printf(cmd.OutOrStdout(), "uploaded %d files\n", n)
			return err
		}),
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "concurrent uploads (default from config)")
	cmd.Flags().BoolVar(&async, "async", false, "let the platform finish processing in the background")
	return cmd
}

// push copies every file of src into dst under dir with at most limit
// uploads in flight. It stops at the first failure and returns the number
// of files uploaded before that.
func push(ctx context.Context, src, dst core.FS, dir string, limit int, opts ...core.Option) (int64, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var uploaded atomic.Int64
	for attrs, err := range src.ListContents(ctx, "", true) {
		if err != nil {
			_ = g.Wait()
			return uploaded.Load(), err
		}
		if attrs.IsDir() {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		name := attrs.Path()
		g.Go(func() error {
			r, err := src.ReadStream(ctx, name)
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()

			target := path.Join(dir, name)
			if err := dst.WriteStream(ctx, target, r, opts...); err != nil {
				return errors.WithContext(err, "source", name)
			}
			uploaded.Add(1)
			return nil
		})
	}
	err := g.Wait()
	return uploaded.Load(), err
}
