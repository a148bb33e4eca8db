package main

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmgilman/go/cldfs/fs/core"
)

func newLsCmd(a *app) *cobra.Command {
	var recursive, long bool
	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List files and directories",
		Args:  cobra.MaximumNArgs(1),
		RunE: a.withFS(func(cmd *cobra.Command, fs core.FS, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			out := cmd.OutOrStdout()
			for attrs, err := range fs.ListContents(cmd.Context(), dir, recursive) {
				if err != nil {
					return err
				}
				name := attrs.Path()
				if attrs.IsDir() {
					name += "/"
				}
				if !long {
					printf(out, "%s\n", name)
					continue
				}
				var size int64
				if f, ok := attrs.(*core.FileAttributes); ok {
					size = f.Size()
				}
				printf(out, "%10d  %s  %s\n", size, formatTime(attrs.LastModified()), name)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "include nested files")
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show size and time")
	return cmd
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-                   "
	}
	return t.UTC().Format(time.RFC3339)
}

func newCatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <path>",
		Short: "Print a file",
		Args:  cobra.ExactArgs(1),
		RunE: a.withFS(func(cmd *cobra.Command, fs core.FS, args []string) error {
			r, err := fs.ReadStream(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()
			_, err = io.Copy(cmd.OutOrStdout(), r)
			return err
		}),
	}
}

func newPutCmd(a *app) *cobra.Command {
	var async bool
	var metadata map[string]string
	cmd := &cobra.Command{
		Use:   "put <local> <remote>",
		Short: "Upload a local file (- reads stdin)",
		Args:  cobra.ExactArgs(2),
		RunE: a.withFS(func(cmd *cobra.Command, fs core.FS, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			opts := []core.Option{core.WithAsync(async)}
			for k, v := range metadata {
				opts = append(opts, core.WithMetadata(k, v))
			}
			return fs.WriteStream(cmd.Context(), args[1], r, opts...)
		}),
	}
	cmd.Flags().BoolVar(&async, "async", false, "let the platform finish processing in the background")
	cmd.Flags().StringToStringVar(&metadata, "meta", nil, "contextual metadata key=value pairs")
	return cmd
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <path>...",
		Short: "Delete files",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.withFS(func(cmd *cobra.Command, fs core.FS, args []string) error {
			for _, p := range args {
				if err := fs.Delete(cmd.Context(), p); err != nil {
					return err
				}
			}
			return nil
		}),
	}
}

func newRmdirCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rmdir <path>",
		Short: "Delete a directory and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: a.withFS(func(cmd *cobra.Command, fs core.FS, args []string) error {
			return fs.DeleteDirectory(cmd.Context(), args[0])
		}),
	}
}

func newMvCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <source> <destination>",
		Short: "Move a file",
		Args:  cobra.ExactArgs(2),
		RunE: a.withFS(func(cmd *cobra.Command, fs core.FS, args []string) error {
			return fs.Move(cmd.Context(), args[0], args[1])
		}),
	}
}

func newCpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cp <source> <destination>",
		Short: "Copy a file",
		Args:  cobra.ExactArgs(2),
		RunE: a.withFS(func(cmd *cobra.Command, fs core.FS, args []string) error {
			return fs.Copy(cmd.Context(), args[0], args[1])
		}),
	}
}

func newMkdirCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <path>...",
		Short: "Create directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.withFS(func(cmd *cobra.Command, fs core.FS, args []string) error {
			for _, p := range args {
				if err := fs.CreateDirectory(cmd.Context(), p); err != nil {
					return err
				}
			}
			return nil
		}),
	}
}

func newExistsCmd(a *app) *cobra.Command {
	var dir bool
	cmd := &cobra.Command{
		Use:   "exists <path>",
		Short: "Print whether a file (or with -d a directory) exists",
		Args:  cobra.ExactArgs(1),
		RunE: a.withFS(func(cmd *cobra.Command, fs core.FS, args []string) error {
			check := fs.FileExists
			if dir {
				check = fs.DirectoryExists
			}
			ok, err := check(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%t\n", ok)
			return nil
		}),
	}
	cmd.Flags().BoolVarP(&dir, "dir", "d", false, "check for a directory")
	return cmd
}
