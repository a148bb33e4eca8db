package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/go/cldfs/fs/core"
)

// fileInfo is the printable form of core.FileAttributes.
type fileInfo struct {
	Path         string         `json:"path" yaml:"path"`
	Size         int64          `json:"size" yaml:"size"`
	LastModified time.Time      `json:"last_modified" yaml:"last_modified"`
	MimeType     string         `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	Visibility   string         `json:"visibility,omitempty" yaml:"visibility,omitempty"`
	Version      int64          `json:"version,omitempty" yaml:"version,omitempty"`
	Extra        map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

func newFileInfo(a *core.FileAttributes) fileInfo {
	return fileInfo{
		Path:         a.Path(),
		Size:         a.Size(),
		LastModified: a.LastModified().UTC(),
		MimeType:     a.MimeType(),
		Visibility:   a.Visibility(),
		Version:      a.Version(),
		Extra:        a.Extra(),
	}
}

func newStatCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "stat <path>",
		Short: "Show file metadata",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(*cobra.Command, []string) error {
			switch output {
			case "text", "json", "yaml":
				return nil
			}
			return fmt.Errorf("unknown output format %q", output)
		},
		RunE: a.withFS(func(cmd *cobra.Command, fs core.FS, args []string) error {
			attrs, err := fs.Metadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeInfo(cmd.OutOrStdout(), output, newFileInfo(attrs))
		}),
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json, yaml")
	return cmd
}

func writeInfo(w io.Writer, format string, info fileInfo) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer func() { _ = enc.Close() }()
		return enc.Encode(info)
	}

	printf(w, "path:          %s\n", info.Path)
	printf(w, "size:          %d\n", info.Size)
	printf(w, "last modified: %s\n", formatTime(info.LastModified))
	printf(w, "mime type:     %s\n", info.MimeType)
	printf(w, "visibility:    %s\n", info.Visibility)
	if info.Version != 0 {
		printf(w, "version:       %d\n", info.Version)
	}
	return nil
}
