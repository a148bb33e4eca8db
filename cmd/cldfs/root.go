package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmgilman/go/cldfs/config"
	"github.com/jmgilman/go/cldfs/errors"
	"github.com/jmgilman/go/cldfs/fs/cloudinary"
	"github.com/jmgilman/go/cldfs/fs/core"
	"github.com/jmgilman/go/cldfs/internal/logging"
)

// app holds global flags and the filesystem factory shared by commands.
type app struct {
	configPath string
	prefix     string
	logLevel   string

	errorFormat string

	// cfg is set once open has loaded it.
	cfg *config.Config

	// open builds the remote filesystem. Tests replace it.
	open func(cmd *cobra.Command) (core.FS, error)

	closeLog func() error
}

func newApp() *app {
	a := &app{}
	a.open = a.openCloudinary
	return a
}

// openCloudinary loads configuration and builds the adapter from it.
func (a *app) openCloudinary(cmd *cobra.Command) (core.FS, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg

	level := cfg.Logging.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	out, closeLog, err := logging.OpenOutput(cfg.Logging.Output)
	if err != nil {
		return nil, err
	}
	a.closeLog = closeLog

	logger, err := logging.New(logging.Options{Level: level, Format: cfg.Logging.Format, Output: out})
	if err != nil {
		return nil, err
	}

	fsCfg, err := cfg.FSConfig(a.prefix, logger)
	if err != nil {
		return nil, err
	}
	logger.DebugContext(cmd.Context(), "opening filesystem", "prefix", fsCfg.URIPrefix, "command", cmd.Name())
	return cloudinary.New(fsCfg)
}

// concurrency resolves the push concurrency: flag, then config, then default.
func (a *app) concurrency(flag int) int {
	switch {
	case flag > 0:
		return flag
	case a.cfg != nil:
		return a.cfg.Push.Concurrency
	default:
		return config.DefaultPushConcurrency
	}
}

// withFS adapts a filesystem command to cobra's RunE.
func (a *app) withFS(run func(cmd *cobra.Command, fs core.FS, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		fs, err := a.open(cmd)
		if err != nil {
			return err
		}
		return run(cmd, fs, args)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "cldfs",
		Short:         "Use a Cloudinary product environment as a filesystem",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.closeLog != nil {
				return a.closeLog()
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", fmt.Sprintf("config file (default %s)", config.DefaultConfigPath()))
	flags.StringVar(&a.prefix, "prefix", "", "URI prefix overriding the configured one")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.errorFormat, "error-format", "text", "error report format: text, json")

	root.AddCommand(
		newLsCmd(a),
		newCatCmd(a),
		newPutCmd(a),
		newPushCmd(a),
		newRmCmd(a),
		newRmdirCmd(a),
		newMvCmd(a),
		newCpCmd(a),
		newMkdirCmd(a),
		newStatCmd(a),
		newExistsCmd(a),
		newConfigCmd(),
	)
	return root
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

// reportError writes err to w. The json format carries the error code,
// classification and context so scripts can branch on them.
func reportError(w io.Writer, format string, err error) {
	if format == "json" {
		enc := json.NewEncoder(w)
		if encErr := enc.Encode(errors.ToJSON(err)); encErr == nil {
			return
		}
	}
	printf(w, "error: %v\n", err)
}
