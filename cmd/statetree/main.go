// Command statetree parses, renders and serves element templates.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/statetree/internal/config"
	treeerrors "github.com/vango-dev/statetree/internal/errors"
	"github.com/vango-dev/statetree/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		treeerrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds what every subcommand needs once flags are parsed.
type app struct {
	configDir string
	logLevel  string

	cfg    *config.Config
	logger *slog.Logger
	getenv func(string) string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{getenv: os.Getenv}

	rootCmd := &cobra.Command{
		Use:   "statetree",
		Short: "Work with element templates backed by a state tree",
		Long: `statetree loads element templates, instantiates them on a state tree
and renders the result as HTML.

Templates are read from the directory configured in statetree.yaml, or
from an S3 bucket when templates.s3.bucket is set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&a.configDir, "config", "C", ".", "Directory containing "+config.ConfigFileName)
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(
		parseCmd(a),
		renderCmd(a),
		serveCmd(a),
		versionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger.
func (a *app) setup(stderr io.Writer) error {
	cfg, err := config.Load(a.configDir)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}
