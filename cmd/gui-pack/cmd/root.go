package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/gui-pack/internal/logger"
	"github.com/oshokin/gui-pack/internal/service/packager"
	"github.com/oshokin/gui-pack/internal/version"
)

var (
	// configPath to an optional YAML file overriding the directory layout.
	configPath string
	// logLevel is the minimum level of log messages.
	logLevel string

	// errUnknownLogLevel is returned for a --log-level value zap does not know.
	errUnknownLogLevel = errors.New("unknown log level")

	// rootCmd represents the base command for building the bundle.
	rootCmd = &cobra.Command{
		Use:   "gui-pack",
		Short: "Build the web GUI bundle into the firmware data directory",
		Long: `Builds the web GUI bundle served by the firmware.

Files from ./css and ./js are copied into ./output and replaced there by gzip
compressed copies (<name>.gz). Files from ./html are then added uncompressed.
Finally the data directory one level above the gui-pack executable (../data)
is deleted, recreated and filled with the contents of ./output.

Both ./output and the data directory are destroyed on every run.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			level, ok := logger.ParseLogLevel(logLevel)
			if !ok {
				return fmt.Errorf("%w: %q", errUnknownLogLevel, logLevel)
			}

			logger.SetLevel(level)

			options := &packager.Options{
				ConfigPath: configPath,
			}

			return packager.Run(ctx, options)
		},
	}
)

// Execute runs the gui-pack CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.ErrorKV(context.Background(), "gui-pack failed", "error", err)
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "optional YAML file overriding the directory layout")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "minimum log level (debug, info, warn, error)")
}
