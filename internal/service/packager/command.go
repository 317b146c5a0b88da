package packager

import (
	"context"
	"fmt"

	"github.com/oshokin/gui-pack/internal/config"
	"github.com/oshokin/gui-pack/internal/logger"
	"github.com/oshokin/gui-pack/internal/repository/assets"
)

// Options contains inputs for the packager entry point.
type Options struct {
	// ConfigPath is an optional YAML file overriding the fixed directory layout.
	ConfigPath string
}

// Run builds the bundle using the fixed layout, or the one from Options.ConfigPath.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "gui-pack")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	pkg := newPackager(cfg.Layout(), assets.NewFileRepository())

	report, err := pkg.Run(ctx)
	if err != nil {
		return fmt.Errorf("packager failed: %w", err)
	}

	pkg.printSummary(ctx, report)

	logger.Info(ctx, "Packager completed successfully")

	return nil
}
