package packager

import (
	"context"
	"fmt"
	"strings"

	"github.com/oshokin/gui-pack/internal/domain/bundle"
	"github.com/oshokin/gui-pack/internal/logger"
	"github.com/oshokin/gui-pack/internal/repository/assets"
)

// packager runs the bundle pipeline over a fixed layout.
// It is unexported; callers should use Run, which resolves the layout first.
type packager struct {
	// layout names the source, staging and destination directories.
	layout bundle.Layout
	// repo performs the filesystem operations.
	repo assets.Repository
}

// newPackager creates a packager for the layout backed by repo.
func newPackager(layout bundle.Layout, repo assets.Repository) *packager {
	return &packager{
		layout: layout,
		repo:   repo,
	}
}

// Run executes the pipeline steps in order and stops at the first error.
// Directories already reset or partially filled are left as they are.
func (p *packager) Run(ctx context.Context) (*bundle.Report, error) {
	report := &bundle.Report{
		OutputDir: p.layout.OutputDir,
		DataDir:   p.layout.DataDir,
	}

	logger.InfoKV(ctx, "Resetting output directory", "path", p.layout.OutputDir)

	if err := p.repo.ResetDirectory(ctx, p.layout.OutputDir); err != nil {
		return nil, fmt.Errorf("reset output directory: %w", err)
	}

	if err := p.stageCompressed(ctx, report); err != nil {
		return nil, err
	}

	logger.InfoKV(ctx, "Copying pages", "source", p.layout.HTMLDir)

	pages, err := p.repo.Copy(ctx, p.layout.HTMLDir, p.layout.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("copy html: %w", err)
	}

	report.Plain = pages

	logger.InfoKV(ctx, "Resetting data directory", "path", p.layout.DataDir)

	if err = p.repo.ResetDirectory(ctx, p.layout.DataDir); err != nil {
		return nil, fmt.Errorf("reset data directory: %w", err)
	}

	logger.InfoKV(ctx, "Publishing bundle", "source", p.layout.OutputDir, "target", p.layout.DataDir)

	if _, err = p.repo.Copy(ctx, p.layout.OutputDir, p.layout.DataDir); err != nil {
		return nil, fmt.Errorf("copy output to data: %w", err)
	}

	return report, nil
}

// stageCompressed copies stylesheets then scripts into the output directory and
// compresses everything found there afterwards.
func (p *packager) stageCompressed(ctx context.Context, report *bundle.Report) error {
	logger.InfoKV(ctx, "Copying stylesheets", "source", p.layout.CSSDir)

	stylesheets, err := p.repo.Copy(ctx, p.layout.CSSDir, p.layout.OutputDir)
	if err != nil {
		return fmt.Errorf("copy css: %w", err)
	}

	logger.InfoKV(ctx, "Copying scripts", "source", p.layout.JSDir)

	scripts, err := p.repo.Copy(ctx, p.layout.JSDir, p.layout.OutputDir)
	if err != nil {
		return fmt.Errorf("copy js: %w", err)
	}

	p.warnCollisions(ctx, stylesheets, scripts)

	staged, err := p.repo.List(ctx, p.layout.OutputDir)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Compressing staged files", "count", len(staged))

	for _, name := range staged {
		if bundle.IsCompressed(name) {
			logger.WarnKV(ctx, "Source is already compressed and will be compressed again", "name", name)
		}

		artifact, err := p.repo.CompressAndReplace(ctx, p.layout.OutputDir, name)
		if err != nil {
			return err
		}

		report.Compressed = append(report.Compressed, *artifact)
	}

	return nil
}

// warnCollisions logs every script that replaced a stylesheet of the same name.
func (p *packager) warnCollisions(ctx context.Context, stylesheets, scripts []string) {
	seen := make(map[string]struct{}, len(stylesheets))
	for _, name := range stylesheets {
		seen[name] = struct{}{}
	}

	for _, name := range scripts {
		if _, ok := seen[name]; ok {
			logger.WarnKV(ctx, "Script overwrote a stylesheet with the same name",
				"name", name,
				"kept", p.layout.JSDir)
		}
	}
}

// printSummary logs the published files with their compressed sizes.
func (p *packager) printSummary(ctx context.Context, report *bundle.Report) {
	sizes := make(map[string]string, len(report.Compressed))
	for _, artifact := range report.Compressed {
		sizes[artifact.Name] = fmt.Sprintf(" (%d -> %d bytes, %.0f%%)",
			artifact.OriginalSize, artifact.CompressedSize, artifact.Ratio()*100)
	}

	var builder strings.Builder

	builder.WriteString("The following files were published to ")
	builder.WriteString(report.DataDir)
	builder.WriteString(":")

	for _, name := range report.Files() {
		builder.WriteString("\n")
		builder.WriteString(name)
		builder.WriteString(sizes[name])
	}

	logger.Info(ctx, builder.String())
}
