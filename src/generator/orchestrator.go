package generator

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"favicongen/src/builder"
	"favicongen/src/common"
	"favicongen/src/config"
)

// GenerationError is an infrastructure failure that aborts the whole run
type GenerationError struct {
	Step string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Step, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// errLegacySkipped marks the favicon.ico entry when no 32x32 favicon exists
var errLegacySkipped = errors.New("skipped: 32x32 favicon was not generated")

// Generate runs every platform generator in sequence and writes the metadata
// files. Per-file failures are recorded in the report; an error is returned
// only for invalid config or an output directory that cannot be created.
// Unset optional fields of cfg take their defaults; cfg itself is not modified.
// With a nil logger, output goes to stderr when cfg.Verbose is set and is
// discarded otherwise.
func Generate(in *config.Config, logger *slog.Logger) (*Report, error) {
	cfg := *in
	cfg.ApplyDefaults()

	if logger == nil {
		logger = defaultLogger(cfg.Verbose)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	filter, err := common.LookupFilter(cfg.Images.Filter)
	if err != nil {
		return nil, &config.ValidationError{Field: "images.filter", Message: err.Error()}
	}

	iconsDir := filepath.Join(cfg.OutputDir, IconsDir)
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, &GenerationError{Step: "create output directory", Err: err}
	}
	if err := os.MkdirAll(iconsDir, 0755); err != nil {
		return nil, &GenerationError{Step: "create icons directory", Err: err}
	}

	processor := common.NewImageProcessor(cfg.Fill(), filter, logger)
	processor.Concurrency = cfg.Images.Concurrency
	gen := NewGenerator(processor, cfg.Source, cfg.OutputDir, logger)

	logger.Info("🎨 Generating favicons", "source", cfg.Source, "output", cfg.OutputDir)

	report := &Report{}
	report.Favicons = gen.Favicons()
	report.LegacyIcon = packLegacy(report.Favicons, cfg.OutputDir, logger)
	report.AppleTouchIcons = gen.AppleTouchIcons()
	report.AndroidIcons = gen.AndroidIcons()
	report.MSTiles = gen.MSTiles()

	meta := builder.NewMetadataBuilder(builder.SiteFromConfig(&cfg), CatalogAssets(), logger)
	report.Manifest = meta.WriteManifest(cfg.OutputDir)
	report.BrowserConfig = meta.WriteBrowserConfig(cfg.OutputDir)
	report.HTML = meta.WriteHeadHTML(cfg.OutputDir)

	total, failed := report.Summary()
	if failed > 0 {
		logger.Warn("⚠️  Generation finished with failures", "failed", failed, "total", total)
	} else {
		logger.Info("✅ Generation complete", "files", total)
	}
	return report, nil
}

func defaultLogger(verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// packLegacy builds favicon.ico from the 32x32 favicon when that job succeeded
func packLegacy(favicons []common.OperationResult, outputDir string, logger *slog.Logger) common.OperationResult {
	dest := filepath.Join(outputDir, builder.LegacyIconFile)

	src, ok := common.FindResult(favicons, LegacySource)
	if !ok || !src.Success {
		logger.Warn("Skipping favicon.ico: 32x32 favicon unavailable")
		return common.FileResult(dest, errLegacySkipped)
	}

	if !common.PackLegacyIcon(src.Path, dest, logger) {
		return common.FileResult(dest, fmt.Errorf("could not pack %s", src.Path))
	}
	return common.FileResult(dest, nil)
}
