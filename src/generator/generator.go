package generator

import (
	"log/slog"
	"path/filepath"

	"favicongen/src/common"
)

// Generator produces one platform's icons from a single source image
type Generator struct {
	processor *common.ImageProcessor
	source    string
	outputDir string
	logger    *slog.Logger
}

// NewGenerator creates a generator writing under outputDir/icons
func NewGenerator(processor *common.ImageProcessor, source, outputDir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{
		processor: processor,
		source:    source,
		outputDir: outputDir,
		logger:    logger,
	}
}

// pattern is the absolute destination pattern for a platform
func (g *Generator) pattern(p Platform) string {
	return filepath.Join(g.outputDir, IconsDir, p.Pattern)
}

func (g *Generator) extra(size common.SizeSpec, file string, annotation common.Annotation) common.IconJob {
	return common.IconJob{
		Source:     g.source,
		Size:       size,
		Fill:       g.processor.Fill,
		Dest:       filepath.Join(g.outputDir, IconsDir, file),
		Annotation: annotation,
	}
}

func (g *Generator) run(p Platform, extras ...common.IconJob) []common.OperationResult {
	jobs := append(g.processor.Jobs(g.source, p.Sizes, g.pattern(p)), extras...)
	g.logger.Info("Generating icons", "platform", p.Name, "count", len(jobs))

	results := g.processor.RunJobs(jobs)

	failed := countFailed(results)
	if failed > 0 {
		g.logger.Warn("Some icons failed", "platform", p.Name, "failed", failed, "total", len(results))
	}
	return results
}

// Favicons generates favicon-{16,32,48,96}.png
func (g *Generator) Favicons() []common.OperationResult {
	return g.run(Favicons)
}

// AppleTouchIcons generates the sized touch icons plus the canonical apple-touch-icon.png
func (g *Generator) AppleTouchIcons() []common.OperationResult {
	return g.run(AppleTouchIcons, g.extra(AppleTouchDefault, AppleTouchDefaultFile, common.AnnotationDefault))
}

// AndroidIcons generates the home-screen icons referenced by the manifest
func (g *Generator) AndroidIcons() []common.OperationResult {
	return g.run(AndroidIcons)
}

// MSTiles generates the square tiles plus the wide 310x150 tile
func (g *Generator) MSTiles() []common.OperationResult {
	return g.run(MSTiles, g.extra(MSTileWide, MSTileWideFile, common.AnnotationWide))
}

func countFailed(results []common.OperationResult) int {
	n := 0
	for _, r := range results {
		if !r.Success {
			n++
		}
	}
	return n
}
