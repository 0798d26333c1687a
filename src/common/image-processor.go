package common

// Image processor for icon derivation
//
// Responsibilities:
// 1. Contain-fit a source raster into a target box (never cropped, padded with a fill color)
// 2. Run batches of resize jobs concurrently, one result per job, in input order
// 3. Pack a generated PNG into the legacy .ico container (ico.go)

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Filters maps config names to resampling filters
var Filters = map[string]imaging.ResampleFilter{
	"lanczos":    imaging.Lanczos,
	"catmullrom": imaging.CatmullRom,
	"linear":     imaging.Linear,
	"box":        imaging.Box,
	"nearest":    imaging.NearestNeighbor,
}

// DefaultFilter is used when no filter is configured
const DefaultFilter = "lanczos"

// LookupFilter resolves a filter name, case-insensitively
func LookupFilter(name string) (imaging.ResampleFilter, error) {
	if name == "" {
		name = DefaultFilter
	}
	f, ok := Filters[strings.ToLower(name)]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("unknown resampling filter %q", name)
	}
	return f, nil
}

// ResizeFunc performs one icon job
type ResizeFunc func(job IconJob) error

// ImageProcessor runs resize jobs with a shared fill color and filter
type ImageProcessor struct {
	Fill        color.NRGBA
	Filter      imaging.ResampleFilter
	Concurrency int // 0 = unbounded
	logger      *slog.Logger
	resize      ResizeFunc
}

// NewImageProcessor creates a processor; a nil logger discards output
func NewImageProcessor(fill color.NRGBA, filter imaging.ResampleFilter, logger *slog.Logger) *ImageProcessor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &ImageProcessor{
		Fill:   fill,
		Filter: filter,
		logger: logger,
	}
	p.resize = func(job IconJob) error {
		return ResizeImage(job.Source, job.Size, job.Fill, job.Dest, p.Filter)
	}
	return p
}

// WithResizeFunc replaces the per-job resize, returning p
func (p *ImageProcessor) WithResizeFunc(fn ResizeFunc) *ImageProcessor {
	p.resize = fn
	return p
}

// Resize contain-fits src into size and writes a PNG to dest
func (p *ImageProcessor) Resize(src string, size SizeSpec, dest string) error {
	return ResizeImage(src, size, p.Fill, dest, p.Filter)
}

// ResizeImage scales src to fit entirely inside size, preserving aspect ratio,
// centres it on a canvas of exactly size filled with fill, and saves it to dest.
// Missing parent directories of dest are created.
func ResizeImage(src string, size SizeSpec, fill color.NRGBA, dest string, filter imaging.ResampleFilter) error {
	if !size.Valid() {
		return &ImageProcessingError{Op: "resize", Path: dest, Err: fmt.Errorf("invalid target size %s", size)}
	}

	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return &ImageProcessingError{Op: "decode", Path: src, Err: err}
	}

	out, err := containFit(img, size, fill, filter)
	if err != nil {
		return &ImageProcessingError{Op: "resize", Path: src, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return &ImageProcessingError{Op: "mkdir", Path: dest, Err: err}
	}

	if err := imaging.Save(out, dest); err != nil {
		return &ImageProcessingError{Op: "encode", Path: dest, Err: err}
	}
	return nil
}

// containFit returns an image of exactly size with img scaled to fit and centred
func containFit(img image.Image, size SizeSpec, fill color.NRGBA, filter imaging.ResampleFilter) (*image.NRGBA, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, errors.New("source image is empty")
	}

	w, h := FitDimensions(b.Dx(), b.Dy(), size)
	scaled := imaging.Resize(img, w, h, filter)

	canvas := imaging.New(size.Width, size.Height, fill)
	return imaging.PasteCenter(canvas, scaled), nil
}

// FitDimensions returns the largest dimensions with the source aspect ratio
// that fit inside size. Both edges are at least 1.
func FitDimensions(srcW, srcH int, size SizeSpec) (int, int) {
	scale := math.Min(float64(size.Width)/float64(srcW), float64(size.Height)/float64(srcH))
	w := clamp(int(math.Round(float64(srcW)*scale)), 1, size.Width)
	h := clamp(int(math.Round(float64(srcH)*scale)), 1, size.Height)
	return w, h
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
