package common

import (
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	ico "github.com/biessek/golang-ico"
	"golang.org/x/image/draw"
)

// maxIconEdge is the largest edge an ICO directory entry can describe
const maxIconEdge = 256

// PackLegacyIcon writes pngPath into a single-image .ico container at dest.
// Errors are logged and reported as false; the PNG stays usable either way.
func PackLegacyIcon(pngPath, dest string, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := packICO(pngPath, dest); err != nil {
		logger.Error("✗ legacy icon failed", "path", dest, "error", err)
		return false
	}
	logger.Debug("✓ legacy icon written", "path", dest, "from", pngPath)
	return true
}

func packICO(pngPath, dest string) error {
	f, err := os.Open(pngPath)
	if err != nil {
		return &IconPackError{Path: pngPath, Err: err}
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return &IconPackError{Path: pngPath, Err: fmt.Errorf("decode png: %w", err)}
	}
	img = limitEdge(img, maxIconEdge)

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return &IconPackError{Path: dest, Err: err}
	}

	out, err := os.Create(dest)
	if err != nil {
		return &IconPackError{Path: dest, Err: err}
	}
	if err := ico.Encode(out, img); err != nil {
		out.Close()
		return &IconPackError{Path: dest, Err: fmt.Errorf("encode ico: %w", err)}
	}
	if err := out.Close(); err != nil {
		return &IconPackError{Path: dest, Err: err}
	}
	return nil
}

// limitEdge downscales img so neither side exceeds edge
func limitEdge(img image.Image, edge int) image.Image {
	b := img.Bounds()
	if b.Dx() <= edge && b.Dy() <= edge {
		return img
	}
	w, h := FitDimensions(b.Dx(), b.Dy(), Square(edge))
	rect := image.Rect(0, 0, w, h)
	dst := image.NewRGBA(rect)
	draw.CatmullRom.Scale(dst, rect, img, b, draw.Over, nil)
	return dst
}
