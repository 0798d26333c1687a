package common

import "fmt"

// ImageProcessingError is a decode, resize or write failure on one raster job
type ImageProcessingError struct {
	Op   string // decode, resize, mkdir, encode
	Path string
	Err  error
}

func (e *ImageProcessingError) Error() string {
	return fmt.Sprintf("image processing failed (%s %s): %v", e.Op, e.Path, e.Err)
}

func (e *ImageProcessingError) Unwrap() error {
	return e.Err
}

// IconPackError is a failure converting a PNG into the legacy .ico container
type IconPackError struct {
	Path string
	Err  error
}

func (e *IconPackError) Error() string {
	return fmt.Sprintf("icon packing failed for %s: %v", e.Path, e.Err)
}

func (e *IconPackError) Unwrap() error {
	return e.Err
}
