package common

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// SizePlaceholder is substituted with a size label in destination patterns
const SizePlaceholder = "{n}"

// DefaultFill is fully transparent white
var DefaultFill = color.NRGBA{R: 255, G: 255, B: 255, A: 0}

// SizeSpec is a target geometry: a square edge or an explicit width x height
type SizeSpec struct {
	Width  int
	Height int
}

// Square returns a square SizeSpec with edge n
func Square(n int) SizeSpec {
	return SizeSpec{Width: n, Height: n}
}

// Rect returns a rectangular SizeSpec
func Rect(w, h int) SizeSpec {
	return SizeSpec{Width: w, Height: h}
}

// Squares builds a catalog of square sizes
func Squares(edges ...int) []SizeSpec {
	sizes := make([]SizeSpec, 0, len(edges))
	for _, n := range edges {
		sizes = append(sizes, Square(n))
	}
	return sizes
}

// IsSquare reports whether width and height are equal
func (s SizeSpec) IsSquare() bool {
	return s.Width == s.Height
}

// Valid reports whether both edges are positive
func (s SizeSpec) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Label is the canonical size descriptor: "16" for squares, "310x150" otherwise
func (s SizeSpec) Label() string {
	if s.IsSquare() {
		return strconv.Itoa(s.Width)
	}
	return s.String()
}

// String returns the "WxH" form used in manifests and link tags
func (s SizeSpec) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Expand substitutes the size label into a destination pattern
func (s SizeSpec) Expand(pattern string) string {
	return strings.ReplaceAll(pattern, SizePlaceholder, s.Label())
}

// Annotation marks platform-specific results
type Annotation string

const (
	AnnotationNone    Annotation = ""
	AnnotationDefault Annotation = "default" // canonical touch icon
	AnnotationWide    Annotation = "wide"    // rectangular tile
)

// IconJob is one resize to run: source, geometry, padding and destination
type IconJob struct {
	Source     string
	Size       SizeSpec
	Fill       color.NRGBA
	Dest       string
	Annotation Annotation
}

// OperationResult is the outcome of one icon job or one metadata file write.
// Size is nil for plain file writes.
type OperationResult struct {
	Size       *SizeSpec
	Path       string
	Success    bool
	Err        error
	Annotation Annotation
}

// IsDefault reports whether this is the canonical touch icon
func (r OperationResult) IsDefault() bool {
	return r.Annotation == AnnotationDefault
}

// IsWide reports whether this is the rectangular tile
func (r OperationResult) IsWide() bool {
	return r.Annotation == AnnotationWide
}

// ErrorText returns the error text, or an empty string on success
func (r OperationResult) ErrorText() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// MarshalJSON flattens the result for reports
func (r OperationResult) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Path:    r.Path,
		Success: r.Success,
		Error:   r.ErrorText(),
		Default: r.IsDefault(),
		Wide:    r.IsWide(),
	}
	if r.Size != nil {
		out.Size = r.Size.Label()
	}
	return marshalJSON(out)
}

type resultJSON struct {
	Size    string `json:"size,omitempty"`
	Path    string `json:"path"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Default bool   `json:"isDefault,omitempty"`
	Wide    bool   `json:"isWide,omitempty"`
}

// FileResult records the outcome of a plain file write
func FileResult(path string, err error) OperationResult {
	return OperationResult{Path: path, Success: err == nil, Err: err}
}

// FindResult returns the result for the given size, if present
func FindResult(results []OperationResult, size SizeSpec) (OperationResult, bool) {
	for _, r := range results {
		if r.Size != nil && *r.Size == size {
			return r, true
		}
	}
	return OperationResult{}, false
}
