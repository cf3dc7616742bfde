package converter

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// JPEGQuality is the fixed encoder quality for all output files.
// It is deliberately not configurable.
const JPEGQuality = 95

// Sentinel errors marking which stage of the pipeline failed. Wrapped
// errors carry the underlying cause; match with errors.Is.
var (
	ErrDecode = errors.New("png decode failed")
	ErrEncode = errors.New("jpeg encode failed")
	ErrWrite  = errors.New("write failed")
)

// TargetSize is the closed set of output resolutions offered to the
// user. SizeOriginal keeps the source dimensions.
type TargetSize int

const (
	SizeOriginal TargetSize = iota
	Size800x600
	Size1024x768
	Size1920x1080
)

// Dimensions returns the output pixel size for s. ok is false for
// SizeOriginal, which performs no resize.
func (s TargetSize) Dimensions() (width, height int, ok bool) {
	switch s {
	case Size800x600:
		return 800, 600, true
	case Size1024x768:
		return 1024, 768, true
	case Size1920x1080:
		return 1920, 1080, true
	}
	return 0, 0, false
}

func (s TargetSize) String() string {
	if w, h, ok := s.Dimensions(); ok {
		return fmt.Sprintf("%dx%d", w, h)
	}
	return "original"
}

// ParseTargetSize maps the dropdown/config spelling of a size to its
// TargetSize. The empty string means SizeOriginal.
func ParseTargetSize(value string) (TargetSize, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "original":
		return SizeOriginal, nil
	case "800x600":
		return Size800x600, nil
	case "1024x768":
		return Size1024x768, nil
	case "1920x1080":
		return Size1920x1080, nil
	}
	return SizeOriginal, fmt.Errorf("unknown target size %q (want original, 800x600, 1024x768 or 1920x1080)", value)
}

// Request describes one unit of conversion work. Values are built once
// at batch start and never mutated.
type Request struct {
	SourcePath     string
	Size           TargetSize
	DestinationDir string
}

// Result is the terminal outcome of one Request. OutputPath is set only
// when Err is nil.
type Result struct {
	SourcePath string
	OutputPath string
	Err        error
}

// Success reports whether the conversion completed.
func (r Result) Success() bool {
	return r.Err == nil
}

// OutputPath returns the destination file a request will be written to:
// <dir>/<source basename without extension>.jpg
func OutputPath(req Request) string {
	base := filepath.Base(req.SourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(req.DestinationDir, base+".jpg")
}

// Convert runs the full pipeline for one file: decode the source PNG,
// flatten any transparency onto white, resize if requested, and encode
// as JPEG into the destination directory (created if absent, existing
// output overwritten). Failures never panic or propagate; they come
// back in the Result so a batch can carry on with the remaining files.
func Convert(req Request) Result {
	result := Result{SourcePath: req.SourcePath}

	src, err := os.Open(req.SourcePath)
	if err != nil {
		result.Err = fmt.Errorf("%w: opening %s: %v", ErrDecode, req.SourcePath, err)
		return result
	}
	img, err := png.Decode(src)
	src.Close()
	if err != nil {
		result.Err = fmt.Errorf("%w: %s: %v", ErrDecode, filepath.Base(req.SourcePath), err)
		return result
	}

	img = flattenOntoWhite(img)

	if w, h, ok := req.Size.Dimensions(); ok {
		// Exact target dimensions, aspect ratio intentionally not
		// preserved (fixed dropdown choices stretch/squash).
		img = imaging.Resize(img, w, h, imaging.Lanczos)
	}

	if err := os.MkdirAll(req.DestinationDir, 0755); err != nil {
		result.Err = fmt.Errorf("%w: creating %s: %v", ErrWrite, req.DestinationDir, err)
		return result
	}

	outputPath := OutputPath(req)
	out, err := os.Create(outputPath)
	if err != nil {
		result.Err = fmt.Errorf("%w: creating %s: %v", ErrWrite, outputPath, err)
		return result
	}

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		out.Close()
		os.Remove(outputPath)
		result.Err = fmt.Errorf("%w: %s: %v", ErrEncode, filepath.Base(outputPath), err)
		return result
	}
	if err := out.Close(); err != nil {
		result.Err = fmt.Errorf("%w: closing %s: %v", ErrWrite, outputPath, err)
		return result
	}

	result.OutputPath = outputPath
	return result
}

// flattenOntoWhite composites an image carrying transparency onto an
// opaque white canvas of the same dimensions, so that fully transparent
// pixels come out pure white. JPEG has no alpha channel, so this is
// mandatory whenever the source is not already opaque.
func flattenOntoWhite(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}
