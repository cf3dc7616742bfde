package converter

import (
	"errors"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG encodes img into a PNG file at path
func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test PNG: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
}

// fillImage builds a solid colored NRGBA image
func fillImage(width, height int, fill color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, fill)
		}
	}
	return img
}

// decodeJPEG decodes the produced output and verifies it really is JPEG
func decodeJPEG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		t.Fatalf("Failed to decode output: %v", err)
	}
	if format != "jpeg" {
		t.Fatalf("Output format = %q, want jpeg", format)
	}
	return img
}

func TestConvertOriginalKeepsDimensions(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "photo.png")
	writePNG(t, source, fillImage(123, 45, color.NRGBA{R: 10, G: 200, B: 30, A: 255}))

	result := Convert(Request{SourcePath: source, Size: SizeOriginal, DestinationDir: tempDir})
	if !result.Success() {
		t.Fatalf("Convert failed: %v", result.Err)
	}
	if want := filepath.Join(tempDir, "photo.jpg"); result.OutputPath != want {
		t.Errorf("OutputPath = %q, want %q", result.OutputPath, want)
	}

	out := decodeJPEG(t, result.OutputPath)
	if out.Bounds().Dx() != 123 || out.Bounds().Dy() != 45 {
		t.Errorf("Output dimensions = %dx%d, want 123x45", out.Bounds().Dx(), out.Bounds().Dy())
	}
}

func TestConvertTargetSizes(t *testing.T) {
	tests := []struct {
		size   TargetSize
		width  int
		height int
	}{
		{Size800x600, 800, 600},
		{Size1024x768, 1024, 768},
		{Size1920x1080, 1920, 1080},
	}

	tempDir := t.TempDir()
	// Deliberately non-matching aspect ratio; output must stretch
	source := filepath.Join(tempDir, "square.png")
	writePNG(t, source, fillImage(300, 300, color.NRGBA{R: 80, G: 80, B: 200, A: 255}))

	for _, test := range tests {
		t.Run(test.size.String(), func(t *testing.T) {
			outDir := filepath.Join(tempDir, test.size.String())
			result := Convert(Request{SourcePath: source, Size: test.size, DestinationDir: outDir})
			if !result.Success() {
				t.Fatalf("Convert failed: %v", result.Err)
			}
			out := decodeJPEG(t, result.OutputPath)
			if out.Bounds().Dx() != test.width || out.Bounds().Dy() != test.height {
				t.Errorf("Output dimensions = %dx%d, want %dx%d",
					out.Bounds().Dx(), out.Bounds().Dy(), test.width, test.height)
			}
		})
	}
}

func TestConvertTransparentPixelsBecomeWhite(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "transparent.png")
	// Fully transparent everywhere
	writePNG(t, source, image.NewNRGBA(image.Rect(0, 0, 64, 64)))

	result := Convert(Request{SourcePath: source, Size: SizeOriginal, DestinationDir: tempDir})
	if !result.Success() {
		t.Fatalf("Convert failed: %v", result.Err)
	}

	out := decodeJPEG(t, result.OutputPath)
	for _, pt := range []image.Point{{0, 0}, {32, 32}, {63, 63}, {10, 50}} {
		r, g, b, _ := out.At(pt.X, pt.Y).RGBA()
		// small tolerance for JPEG rounding
		if r>>8 < 250 || g>>8 < 250 || b>>8 < 250 {
			t.Errorf("Pixel %v = (%d,%d,%d), want white", pt, r>>8, g>>8, b>>8)
		}
	}
}

func TestConvertPartialAlphaBlendsOntoWhite(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "half.png")
	// Pure black at 50% alpha over white should land near mid grey
	writePNG(t, source, fillImage(32, 32, color.NRGBA{R: 0, G: 0, B: 0, A: 128}))

	result := Convert(Request{SourcePath: source, Size: SizeOriginal, DestinationDir: tempDir})
	if !result.Success() {
		t.Fatalf("Convert failed: %v", result.Err)
	}

	out := decodeJPEG(t, result.OutputPath)
	r, _, _, _ := out.At(16, 16).RGBA()
	got := int(r >> 8)
	if got < 117 || got > 137 {
		t.Errorf("Blended pixel = %d, want ~127", got)
	}
}

// TestConvertExampleScenario is the worked example: 512x512 RGBA with a
// fully transparent border, resized to 800x600.
func TestConvertExampleScenario(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 512, 512))
	for y := 64; y < 448; y++ {
		for x := 64; x < 448; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}

	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "photo.png")
	writePNG(t, source, img)

	result := Convert(Request{SourcePath: source, Size: Size800x600, DestinationDir: tempDir})
	if !result.Success() {
		t.Fatalf("Convert failed: %v", result.Err)
	}
	if filepath.Base(result.OutputPath) != "photo.jpg" {
		t.Errorf("Output name = %q, want photo.jpg", filepath.Base(result.OutputPath))
	}

	out := decodeJPEG(t, result.OutputPath)
	if out.Bounds().Dx() != 800 || out.Bounds().Dy() != 600 {
		t.Fatalf("Output dimensions = %dx%d, want 800x600", out.Bounds().Dx(), out.Bounds().Dy())
	}
	r, g, b, _ := out.At(5, 5).RGBA()
	if r>>8 < 245 || g>>8 < 245 || b>>8 < 245 {
		t.Errorf("Border pixel = (%d,%d,%d), want white", r>>8, g>>8, b>>8)
	}
}

func TestConvertCreatesDestinationDir(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "photo.png")
	writePNG(t, source, fillImage(8, 8, color.NRGBA{R: 1, G: 2, B: 3, A: 255}))

	destDir := filepath.Join(tempDir, "does", "not", "exist")
	result := Convert(Request{SourcePath: source, Size: SizeOriginal, DestinationDir: destDir})
	if !result.Success() {
		t.Fatalf("Convert failed: %v", result.Err)
	}
	if _, err := os.Stat(result.OutputPath); err != nil {
		t.Errorf("Output file missing: %v", err)
	}
}

func TestConvertOverwritesExistingOutput(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "photo.png")
	writePNG(t, source, fillImage(8, 8, color.NRGBA{R: 1, G: 2, B: 3, A: 255}))

	first := Convert(Request{SourcePath: source, Size: SizeOriginal, DestinationDir: tempDir})
	if !first.Success() {
		t.Fatalf("First convert failed: %v", first.Err)
	}
	second := Convert(Request{SourcePath: source, Size: SizeOriginal, DestinationDir: tempDir})
	if !second.Success() {
		t.Fatalf("Second convert failed: %v", second.Err)
	}
	if first.OutputPath != second.OutputPath {
		t.Errorf("Output paths differ: %q vs %q", first.OutputPath, second.OutputPath)
	}
}

func TestConvertMissingFile(t *testing.T) {
	tempDir := t.TempDir()
	result := Convert(Request{
		SourcePath:     filepath.Join(tempDir, "nope.png"),
		Size:           SizeOriginal,
		DestinationDir: tempDir,
	})
	if result.Success() {
		t.Fatal("Expected failure for missing file")
	}
	if !errors.Is(result.Err, ErrDecode) {
		t.Errorf("Error = %v, want ErrDecode", result.Err)
	}
}

func TestConvertInvalidPNG(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "broken.png")
	if err := os.WriteFile(source, []byte("this is not a png"), 0644); err != nil {
		t.Fatalf("Failed writing test file: %v", err)
	}

	result := Convert(Request{SourcePath: source, Size: SizeOriginal, DestinationDir: tempDir})
	if result.Success() {
		t.Fatal("Expected failure for invalid PNG")
	}
	if !errors.Is(result.Err, ErrDecode) {
		t.Errorf("Error = %v, want ErrDecode", result.Err)
	}
}

func TestParseTargetSize(t *testing.T) {
	tests := []struct {
		input string
		want  TargetSize
	}{
		{"original", SizeOriginal},
		{"", SizeOriginal},
		{"Original", SizeOriginal},
		{"800x600", Size800x600},
		{"1024x768", Size1024x768},
		{"1920x1080", Size1920x1080},
		{" 1920x1080 ", Size1920x1080},
	}
	for _, test := range tests {
		got, err := ParseTargetSize(test.input)
		if err != nil {
			t.Errorf("ParseTargetSize(%q) error: %v", test.input, err)
			continue
		}
		if got != test.want {
			t.Errorf("ParseTargetSize(%q) = %v, want %v", test.input, got, test.want)
		}
	}

	if _, err := ParseTargetSize("640x480"); err == nil {
		t.Error("Expected error for unsupported size")
	}
}

func TestTargetSizeString(t *testing.T) {
	if got := Size800x600.String(); got != "800x600" {
		t.Errorf("String() = %q, want 800x600", got)
	}
	if got := SizeOriginal.String(); got != "original" {
		t.Errorf("String() = %q, want original", got)
	}
}
