package tesseract

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"os/exec"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"go-price-ocr/internal/ocr"
)

// ensureTesseractAvailable checks that the tesseract binary is reachable.
func ensureTesseractAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

// renderText draws s in black on a white canvas, scaled up so Tesseract
// can read the 7x13 bitmap font.
func renderText(s string) image.Image {
	small := image.NewGray(image.Rect(0, 0, 10+7*len(s)+10, 24))
	draw.Draw(small, small.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  small,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(10, 17),
	}
	d.DrawString(s)

	const scale = 4
	b := small.Bounds()
	big := image.NewGray(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := 0; y < big.Bounds().Dy(); y++ {
		for x := 0; x < big.Bounds().Dx(); x++ {
			big.SetGray(x, y, small.GrayAt(x/scale, y/scale))
		}
	}
	return big
}

func TestEngine_Name(t *testing.T) {
	if NewEngine().Name() != "tesseract" {
		t.Errorf("Name() = %s", NewEngine().Name())
	}
}

func TestEngine_Version(t *testing.T) {
	ensureTesseractAvailable(t)

	v := NewEngine().Version()
	if !strings.HasPrefix(v, "tesseract ") || len(v) <= len("tesseract ") {
		t.Errorf("Version() = %q", v)
	}
}

func TestEngine_RecognizeDigits(t *testing.T) {
	ensureTesseractAvailable(t)

	text, err := NewEngine().Recognize(context.Background(), renderText("4.90"), ocr.PriceConfig())
	if err != nil {
		t.Fatalf("Recognize() error = %v", err)
	}
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		t.Fatal("Expected recognized text, got empty string")
	}
	for _, r := range cleaned {
		if !strings.ContainsRune(ocr.NumericWhitelist+" ", r) {
			t.Errorf("Recognized %q contains non-whitelisted rune %q", cleaned, r)
		}
	}
}

func TestEngine_RecognizeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Cancellation is checked before any client is created, so this does
	// not need libtesseract's data files.
	_, err := NewEngine().Recognize(ctx, renderText("1"), ocr.PriceConfig())
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}
