package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeDownscales(t *testing.T) {
	got, err := Normalize(encodePNG(t, 400, 200), 100)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got.Width != 100 || got.Height != 50 {
		t.Errorf("size = %dx%d, want 100x50", got.Width, got.Height)
	}
	if got.MIMEType != "image/jpeg" {
		t.Errorf("MIMEType = %q, want image/jpeg", got.MIMEType)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(got.Data))
	if err != nil {
		t.Fatalf("output is not a JPEG: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("encoded size = %dx%d, want 100x50", cfg.Width, cfg.Height)
	}
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	got, err := Normalize(encodePNG(t, 64, 48), 100)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got.Width != 64 || got.Height != 48 {
		t.Errorf("size = %dx%d, want 64x48", got.Width, got.Height)
	}
}

func TestNormalizeDefaultWidth(t *testing.T) {
	got, err := Normalize(encodePNG(t, DefaultMaxWidth+200, 10), 0)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got.Width != DefaultMaxWidth {
		t.Errorf("Width = %d, want %d", got.Width, DefaultMaxWidth)
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	if _, err := Normalize([]byte("not an image"), 100); err == nil {
		t.Error("expected decode error")
	}
	if _, err := Normalize(nil, 100); err == nil {
		t.Error("expected error for empty data")
	}
}

func TestDataURL(t *testing.T) {
	url := DataURL(Image{Data: []byte{1, 2, 3}, MIMEType: "image/jpeg"})
	const prefix = "data:image/jpeg;base64,"
	if !strings.HasPrefix(url, prefix) {
		t.Fatalf("DataURL = %q, want prefix %q", url, prefix)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(url, prefix))
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}
	if !bytes.Equal(raw, []byte{1, 2, 3}) {
		t.Errorf("payload = %v", raw)
	}
}

func encodeTransparentPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeFlattensTransparencyOntoWhite(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		maxWidth int
	}{
		{"small", 40, 30, 100},
		{"scaled", 400, 200, 100},
	}
	for _, tt := range tests {
		got, err := Normalize(encodeTransparentPNG(t, tt.w, tt.h), tt.maxWidth)
		if err != nil {
			t.Fatalf("%s: Normalize failed: %v", tt.name, err)
		}
		img, err := jpeg.Decode(bytes.NewReader(got.Data))
		if err != nil {
			t.Fatalf("%s: output is not a JPEG: %v", tt.name, err)
		}
		b := img.Bounds()
		r, g, bl, _ := img.At(b.Dx()/2, b.Dy()/2).RGBA()
		if r>>8 < 240 || g>>8 < 240 || bl>>8 < 240 {
			t.Errorf("%s: transparent pixel = (%d,%d,%d), want white", tt.name, r>>8, g>>8, bl>>8)
		}
	}
}
