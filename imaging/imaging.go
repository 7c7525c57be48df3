// Package imaging normalizes generated images before they are embedded in a
// page: oversized images are scaled down and everything is re-encoded as JPEG.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

const (
	// DefaultMaxWidth is used when Normalize is given a non-positive width.
	DefaultMaxWidth = 1024
	jpegQuality     = 85
	mimeJPEG        = "image/jpeg"
)

// Image is an encoded image ready for embedding.
type Image struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// Normalize decodes data (JPEG, PNG or GIF), scales it down to maxWidth when
// wider, and re-encodes it as JPEG.
func Normalize(data []byte, maxWidth int) (Image, error) {
	if len(data) == 0 {
		return Image{}, fmt.Errorf("imaging: empty image data")
	}
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, fmt.Errorf("imaging: decode: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxWidth {
		newH := h * maxWidth / w
		if newH < 1 {
			newH = 1
		}
		dst := whiteCanvas(maxWidth, newH)
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w, h = maxWidth, newH
	} else if !isOpaque(img) {
		dst := whiteCanvas(w, h)
		draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, fmt.Errorf("imaging: encode jpeg: %w", err)
	}
	return Image{
		Data:     buf.Bytes(),
		MIMEType: mimeJPEG,
		Width:    w,
		Height:   h,
	}, nil
}

// whiteCanvas returns a w x h image filled with white. JPEG has no alpha, so
// transparent pixels are composited onto it before encoding.
func whiteCanvas(w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	return dst
}

func isOpaque(img image.Image) bool {
	o, ok := img.(interface{ Opaque() bool })
	return ok && o.Opaque()
}

// DataURL renders img as a base64 data URL usable in an <img src>.
func DataURL(img Image) string {
	mime := img.MIMEType
	if mime == "" {
		mime = mimeJPEG
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}
