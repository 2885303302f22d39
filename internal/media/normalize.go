package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// Synthesized frames arrive as PNG or JPEG depending on the image model.
	_ "image/png"

	xdraw "golang.org/x/image/draw"
)

// JPEG qualities for the two asset classes.
const (
	galleryQuality   = 90
	thumbnailQuality = 80
)

// Canvas sizes.
const (
	gallerySide   = 1024
	thumbnailSide = 400
)

// normalizeSquareJPEG decodes an image, center-crops it to a square, scales
// it to side x side, and re-encodes it as JPEG. Cover semantics: the short
// edge fills the canvas and the long edge is cropped symmetrically.
func normalizeSquareJPEG(data []byte, side, quality int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty image")
	}

	crop := w
	if h < w {
		crop = h
	}
	x0 := bounds.Min.X + (w-crop)/2
	y0 := bounds.Min.Y + (h-crop)/2
	cropRect := image.Rect(x0, y0, x0+crop, y0+crop)

	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, cropRect, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
