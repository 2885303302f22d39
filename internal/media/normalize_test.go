package media

import (
	"bytes"
	"image"
	"testing"
)

func TestNormalizeSquareJPEG_CoverCrop(t *testing.T) {
	cases := []struct {
		name string
		w, h int
	}{
		{"landscape", 1600, 900},
		{"portrait", 600, 1200},
		{"square", 512, 512},
		{"tiny upscale", 100, 80},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := normalizeSquareJPEG(testJPEG(t, tc.w, tc.h), gallerySide, galleryQuality)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			img, format, err := image.Decode(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("decode output: %v", err)
			}
			if format != "jpeg" {
				t.Errorf("expected jpeg output, got %s", format)
			}
			b := img.Bounds()
			if b.Dx() != gallerySide || b.Dy() != gallerySide {
				t.Errorf("expected %dx%d, got %dx%d", gallerySide, gallerySide, b.Dx(), b.Dy())
			}
		})
	}
}

func TestNormalizeSquareJPEG_InvalidData(t *testing.T) {
	if _, err := normalizeSquareJPEG([]byte("not an image"), gallerySide, galleryQuality); err == nil {
		t.Fatal("expected error for invalid image data")
	}
}
