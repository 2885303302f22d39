package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vuhoang/whatif-studio/internal/fault"
)

func TestThumbnail(t *testing.T) {
	srv := frameServer(t)
	defer srv.Close()

	s := newTestService(t, &fakePutter{})
	encoded, err := s.Thumbnail(context.Background(), srv.URL+"/image_0.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("thumbnail is not valid base64: %v", err)
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg, got %s", format)
	}
	if b := img.Bounds(); b.Dx() != thumbnailSide || b.Dy() != thumbnailSide {
		t.Errorf("expected %dx%d, got %dx%d", thumbnailSide, thumbnailSide, b.Dx(), b.Dy())
	}
}

func TestThumbnail_FetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	s := newTestService(t, &fakePutter{})
	if _, err := s.Thumbnail(context.Background(), srv.URL+"/gone.jpg"); !errors.Is(err, fault.ErrFetch) {
		t.Errorf("expected ErrFetch, got %v", err)
	}
}
