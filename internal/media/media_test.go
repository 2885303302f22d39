package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// testJPEG returns an encoded JPEG of the given dimensions.
func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}
	return buf.Bytes()
}

// fakePutter records PutObject calls and can fail selected keys.
type fakePutter struct {
	mu     sync.Mutex
	keys   []string
	failOn map[string]bool
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := *params.Key
	if f.failOn[key] {
		return nil, errors.New("access denied")
	}
	f.keys = append(f.keys, key)
	return &s3.PutObjectOutput{}, nil
}

func newTestService(t *testing.T, putter ObjectPutter) *Service {
	t.Helper()
	s := NewService(putter, "test-bucket")
	s.HTTPClient = &http.Client{Timeout: 5 * time.Second}
	s.workRoot = t.TempDir()
	return s
}

func itemsFor(t *testing.T, n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{Index: i, Data: testJPEG(t, 640, 480)}
	}
	return items
}
