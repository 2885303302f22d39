package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/vuhoang/whatif-studio/internal/fault"
)

func TestUploadAll_OrderAndKeys(t *testing.T) {
	putter := &fakePutter{}
	s := newTestService(t, putter)

	assets, err := s.UploadAll(context.Background(), "prj-1", itemsFor(t, 4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assets) != 4 {
		t.Fatalf("expected 4 assets, got %d", len(assets))
	}
	for i, a := range assets {
		wantKey := fmt.Sprintf("projects/prj-1/images/image_%d.jpg", i)
		if a.Key != wantKey {
			t.Errorf("asset %d key = %s, want %s", i, a.Key, wantKey)
		}
		if a.Index != i {
			t.Errorf("asset %d index = %d", i, a.Index)
		}
		if !strings.HasPrefix(a.URL, "https://test-bucket.s3.amazonaws.com/") {
			t.Errorf("unexpected URL %s", a.URL)
		}
	}
}

func TestUploadAll_PartialFailureContinues(t *testing.T) {
	putter := &fakePutter{failOn: map[string]bool{"projects/prj-1/images/image_1.jpg": true}}
	s := newTestService(t, putter)

	assets, err := s.UploadAll(context.Background(), "prj-1", itemsFor(t, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(assets))
	}
	if assets[0].Index != 0 || assets[1].Index != 2 {
		t.Errorf("expected surviving indices 0 and 2, got %d and %d", assets[0].Index, assets[1].Index)
	}
}

func TestUploadAll_AbortOnFailure(t *testing.T) {
	putter := &fakePutter{failOn: map[string]bool{"projects/prj-1/images/image_1.jpg": true}}
	s := newTestService(t, putter)
	s.AbortOnFailure = true

	_, err := s.UploadAll(context.Background(), "prj-1", itemsFor(t, 3))
	if !errors.Is(err, fault.ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}

func TestUploadAll_AllFail(t *testing.T) {
	putter := &fakePutter{failOn: map[string]bool{
		"projects/prj-1/images/image_0.jpg": true,
		"projects/prj-1/images/image_1.jpg": true,
	}}
	s := newTestService(t, putter)

	_, err := s.UploadAll(context.Background(), "prj-1", itemsFor(t, 2))
	if !errors.Is(err, fault.ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}

func TestUploadAll_UndecodableFrameDropped(t *testing.T) {
	putter := &fakePutter{}
	s := newTestService(t, putter)

	items := itemsFor(t, 2)
	items[0].Data = []byte("garbage")

	assets, err := s.UploadAll(context.Background(), "prj-1", items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(assets) != 1 || assets[0].Index != 1 {
		t.Errorf("expected only index 1 to survive, got %+v", assets)
	}
}

func TestUploadAll_Empty(t *testing.T) {
	s := newTestService(t, &fakePutter{})
	if _, err := s.UploadAll(context.Background(), "prj-1", nil); !errors.Is(err, fault.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
