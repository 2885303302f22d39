package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestMemoryStore_PutGetRoundTrip(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	p := &Project{
		ID:     "prj-1",
		Prompt: "what if the moon were twice as close",
		Images: []ProjectImage{{URL: "https://b.s3.amazonaws.com/projects/prj-1/images/image_0.jpg"}},
	}
	if err := m.PutProject(ctx, p); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := m.GetProject(ctx, "prj-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected project, got nil")
	}
	if got.UserID != AnonymousUser {
		t.Errorf("expected anonymous owner, got %q", got.UserID)
	}
	if !got.IsPublic {
		t.Error("expected new project to be public")
	}
	if got.CreatedAt == "" || got.UpdatedAt == "" {
		t.Error("expected timestamps to be set")
	}
}

func TestMemoryStore_GetMissingReturnsNil(t *testing.T) {
	m := NewMemoryStore()
	got, err := m.GetProject(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestMemoryStore_GetUserProjectsNewestFirst(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p := &Project{
			ID:        fmt.Sprintf("prj-%d", i),
			UserID:    "user-1",
			CreatedAt: fmt.Sprintf("2026-01-0%dT00:00:00.000Z", i+1),
		}
		if err := m.PutProject(ctx, p); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	if err := m.PutProject(ctx, &Project{ID: "other", UserID: "user-2"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := m.GetUserProjects(ctx, "user-1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 projects, got %d", len(got))
	}
	for i, want := range []string{"prj-2", "prj-1", "prj-0"} {
		if got[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestMemoryStore_GetUserProjectsLimit(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		p := &Project{ID: fmt.Sprintf("prj-%d", i), UserID: "user-1"}
		if err := m.PutProject(ctx, p); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	got, err := m.GetUserProjects(ctx, "user-1", 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 projects, got %d", len(got))
	}
}

func TestMemoryStore_ConcurrentIncrements(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	if err := m.PutProject(ctx, &Project{ID: "prj-1"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.IncrementViews(ctx, "prj-1")
		}()
		go func() {
			defer wg.Done()
			_ = m.RecordUsage(ctx, "user-1")
		}()
	}
	wg.Wait()

	p, err := m.GetProject(ctx, "prj-1")
	if err != nil || p == nil {
		t.Fatalf("get: %v %v", p, err)
	}
	if p.ViewCount != n {
		t.Errorf("expected %d views, got %d", n, p.ViewCount)
	}
	usage, err := m.GetUsage(ctx, "user-1")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if usage != n {
		t.Errorf("expected usage %d, got %d", n, usage)
	}
}

func TestMemoryStore_IncrementMissingIsNoop(t *testing.T) {
	m := NewMemoryStore()
	if err := m.IncrementShares(context.Background(), "ghost"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := m.GetProject(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("increment must not create records, got %+v", got)
	}
}

func TestMemoryStore_GetUsageMissingIsZero(t *testing.T) {
	m := NewMemoryStore()
	usage, err := m.GetUsage(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage != 0 {
		t.Errorf("expected 0, got %d", usage)
	}
}
