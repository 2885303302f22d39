package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-process ProjectStore and UsageStore. It backs the
// CLI's dry-run mode and unit tests.
type MemoryStore struct {
	mu       sync.Mutex
	projects map[string]*Project
	usage    map[string]int64
}

var (
	_ ProjectStore = (*MemoryStore)(nil)
	_ UsageStore   = (*MemoryStore)(nil)
)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]*Project),
		usage:    make(map[string]int64),
	}
}

func (m *MemoryStore) PutProject(_ context.Context, p *Project) error {
	applyDefaults(p)

	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *p
	m.projects[p.ID] = &clone
	return nil
}

func (m *MemoryStore) GetProject(_ context.Context, projectID string) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (m *MemoryStore) GetUserProjects(_ context.Context, userID string, limit int32) ([]*Project, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Project
	for _, p := range m.projects {
		if p.UserID != userID {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if int32(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) IncrementViews(_ context.Context, projectID string) error {
	return m.increment(projectID, func(p *Project) { p.ViewCount++ })
}

func (m *MemoryStore) IncrementShares(_ context.Context, projectID string) error {
	return m.increment(projectID, func(p *Project) { p.ShareCount++ })
}

func (m *MemoryStore) increment(projectID string, bump func(*Project)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[projectID]
	if !ok {
		// Mirrors the conditional update: no ghost records.
		return nil
	}
	bump(p)
	p.UpdatedAt = nowISO()
	return nil
}

func (m *MemoryStore) GetUsage(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usage[userID], nil
}

func (m *MemoryStore) RecordUsage(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usage[userID]++
	return nil
}
