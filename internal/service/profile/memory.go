package profile

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Service in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	now      func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*Profile),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Get(_ context.Context, userID string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, exists := m.profiles[userID]
	if !exists {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

func (m *MemoryStore) Save(_ context.Context, userID string, params SaveParams) (*Profile, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	p, exists := m.profiles[userID]
	if !exists {
		p = &Profile{ID: userID, CreatedAt: now}
		m.profiles[userID] = p
	}
	p.FirstName = params.FirstName
	p.LastName = params.LastName
	p.Age = params.Age
	p.Email = normalizeEmail(params.Email)
	p.Skills = normalizeSkills(params.Skills)
	p.UpdatedAt = now
	return clone(p), !exists, nil
}

func (m *MemoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.profiles[userID]; !exists {
		return ErrNotFound
	}
	delete(m.profiles, userID)
	return nil
}

// Clear removes all profiles (useful for test cleanup).
func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = make(map[string]*Profile)
}

func clone(p *Profile) *Profile {
	c := *p
	c.Skills = append([]string{}, p.Skills...)
	return &c
}

// Compile-time interface check
var _ Service = (*MemoryStore)(nil)
