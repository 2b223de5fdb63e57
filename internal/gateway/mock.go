package gateway

import (
	"context"
	"sync"
)

// MockGateway is an in-memory Gateway for tests and offline use.
type MockGateway struct {
	mu         sync.Mutex
	profile    *UserProfile
	fetchErr   error
	persistErr error
	fetches    int
	persisted  []UserProfile
}

// NewMockGateway creates a mock serving the given profile. A nil profile makes
// FetchCurrentUser return ErrNotFound.
func NewMockGateway(profile *UserProfile) *MockGateway {
	m := &MockGateway{}
	if profile != nil {
		p := profile.Clone()
		m.profile = &p
	}
	return m
}

// FailFetch makes subsequent fetches return err (nil clears it).
func (m *MockGateway) FailFetch(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchErr = err
}

// FailPersist makes subsequent persists return err (nil clears it).
func (m *MockGateway) FailPersist(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persistErr = err
}

func (m *MockGateway) FetchCurrentUser(_ context.Context) (*UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fetches++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if m.profile == nil {
		return nil, ErrNotFound
	}
	p := m.profile.Clone()
	return &p, nil
}

func (m *MockGateway) PersistUser(_ context.Context, profile UserProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.persistErr != nil {
		return m.persistErr
	}
	p := profile.Clone()
	m.persisted = append(m.persisted, p)
	stored := p.Clone()
	m.profile = &stored
	return nil
}

// Fetches reports how many times FetchCurrentUser was called.
func (m *MockGateway) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

// Persisted returns copies of every snapshot accepted by PersistUser.
func (m *MockGateway) Persisted() []UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]UserProfile, len(m.persisted))
	for i, p := range m.persisted {
		out[i] = p.Clone()
	}
	return out
}

// Compile-time interface check
var _ Gateway = (*MockGateway)(nil)
