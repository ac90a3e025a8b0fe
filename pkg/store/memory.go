package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okrause/tikzcanvas/pkg/apperr"
)

// Memory is an in-process Store. It backs tests and the standalone editor.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]User
	diagrams map[string]Diagram
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]User),
		diagrams: make(map[string]Diagram),
	}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) CreateUser(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == u.Username {
			return apperr.New(apperr.CodeConflict, "username %s is taken", u.Username)
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) UserByID(_ context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if u, ok := m.users[id]; ok {
		return &u, nil
	}
	return nil, apperr.New(apperr.CodeNotFound, "user not found")
}

func (m *Memory) UserByUsername(_ context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, apperr.New(apperr.CodeNotFound, "user not found")
}

func (m *Memory) CreateDiagram(_ context.Context, d *Diagram) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.UpdatedAt = now
	m.diagrams[d.ID] = *d
	return nil
}

func (m *Memory) Diagram(_ context.Context, ownerID, id string) (*Diagram, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.diagrams[id]
	if !ok || d.OwnerID != ownerID {
		return nil, apperr.New(apperr.CodeDiagramNotFound, "diagram %s not found", id)
	}
	return &d, nil
}

func (m *Memory) ListDiagrams(_ context.Context, ownerID string) ([]Diagram, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Diagram
	for _, d := range m.diagrams {
		if d.OwnerID == ownerID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (m *Memory) UpdateDiagram(_ context.Context, d *Diagram) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.diagrams[d.ID]
	if !ok || existing.OwnerID != d.OwnerID {
		return apperr.New(apperr.CodeDiagramNotFound, "diagram %s not found", d.ID)
	}
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = time.Now().UTC()
	m.diagrams[d.ID] = *d
	return nil
}

func (m *Memory) DeleteDiagram(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, ok := m.diagrams[id]
	if !ok || d.OwnerID != ownerID {
		return apperr.New(apperr.CodeDiagramNotFound, "diagram %s not found", id)
	}
	delete(m.diagrams, id)
	return nil
}
