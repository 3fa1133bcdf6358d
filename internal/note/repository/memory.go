package repository

import (
	"context"
	"sync"
	"time"

	"github.com/gogotex/gonotes/internal/note"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory Store used by unit tests and by local runs
// without MongoDB. Returned notes are copies; mutating them does not touch
// the stored records.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[primitive.ObjectID]*note.Note
	order []primitive.ObjectID
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		store: make(map[primitive.ObjectID]*note.Note),
		now:   time.Now,
	}
}

func (m *MemoryRepo) Insert(_ context.Context, n *note.Note) (*note.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *n
	if stored.ID.IsZero() {
		stored.ID = primitive.NewObjectID()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = m.now().UTC()
	}
	if _, exists := m.store[stored.ID]; !exists {
		m.order = append(m.order, stored.ID)
	}
	m.store[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (m *MemoryRepo) FindByID(_ context.Context, id string) (*note.Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	n, ok := m.store[oid]
	if !ok {
		return nil, ErrNotFound
	}
	out := *n
	return &out, nil
}

func (m *MemoryRepo) FindByOwner(_ context.Context, owner string) ([]*note.Note, error) {
	return m.list(func(n *note.Note) bool { return n.Owner == owner }), nil
}

func (m *MemoryRepo) FindAll(_ context.Context) ([]*note.Note, error) {
	return m.list(func(*note.Note) bool { return true }), nil
}

func (m *MemoryRepo) list(keep func(*note.Note) bool) []*note.Note {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*note.Note, 0, len(m.order))
	for _, id := range m.order {
		n := m.store[id]
		if keep(n) {
			c := *n
			out = append(out, &c)
		}
	}
	return out
}

func (m *MemoryRepo) UpdateByID(_ context.Context, id string, p note.Patch) (*note.Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.store[oid]
	if !ok {
		return nil, ErrNotFound
	}
	p.Apply(n)
	out := *n
	return &out, nil
}

func (m *MemoryRepo) DeleteByID(_ context.Context, id string) (*note.Note, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.store[oid]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.store, oid)
	for i, o := range m.order {
		if o == oid {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return n, nil
}
