package session

import (
	"context"
	"sync"
	"time"
)

// maxSweepInterval — максимальная пауза между очистками просроченных сессий
const maxSweepInterval = time.Minute

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemoryStore хранит сессии в памяти процесса.
// Просроченная запись удаляется при обращении к ней, остальные
// просроченные записи вычищаются в Create не реже раза в интервал.
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	entries   map[string]memoryEntry
	nextSweep time.Time
	now       func() time.Time
}

// NewMemoryStore создает хранилище в памяти с заданным TTL
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, email string) (*Session, error) {
	now := m.now()
	s, err := newSession(email, now)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if !now.Before(m.nextSweep) {
		m.sweep(now)
	}
	m.entries[s.ID] = memoryEntry{session: *s, expiresAt: now.Add(m.ttl)}
	m.mu.Unlock()
	return s, nil
}

// sweep удаляет просроченные записи. Вызывается под mu.
func (m *MemoryStore) sweep(now time.Time) {
	for id, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, id)
		}
	}
	m.nextSweep = now.Add(min(m.ttl, maxSweepInterval))
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, id)
		return nil, ErrNotFound
	}
	s := e.session
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
