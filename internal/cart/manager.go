package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Balamathankumar/store-front/internal/repository"
)

// Manager hands out one Store per session, creating and hydrating it on first
// use. Stores live for the process lifetime; durable state is in the snapshot
// repository, so an evicted or restarted process rebuilds them on demand.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store

	repo      repository.SnapshotRepository
	logger    *slog.Logger
	observers []ChangeFunc
}

// NewManager creates a session cart manager. Observers are attached to every
// store the manager creates.
func NewManager(repo repository.SnapshotRepository, logger *slog.Logger, observers ...ChangeFunc) *Manager {
	return &Manager{
		stores:    make(map[string]*Store),
		repo:      repo,
		logger:    logger,
		observers: observers,
	}
}

// Get returns the cart store for a session, creating and hydrating it if this
// is the session's first cart access since process start.
func (m *Manager) Get(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[sessionID]; ok {
		return s
	}

	s := NewStore(ctx, sessionID, m.repo, m.logger)
	for _, fn := range m.observers {
		s.OnChange(fn)
	}
	m.stores[sessionID] = s
	return s
}

// Evict drops a session's in-memory store. The persisted snapshot is kept, so
// a later Get rebuilds from it.
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}
