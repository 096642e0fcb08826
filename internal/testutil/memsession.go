package testutil

import (
	"context"
	"sync"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
	"github.com/taskdeck/taskdeck-cli/internal/ports"
)

// MemSessionStore keeps the credential in memory for tests.
type MemSessionStore struct {
	mu         sync.Mutex
	session    *domain.Session
	clearCalls int
}

var _ ports.SessionStore = (*MemSessionStore)(nil)

func NewMemSessionStore(session *domain.Session) *MemSessionStore {
	return &MemSessionStore{session: session}
}

func (m *MemSessionStore) Current(ctx context.Context) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return domain.Session{}, domain.ErrNoSession
	}
	return *m.session, nil
}

func (m *MemSessionStore) Save(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &session
	return nil
}

func (m *MemSessionStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	m.clearCalls++
	return nil
}

// ClearCalls counts how many times Clear ran.
func (m *MemSessionStore) ClearCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clearCalls
}
