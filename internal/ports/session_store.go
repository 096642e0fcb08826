package ports

import (
	"context"

	"github.com/taskdeck/taskdeck-cli/internal/domain"
)

// SessionStore holds the externally issued credential. Current returns
// domain.ErrNoSession when signed out; a Clear must be visible to the
// very next Current call.
type SessionStore interface {
	Current(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}
