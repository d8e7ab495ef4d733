package ports

import (
	"context"

	"github.com/smarthomeo/fxclient/internal/core/domain"
)

// SessionRepository owns the single persisted session slot. Load returns
// (nil, nil) when no usable session is stored; absence and malformed data
// are indistinguishable to callers. Save persists the session in full and
// Clear deletes the slot; clearing an already empty slot is not an error.
type SessionRepository interface {
	Load(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Clear(ctx context.Context) error
}
