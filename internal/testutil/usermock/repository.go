package usermock

import (
	"context"

	domain "mouthpiece-market/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying user.Repository. The default
// resolves any id to a user named after it, which keeps notification text
// deterministic in tests.
type Repo struct {
	GetByUserIDFn func(ctx context.Context, userID string) (*domain.User, error)
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return &domain.User{UserID: userID, Name: "user " + userID[:8]}, nil
}
