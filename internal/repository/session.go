package repository

import (
	"context"
	"time"

	"github.com/coinflipper/login-service/internal/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error

	// Find returns the session with its owning user (and pretend target,
	// if any) populated. Sessions idle past domain.SessionMaxIdle are
	// treated as absent. Does not touch LastActivity.
	Find(ctx context.Context, key string) (*domain.Session, error)

	// Touch bumps LastActivity to now. Only the explicit retrieve entry
	// point calls this; the per-request attach path deliberately does not.
	Touch(ctx context.Context, key string) error

	// SetPretend sets or clears (userID == nil) the impersonation target.
	SetPretend(ctx context.Context, key string, userID *string) error

	Delete(ctx context.Context, key string) error
	DeleteAllForUser(ctx context.Context, userID string) (int, error)

	// DeleteStale removes sessions whose LastActivity is null or older
	// than cutoff, returning how many went.
	DeleteStale(ctx context.Context, cutoff time.Time) (int, error)

	// The listing methods apply the same idle-expiry filter as Find.
	ListAll(ctx context.Context) ([]*domain.Session, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Session, error)

	// ListPretendingForUser returns the user's sessions that currently
	// have a pretend target set.
	ListPretendingForUser(ctx context.Context, userID string) ([]*domain.Session, error)
}
