package repository

import (
	"context"

	"github.com/coinflipper/login-service/internal/domain"
)

type LinkRepository interface {
	Create(ctx context.Context, link *domain.Link) error

	// Claim atomically retrieves and deletes the link for key, so two
	// concurrent clicks on the same link cannot both succeed. Expired
	// links are invisible: domain.ErrLinkNotFound for both unknown and
	// expired keys.
	Claim(ctx context.Context, key string) (*domain.Link, error)

	// DeleteExpired purges links past their TTL. Claim already ignores
	// them; this just keeps the table from accumulating dead rows.
	DeleteExpired(ctx context.Context) (int, error)
}
