package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coinflipper/login-service/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LinkRepository struct {
	pool *pgxpool.Pool
}

func NewLinkRepository(pool *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{pool: pool}
}

func (r *LinkRepository) Create(ctx context.Context, link *domain.Link) error {
	query := `
		INSERT INTO links (key, user_id, redirect_to, token_callback_url)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		link.Key, link.UserID, link.RedirectTo, link.TokenCallbackURL,
	).Scan(&link.CreatedAt)
	if err != nil {
		return fmt.Errorf("create link: %w", err)
	}
	return nil
}

func (r *LinkRepository) Claim(ctx context.Context, key string) (*domain.Link, error) {
	// DELETE ... RETURNING is the whole single-use guarantee: one round
	// trip, so two concurrent clicks cannot both see the row. The cutoff
	// filter makes expired links indistinguishable from unknown keys.
	query := `
		DELETE FROM links
		WHERE key = $1 AND created_at > $2
		RETURNING key, user_id, redirect_to, token_callback_url, created_at`

	cutoff := time.Now().Add(-domain.LinkTTL)

	var l domain.Link
	err := r.pool.QueryRow(ctx, query, key, cutoff).Scan(
		&l.Key, &l.UserID, &l.RedirectTo, &l.TokenCallbackURL, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, fmt.Errorf("claim link: %w", err)
	}
	return &l, nil
}

func (r *LinkRepository) DeleteExpired(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-domain.LinkTTL)

	tag, err := r.pool.Exec(ctx, `DELETE FROM links WHERE created_at <= $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired links: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
