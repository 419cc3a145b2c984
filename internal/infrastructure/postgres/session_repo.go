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

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (key, user_id, pretending_to)
		VALUES ($1, $2, $3)
		RETURNING last_activity, created_at`

	err := r.pool.QueryRow(ctx, query,
		session.Key, session.UserID, session.PretendingTo,
	).Scan(&session.LastActivity, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// sessionQuery joins the owning user and, when set, the pretend target.
// The idle cutoff filter is the 365-day expiry: an ancient session is
// simply not found. Sessions with null last_activity never hit the TTL
// (mirroring a TTL index that skips missing fields); the cleanup sweep
// takes care of those.
const sessionQuery = `
	SELECT s.key, s.user_id, s.pretending_to, s.last_activity, s.created_at,
	       u.id, u.email, u.username, u.first_name, u.last_name, u.admin, u.created_at, u.updated_at,
	       p.id, p.email, p.username, p.first_name, p.last_name, p.admin, p.created_at, p.updated_at
	FROM sessions s
	JOIN users u ON u.id = s.user_id
	LEFT JOIN users p ON p.id = s.pretending_to`

func (r *SessionRepository) Find(ctx context.Context, key string) (*domain.Session, error) {
	query := sessionQuery + `
	WHERE s.key = $1
	  AND (s.last_activity IS NULL OR s.last_activity > $2)`

	idleCutoff := time.Now().Add(-domain.SessionMaxIdle)

	row := r.pool.QueryRow(ctx, query, key, idleCutoff)
	return scanSession(row)
}

func (r *SessionRepository) Touch(ctx context.Context, key string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions SET last_activity = NOW() WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) SetPretend(ctx context.Context, key string, userID *string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions SET pretending_to = $2 WHERE key = $1`, key, userID)
	if err != nil {
		return fmt.Errorf("set pretend: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, key string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete sessions for user: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *SessionRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM sessions WHERE last_activity IS NULL OR last_activity < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Lists apply the same idle cutoff as Find: a session the resolver would
// treat as expired shouldn't show up on the dashboard either. Null
// last_activity stays visible (and counted as stale) until the sweep.
func (r *SessionRepository) ListAll(ctx context.Context) ([]*domain.Session, error) {
	query := sessionQuery + `
	WHERE (s.last_activity IS NULL OR s.last_activity > $1)
	ORDER BY s.last_activity DESC NULLS LAST`

	return r.list(ctx, query, time.Now().Add(-domain.SessionMaxIdle))
}

func (r *SessionRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	query := sessionQuery + `
	WHERE s.user_id = $1
	  AND (s.last_activity IS NULL OR s.last_activity > $2)
	ORDER BY s.last_activity DESC NULLS LAST`

	return r.list(ctx, query, userID, time.Now().Add(-domain.SessionMaxIdle))
}

func (r *SessionRepository) ListPretendingForUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	query := sessionQuery + `
	WHERE s.user_id = $1 AND s.pretending_to IS NOT NULL
	  AND (s.last_activity IS NULL OR s.last_activity > $2)
	ORDER BY s.last_activity DESC NULLS LAST`

	return r.list(ctx, query, userID, time.Now().Add(-domain.SessionMaxIdle))
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var s domain.Session
	var u domain.User

	// LEFT JOIN means every pretend column can be null.
	var pID, pEmail, pUsername, pFirst, pLast *string
	var pAdmin *bool
	var pCreated, pUpdated *time.Time

	err := row.Scan(
		&s.Key, &s.UserID, &s.PretendingTo, &s.LastActivity, &s.CreatedAt,
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.Admin, &u.CreatedAt, &u.UpdatedAt,
		&pID, &pEmail, &pUsername, &pFirst, &pLast, &pAdmin, &pCreated, &pUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}

	s.User = &u
	if pID != nil {
		s.PretendUser = &domain.User{
			ID:        *pID,
			Email:     *pEmail,
			Username:  *pUsername,
			FirstName: *pFirst,
			LastName:  *pLast,
			Admin:     *pAdmin,
			CreatedAt: *pCreated,
			UpdatedAt: *pUpdated,
		}
	}
	return &s, nil
}
