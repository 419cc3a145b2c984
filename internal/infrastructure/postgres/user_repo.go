package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/coinflipper/login-service/internal/domain"
	"github.com/coinflipper/login-service/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, email, username, first_name, last_name, admin, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, input repository.CreateUserInput) (*domain.User, error) {
	query := `
		INSERT INTO users (email, username, first_name, last_name, admin)
		VALUES (LOWER($1), $2, $3, $4, $5)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		input.Email, input.Username, input.FirstName, input.LastName, input.Admin)

	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateUser
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, input repository.UpdateUserInput) (*domain.User, error) {
	query := `
		UPDATE users
		SET    email      = LOWER($2),
		       username   = $3,
		       first_name = $4,
		       last_name  = $5,
		       admin      = $6,
		       updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		input.ID, input.Email, input.Username, input.FirstName, input.LastName, input.Admin)

	u, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateUser
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	// Addresses are stored lowercase; lowering the input makes the lookup
	// case-insensitive.
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = LOWER($1)`, email)
	return scanUser(row)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY username ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
		&u.Admin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
