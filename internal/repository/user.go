package repository

import (
	"context"

	"github.com/coinflipper/login-service/internal/domain"
)

type CreateUserInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Admin     bool
}

type UpdateUserInput struct {
	ID        string
	Email     string
	Username  string
	FirstName string
	LastName  string
	Admin     bool
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, input UpdateUserInput) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
