package usecase

import (
	"context"
	"fmt"

	"github.com/coinflipper/login-service/internal/domain"
	"github.com/coinflipper/login-service/internal/repository"
)

type UserUsecase struct {
	users repository.UserRepository
}

func NewUserUsecase(users repository.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

type CreateUserInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Admin     bool
}

func (u *UserUsecase) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if !domain.ValidEmail(input.Email) {
		return nil, domain.ErrInvalidEmail
	}

	user, err := u.users.Create(ctx, repository.CreateUserInput{
		Email:     domain.NormalizeEmail(input.Email),
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Admin:     input.Admin,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

type UpdateUserInput struct {
	ID        string
	Email     string
	Username  string
	FirstName string
	LastName  string
	Admin     bool
}

func (u *UserUsecase) Update(ctx context.Context, input UpdateUserInput) (*domain.User, error) {
	if !domain.ValidEmail(input.Email) {
		return nil, domain.ErrInvalidEmail
	}

	user, err := u.users.Update(ctx, repository.UpdateUserInput{
		ID:        input.ID,
		Email:     domain.NormalizeEmail(input.Email),
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Admin:     input.Admin,
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserUsecase) List(ctx context.Context) ([]*domain.User, error) {
	return u.users.List(ctx)
}

func (u *UserUsecase) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return u.users.FindByID(ctx, id)
}

func (u *UserUsecase) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return u.users.FindByEmail(ctx, domain.NormalizeEmail(email))
}

func (u *UserUsecase) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return u.users.FindByUsername(ctx, username)
}
