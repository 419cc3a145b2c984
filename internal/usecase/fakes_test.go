package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/coinflipper/login-service/internal/domain"
	"github.com/coinflipper/login-service/internal/repository"
)

// ---- fakes ----

type fakeUserRepo struct {
	create         func(ctx context.Context, input repository.CreateUserInput) (*domain.User, error)
	update         func(ctx context.Context, input repository.UpdateUserInput) (*domain.User, error)
	findByID       func(ctx context.Context, id string) (*domain.User, error)
	findByEmail    func(ctx context.Context, email string) (*domain.User, error)
	findByUsername func(ctx context.Context, username string) (*domain.User, error)
	list           func(ctx context.Context) ([]*domain.User, error)
}

func (r *fakeUserRepo) Create(ctx context.Context, input repository.CreateUserInput) (*domain.User, error) {
	return r.create(ctx, input)
}

func (r *fakeUserRepo) Update(ctx context.Context, input repository.UpdateUserInput) (*domain.User, error) {
	return r.update(ctx, input)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findByUsername(ctx, username)
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	return r.list(ctx)
}

type fakeLinkRepo struct {
	create        func(ctx context.Context, link *domain.Link) error
	claim         func(ctx context.Context, key string) (*domain.Link, error)
	deleteExpired func(ctx context.Context) (int, error)
}

func (r *fakeLinkRepo) Create(ctx context.Context, link *domain.Link) error {
	return r.create(ctx, link)
}

func (r *fakeLinkRepo) Claim(ctx context.Context, key string) (*domain.Link, error) {
	return r.claim(ctx, key)
}

func (r *fakeLinkRepo) DeleteExpired(ctx context.Context) (int, error) {
	return r.deleteExpired(ctx)
}

type fakeSessionRepo struct {
	create                func(ctx context.Context, session *domain.Session) error
	find                  func(ctx context.Context, key string) (*domain.Session, error)
	touch                 func(ctx context.Context, key string) error
	setPretend            func(ctx context.Context, key string, userID *string) error
	deleteSession         func(ctx context.Context, key string) error
	deleteAllForUser      func(ctx context.Context, userID string) (int, error)
	deleteStale           func(ctx context.Context, cutoff time.Time) (int, error)
	listAll               func(ctx context.Context) ([]*domain.Session, error)
	listForUser           func(ctx context.Context, userID string) ([]*domain.Session, error)
	listPretendingForUser func(ctx context.Context, userID string) ([]*domain.Session, error)
}

func (r *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	return r.create(ctx, session)
}

func (r *fakeSessionRepo) Find(ctx context.Context, key string) (*domain.Session, error) {
	return r.find(ctx, key)
}

func (r *fakeSessionRepo) Touch(ctx context.Context, key string) error {
	return r.touch(ctx, key)
}

func (r *fakeSessionRepo) SetPretend(ctx context.Context, key string, userID *string) error {
	return r.setPretend(ctx, key, userID)
}

func (r *fakeSessionRepo) Delete(ctx context.Context, key string) error {
	return r.deleteSession(ctx, key)
}

func (r *fakeSessionRepo) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	return r.deleteAllForUser(ctx, userID)
}

func (r *fakeSessionRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int, error) {
	return r.deleteStale(ctx, cutoff)
}

func (r *fakeSessionRepo) ListAll(ctx context.Context) ([]*domain.Session, error) {
	return r.listAll(ctx)
}

func (r *fakeSessionRepo) ListForUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	return r.listForUser(ctx, userID)
}

func (r *fakeSessionRepo) ListPretendingForUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	return r.listPretendingForUser(ctx, userID)
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var (
	testUser = &domain.User{
		ID:       "user-1",
		Email:    "jpnance@gmail.com",
		Username: "jpnance",
		Admin:    true,
	}
	testTarget = &domain.User{
		ID:       "user-2",
		Email:    "other@example.com",
		Username: "other",
	}
)
