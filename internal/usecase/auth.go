package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/coinflipper/login-service/internal/domain"
	"github.com/coinflipper/login-service/internal/email"
	"github.com/coinflipper/login-service/internal/repository"
	"github.com/coinflipper/login-service/internal/token"
)

type AuthUsecase struct {
	users    repository.UserRepository
	links    repository.LinkRepository
	sessions repository.SessionRepository
	email    email.Sender
	loginURL string
}

// NewAuthUsecase wires the magic-link flow. loginURL is the external base
// the emailed links point at, e.g. https://login.example.com:3000.
func NewAuthUsecase(
	users repository.UserRepository,
	links repository.LinkRepository,
	sessions repository.SessionRepository,
	emailSender email.Sender,
	loginURL string,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		links:    links,
		sessions: sessions,
		email:    emailSender,
		loginURL: loginURL,
	}
}

type RequestLoginInput struct {
	Email            string
	RedirectTo       string
	TokenCallbackURL string
}

// RequestLogin looks the user up by email, persists a single-use link, and
// emails it. The link survives a failed send: the user can ask again and
// either mail getting through logs them in.
func (u *AuthUsecase) RequestLogin(ctx context.Context, input RequestLoginInput) (*domain.Link, error) {
	if input.Email == "" {
		return nil, domain.ErrInvalidEmail
	}

	user, err := u.users.FindByEmail(ctx, domain.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	key, err := token.New()
	if err != nil {
		return nil, err
	}

	link := &domain.Link{Key: key, UserID: user.ID}
	if input.RedirectTo != "" {
		link.RedirectTo = &input.RedirectTo
	}
	if input.TokenCallbackURL != "" {
		link.TokenCallbackURL = &input.TokenCallbackURL
	}

	if err := u.links.Create(ctx, link); err != nil {
		return nil, err
	}

	url := u.loginURL + "/sessions/create/" + link.Key
	body := "Here's your login link! Click it anytime within the next five minutes " +
		"and you'll instantly be logged in.\n\n" + url

	if err := u.email.Send(ctx, user.Email, "Your login link", body); err != nil {
		return nil, fmt.Errorf("send login email: %w", err)
	}

	return link, nil
}

// ConsumeLink exchanges a clicked magic link for a fresh session. The claim
// is atomic, so a link mints at most one session no matter how many tabs
// race on it.
func (u *AuthUsecase) ConsumeLink(ctx context.Context, linkKey string) (*domain.Session, *domain.Link, error) {
	link, err := u.links.Claim(ctx, linkKey)
	if err != nil {
		return nil, nil, err
	}

	key, err := token.New()
	if err != nil {
		return nil, nil, err
	}

	session := &domain.Session{Key: key, UserID: link.UserID}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("create session: %w", err)
	}

	return session, link, nil
}
