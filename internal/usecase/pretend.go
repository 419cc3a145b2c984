package usecase

import (
	"context"

	"github.com/coinflipper/login-service/internal/domain"
	"github.com/coinflipper/login-service/internal/repository"
)

type PretendUsecase struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
}

func NewPretendUsecase(sessions repository.SessionRepository, users repository.UserRepository) *PretendUsecase {
	return &PretendUsecase{sessions: sessions, users: users}
}

// StartPretending points the admin's existing session at targetUsername.
// The session keeps its owner, so admin checks on the raw identity keep
// passing while content renders as the target.
func (u *PretendUsecase) StartPretending(ctx context.Context, sessionKey, targetUsername string) (*domain.Session, error) {
	session, err := u.sessions.Find(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	// The route is already gated on the raw identity, but the invariant
	// lives here too: only an admin-owned session can pretend.
	if !session.User.Admin {
		return nil, domain.ErrForbidden
	}

	target, err := u.users.FindByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}
	if target.ID == session.UserID {
		return nil, domain.ErrSamePretendUser
	}

	if err := u.sessions.SetPretend(ctx, sessionKey, &target.ID); err != nil {
		return nil, err
	}

	session.PretendingTo = &target.ID
	session.PretendUser = target
	return session, nil
}

// StopPretending clears the pretend target. Clearing an already-clear
// session is a no-op success.
func (u *PretendUsecase) StopPretending(ctx context.Context, sessionKey string) error {
	session, err := u.sessions.Find(ctx, sessionKey)
	if err != nil {
		return err
	}

	if session.PretendingTo == nil {
		return nil
	}

	return u.sessions.SetPretend(ctx, sessionKey, nil)
}

// SetPretendOnSession is the fine-grained variant used by the sessions
// dashboard: the caller picks a session row and sets or clears its target.
// Admins may only touch their own sessions — mutating anyone else's is
// forbidden no matter who asks.
func (u *PretendUsecase) SetPretendOnSession(ctx context.Context, callerUserID, sessionKey, targetUsername string) error {
	session, err := u.sessions.Find(ctx, sessionKey)
	if err != nil {
		return err
	}

	if session.UserID != callerUserID || !session.User.Admin {
		return domain.ErrForbidden
	}

	if targetUsername == "" {
		if session.PretendingTo == nil {
			return nil
		}
		return u.sessions.SetPretend(ctx, sessionKey, nil)
	}

	target, err := u.users.FindByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target.ID == session.UserID {
		return domain.ErrSamePretendUser
	}

	return u.sessions.SetPretend(ctx, sessionKey, &target.ID)
}
