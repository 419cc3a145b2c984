package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/coinflipper/login-service/internal/domain"
	"github.com/coinflipper/login-service/internal/identity"
	"github.com/coinflipper/login-service/internal/repository"
)

type SessionUsecase struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	logger   *slog.Logger
}

func NewSessionUsecase(sessions repository.SessionRepository, users repository.UserRepository, logger *slog.Logger) *SessionUsecase {
	return &SessionUsecase{
		sessions: sessions,
		users:    users,
		logger:   logger.With("component", "session_usecase"),
	}
}

// Resolve turns a cookie value into a request identity. It never fails:
// an empty key, an unknown or expired session, or a store hiccup all
// degrade to logged out so a database blip can't lock everyone out.
// Resolve does not bump last_activity; it runs on every request and the
// write amplification isn't worth it.
func (u *SessionUsecase) Resolve(ctx context.Context, key string) identity.Identity {
	if key == "" {
		return identity.Anonymous()
	}

	session, err := u.sessions.Find(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			u.logger.WarnContext(ctx, "session lookup failed, treating as logged out", "error", err)
		}
		return identity.Anonymous()
	}

	id := identity.Identity{
		Session:       session,
		User:          session.User,
		EffectiveUser: session.EffectiveUser(),
	}

	// Admins additionally see every one of their sessions with a pretend
	// target in flight. Best effort, same as the rest of Resolve.
	if session.User.Admin {
		pretending, err := u.sessions.ListPretendingForUser(ctx, session.UserID)
		if err != nil {
			u.logger.WarnContext(ctx, "pretending sessions lookup failed", "error", err)
		} else {
			id.PretendingSessions = pretending
		}
	}

	return id
}

// Retrieve is the explicit entry point: it bumps last_activity, which is
// what keeps a session clear of the idle expiry and feeds the staleness
// numbers on the admin dashboard.
func (u *SessionUsecase) Retrieve(ctx context.Context, key string) (*domain.Session, error) {
	session, err := u.sessions.Find(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := u.sessions.Touch(ctx, key); err != nil {
		return nil, err
	}

	now := time.Now()
	session.LastActivity = &now
	return session, nil
}

// Delete removes exactly one session by key.
func (u *SessionUsecase) Delete(ctx context.Context, key string) error {
	return u.sessions.Delete(ctx, key)
}

// DeleteAllForOwner logs the owner of key out everywhere. The seed key must
// resolve; everything owned by that user goes, pretend targets included.
func (u *SessionUsecase) DeleteAllForOwner(ctx context.Context, key string) (int, error) {
	session, err := u.sessions.Find(ctx, key)
	if err != nil {
		return 0, err
	}
	return u.sessions.DeleteAllForUser(ctx, session.UserID)
}

// Cleanup bulk-deletes sessions idle past threshold or with no recorded
// activity at all. The 365-day expiry on lookup remains the backstop.
func (u *SessionUsecase) Cleanup(ctx context.Context, threshold time.Duration) (int, error) {
	if threshold <= 0 {
		threshold = domain.SessionStaleAfter
	}
	return u.sessions.DeleteStale(ctx, time.Now().Add(-threshold))
}

// UserSummary is one row of the dashboard aggregate: how many live
// sessions a user has and when any of them was last seen.
type UserSummary struct {
	Username     string     `json:"username"`
	Count        int        `json:"count"`
	LastActivity *time.Time `json:"lastActivity,omitempty"`
}

type Dashboard struct {
	Sessions      []*domain.Session
	Summaries     []UserSummary
	TotalSessions int
	UniqueUsers   int
	StaleSessions int
}

// SessionsDashboard aggregates every live session per owner, counting how
// many are past the staleness threshold shown to the admin.
func (u *SessionUsecase) SessionsDashboard(ctx context.Context, staleThreshold time.Duration) (*Dashboard, error) {
	if staleThreshold <= 0 {
		staleThreshold = domain.SessionStaleAfter
	}

	sessions, err := u.sessions.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	staleCutoff := time.Now().Add(-staleThreshold)
	byUser := make(map[string]*UserSummary)
	var order []string
	stale := 0

	for _, s := range sessions {
		if s.LastActivity == nil || s.LastActivity.Before(staleCutoff) {
			stale++
		}

		summary, ok := byUser[s.User.Username]
		if !ok {
			summary = &UserSummary{Username: s.User.Username}
			byUser[s.User.Username] = summary
			order = append(order, s.User.Username)
		}
		summary.Count++
		if s.LastActivity != nil && (summary.LastActivity == nil || s.LastActivity.After(*summary.LastActivity)) {
			summary.LastActivity = s.LastActivity
		}
	}

	summaries := make([]UserSummary, 0, len(order))
	for _, username := range order {
		summaries = append(summaries, *byUser[username])
	}

	return &Dashboard{
		Sessions:      sessions,
		Summaries:     summaries,
		TotalSessions: len(sessions),
		UniqueUsers:   len(byUser),
		StaleSessions: stale,
	}, nil
}

// ListForUsername returns every session owned by the named user.
func (u *SessionUsecase) ListForUsername(ctx context.Context, username string) ([]*domain.Session, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return u.sessions.ListForUser(ctx, user.ID)
}

// DeleteAllForUsername revokes every session owned by the named user.
func (u *SessionUsecase) DeleteAllForUsername(ctx context.Context, username string) (int, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	return u.sessions.DeleteAllForUser(ctx, user.ID)
}
