// Package identity carries the resolved request identity through the
// request context: who actually owns the session (raw) and who the request
// should be rendered as (effective, differing only while an admin is
// pretending).
package identity

import (
	"context"

	"github.com/coinflipper/login-service/internal/domain"
)

type ctxKey struct{}

type Identity struct {
	Session *domain.Session

	// User is the raw authenticated user. Authorization checks use this
	// and only this.
	User *domain.User

	// EffectiveUser is the pretend target while impersonating, else User.
	// All content and business logic uses this.
	EffectiveUser *domain.User

	// PretendingSessions lists the raw user's sessions that currently
	// have a pretend target. Populated for admins only, so the banner
	// layer can show every impersonation in flight and offer stop links.
	PretendingSessions []*domain.Session
}

// Anonymous is the logged-out identity.
func Anonymous() Identity {
	return Identity{}
}

func (id Identity) LoggedIn() bool {
	return id.User != nil
}

// IsAdmin reports whether the raw user is an admin. Pretending to be a
// non-admin must not hide the admin bit, and pretending can never grant it.
func (id Identity) IsAdmin() bool {
	return id.User != nil && id.User.Admin
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the request identity. Returns Anonymous if absent.
func FromContext(ctx context.Context) Identity {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok {
		return Anonymous()
	}
	return id
}
