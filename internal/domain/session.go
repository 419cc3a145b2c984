package domain

import "time"

const (
	// SessionMaxIdle is the hard expiry: a session untouched for a year is
	// treated as gone by the store layer.
	SessionMaxIdle = 365 * 24 * time.Hour

	// SessionStaleAfter is the default threshold for the manual cleanup
	// sweep and the staleness counts on the admin dashboard.
	SessionStaleAfter = 30 * 24 * time.Hour
)

// Session binds an opaque cookie token to a user. PretendingTo, when set,
// points at the user an admin is currently impersonating; the owning user
// never changes.
type Session struct {
	Key          string
	UserID       string
	PretendingTo *string
	LastActivity *time.Time
	CreatedAt    time.Time

	// Populated by the store on lookup.
	User        *User
	PretendUser *User
}

// EffectiveUser is the identity content should be rendered as: the pretend
// target while impersonating, the owner otherwise. Authorization decisions
// must use User, never this.
func (s *Session) EffectiveUser() *User {
	if s.PretendUser != nil {
		return s.PretendUser
	}
	return s.User
}
