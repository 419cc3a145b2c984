package domain

import "time"

// LinkTTL is how long a magic link stays redeemable. Enforced by the
// store layer; an expired link is indistinguishable from one that never
// existed.
const LinkTTL = 5 * time.Minute

// Link is a single-use magic login link. Consuming it deletes it, so a
// key can never mint two sessions.
type Link struct {
	Key              string
	UserID           string
	RedirectTo       *string
	TokenCallbackURL *string
	CreatedAt        time.Time
}
