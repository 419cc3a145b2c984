package domain

import (
	"regexp"
	"strings"
	"time"
)

type User struct {
	ID        string
	Email     string
	Username  string
	FirstName string
	LastName  string
	Admin     bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// emailRe is intentionally loose: one @, non-empty local part, and a dot
// somewhere in the domain. Real validation happens when the login email
// bounces.
var emailRe = regexp.MustCompile(`.+@.+\..+`)

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether email has the minimal local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}
