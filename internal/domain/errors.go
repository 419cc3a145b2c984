package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrLinkNotFound    = errors.New("no magic link found for that key")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidEmail    = errors.New("invalid email address")
	ErrDuplicateUser   = errors.New("a user with that email or username already exists")
	ErrForbidden       = errors.New("forbidden")
	ErrSamePretendUser = errors.New("cannot pretend to be yourself")
)
