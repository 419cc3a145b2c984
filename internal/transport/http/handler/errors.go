package handler

const (
	errInternalServer = "Internal server error"
	errNoEmail        = "No email address provided."
	errNoUser         = "No user with that email address."
	errNoSuchUser     = "No user found."
	errNoLink         = "No magic link found for that key."
	errNoSession      = "No session found for that key."
	errForbidden      = "Forbidden"
)
