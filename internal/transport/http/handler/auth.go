package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/coinflipper/login-service/internal/domain"
	"github.com/coinflipper/login-service/internal/metrics"
	"github.com/coinflipper/login-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	RequestLogin(ctx context.Context, input usecase.RequestLoginInput) (*domain.Link, error)
	ConsumeLink(ctx context.Context, linkKey string) (*domain.Session, *domain.Link, error)
}

type AuthHandler struct {
	auth    authUsecaser
	cookies CookieConfig
	logger  *slog.Logger
}

func NewAuthHandler(auth authUsecaser, cookies CookieConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:    auth,
		cookies: cookies,
		logger:  logger.With("component", "auth_handler"),
	}
}

// GET /login
// The page itself is rendered elsewhere; this echoes the query-encoded
// outcome of the last attempt so the front end has something to show.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	resp := gin.H{}
	switch c.Query("error") {
	case "invalid-email":
		resp["error"] = "Invalid email address."
	case "not-found":
		resp["error"] = errNoUser
	case "unknown":
		resp["error"] = "Unknown server error."
	}
	if c.Query("success") == "email-sent" {
		resp["success"] = "Check your email for your login link!"
	}
	c.JSON(http.StatusOK, resp)
}

// POST /login
// Web form flow: every outcome is a redirect back to /login with the
// reason query-encoded.
func (h *AuthHandler) Login(c *gin.Context) {
	input := usecase.RequestLoginInput{
		Email:            c.PostForm("email"),
		RedirectTo:       c.PostForm("redirectTo"),
		TokenCallbackURL: c.PostForm("tokenCallbackUrl"),
	}

	_, err := h.auth.RequestLogin(c.Request.Context(), input)
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		c.Redirect(http.StatusSeeOther, "/login?error=invalid-email")
	case errors.Is(err, domain.ErrUserNotFound):
		c.Redirect(http.StatusSeeOther, "/login?error=not-found")
	case err != nil:
		h.logger.ErrorContext(c.Request.Context(), "request login", "error", err)
		c.Redirect(http.StatusSeeOther, "/login?error=unknown")
	default:
		metrics.LinksIssuedTotal.Inc()
		c.Redirect(http.StatusSeeOther, "/login?success=email-sent")
	}
}

// GET /sessions/create/:linkKey
// Exchanges a clicked magic link for a session. The cookie is set on
// every successful exchange, including the callback branch, where the
// token additionally travels as a query parameter.
func (h *AuthHandler) ConsumeLink(c *gin.Context) {
	session, link, err := h.auth.ConsumeLink(c.Request.Context(), c.Param("linkKey"))
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errNoLink})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "consume link", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.LinksConsumedTotal.Inc()
	metrics.SessionsCreatedTotal.Inc()
	setSessionCookie(c, h.cookies, session.Key)

	if link.TokenCallbackURL != nil {
		target, err := url.Parse(*link.TokenCallbackURL)
		if err != nil {
			h.logger.ErrorContext(c.Request.Context(), "bad token callback url", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}
		q := target.Query()
		q.Set("token", session.Key)
		if link.RedirectTo != nil {
			q.Set("redirectTo", *link.RedirectTo)
		}
		target.RawQuery = q.Encode()
		c.Redirect(http.StatusFound, target.String())
		return
	}

	if link.RedirectTo != nil {
		c.Redirect(http.StatusFound, *link.RedirectTo)
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(session))
}
