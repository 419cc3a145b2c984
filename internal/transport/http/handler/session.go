package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coinflipper/login-service/internal/domain"
	"github.com/coinflipper/login-service/internal/metrics"
	"github.com/gin-gonic/gin"
)

// sessionUsecaser is the subset of SessionUsecase the handler needs.
type sessionUsecaser interface {
	Retrieve(ctx context.Context, key string) (*domain.Session, error)
	Delete(ctx context.Context, key string) error
	DeleteAllForOwner(ctx context.Context, key string) (int, error)
}

type SessionHandler struct {
	sessions sessionUsecaser
	cookies  CookieConfig
	logger   *slog.Logger
}

func NewSessionHandler(sessions sessionUsecaser, cookies CookieConfig, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		cookies:  cookies,
		logger:   logger.With("component", "session_handler"),
	}
}

type retrieveRequest struct {
	Key string `json:"key"`
}

// POST /sessions/retrieve
// The explicit retrieval entry point — the one path that refreshes
// last_activity. Key comes from the JSON body, falling back to the cookie.
func (h *SessionHandler) Retrieve(c *gin.Context) {
	var req retrieveRequest
	_ = c.ShouldBindJSON(&req)
	key := req.Key
	if key == "" {
		key, _ = c.Cookie(sessionCookieName)
	}
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No session key provided."})
		return
	}

	session, err := h.sessions.Retrieve(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errNoSession})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "retrieve session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, toSessionResponse(session))
}

// GET|POST /sessions/delete and /sessions/delete/:key
// Logout. The path key wins; otherwise the caller's own cookie is used.
func (h *SessionHandler) Delete(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		key, _ = c.Cookie(sessionCookieName)
	}

	if err := h.sessions.Delete(c.Request.Context(), key); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errNoSession})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.SessionsDeletedTotal.WithLabelValues("logout").Inc()
	clearSessionCookie(c, h.cookies)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GET|POST /sessions/deleteAll and /sessions/deleteAll/:key
// Logs the owner of the seed key out everywhere.
func (h *SessionHandler) DeleteAll(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		key, _ = c.Cookie(sessionCookieName)
	}

	deleted, err := h.sessions.DeleteAllForOwner(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errNoSession})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "delete all sessions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.SessionsDeletedTotal.WithLabelValues("logout_all").Add(float64(deleted))
	clearSessionCookie(c, h.cookies)
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}
