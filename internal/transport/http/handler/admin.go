package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coinflipper/login-service/internal/domain"
	"github.com/coinflipper/login-service/internal/identity"
	"github.com/coinflipper/login-service/internal/metrics"
	"github.com/coinflipper/login-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

type adminUserUsecaser interface {
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, input usecase.UpdateUserInput) (*domain.User, error)
}

type adminSessionUsecaser interface {
	SessionsDashboard(ctx context.Context, staleThreshold time.Duration) (*usecase.Dashboard, error)
	ListForUsername(ctx context.Context, username string) ([]*domain.Session, error)
	Delete(ctx context.Context, key string) error
	DeleteAllForUsername(ctx context.Context, username string) (int, error)
	Cleanup(ctx context.Context, threshold time.Duration) (int, error)
}

type pretendUsecaser interface {
	StartPretending(ctx context.Context, sessionKey, targetUsername string) (*domain.Session, error)
	StopPretending(ctx context.Context, sessionKey string) error
	SetPretendOnSession(ctx context.Context, callerUserID, sessionKey, targetUsername string) error
}

// AdminHandler serves the admin panel endpoints. Every route here sits
// behind RequireLogin + RequireAdmin on the raw identity.
type AdminHandler struct {
	users          adminUserUsecaser
	sessions       adminSessionUsecaser
	pretend        pretendUsecaser
	staleThreshold time.Duration
	logger         *slog.Logger
}

func NewAdminHandler(
	users adminUserUsecaser,
	sessions adminSessionUsecaser,
	pretend pretendUsecaser,
	staleThreshold time.Duration,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		users:          users,
		sessions:       sessions,
		pretend:        pretend,
		staleThreshold: staleThreshold,
		logger:         logger.With("component", "admin_handler"),
	}
}

// GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list users", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

type adminUserForm struct {
	Email     string `json:"email" form:"email" binding:"required"`
	Username  string `json:"username" form:"username" binding:"required"`
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
	Admin     string `json:"admin" form:"admin"`
}

// POST /admin/users/add
// Form flow: outcomes are redirects with the reason query-encoded.
func (h *AdminHandler) AddUser(c *gin.Context) {
	var form adminUserForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusSeeOther, "/admin/users/add?error=missing-fields")
		return
	}

	_, err := h.users.Create(c.Request.Context(), usecase.CreateUserInput{
		Email:     form.Email,
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Admin:     form.Admin == "on" || form.Admin == "true",
	})
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		c.Redirect(http.StatusSeeOther, "/admin/users/add?error=invalid-email")
	case errors.Is(err, domain.ErrDuplicateUser):
		c.Redirect(http.StatusSeeOther, "/admin/users/add?error=duplicate")
	case err != nil:
		h.logger.ErrorContext(c.Request.Context(), "add user", "error", err)
		c.Redirect(http.StatusSeeOther, "/admin/users/add?error=unknown")
	default:
		c.Redirect(http.StatusSeeOther, "/admin/users")
	}
}

// POST /admin/users/edit/:userId
func (h *AdminHandler) EditUser(c *gin.Context) {
	userID := c.Param("userId")

	var form adminUserForm
	if err := c.ShouldBind(&form); err != nil {
		c.Redirect(http.StatusSeeOther, "/admin/users/edit/"+userID+"?error=missing-fields")
		return
	}

	_, err := h.users.Update(c.Request.Context(), usecase.UpdateUserInput{
		ID:        userID,
		Email:     form.Email,
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Admin:     form.Admin == "on" || form.Admin == "true",
	})
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.Redirect(http.StatusSeeOther, "/admin/users")
	case errors.Is(err, domain.ErrInvalidEmail):
		c.Redirect(http.StatusSeeOther, "/admin/users/edit/"+userID+"?error=invalid-email")
	case errors.Is(err, domain.ErrDuplicateUser):
		c.Redirect(http.StatusSeeOther, "/admin/users/edit/"+userID+"?error=duplicate")
	case err != nil:
		h.logger.ErrorContext(c.Request.Context(), "edit user", "error", err)
		c.Redirect(http.StatusSeeOther, "/admin/users/edit/"+userID+"?error=unknown")
	default:
		c.Redirect(http.StatusSeeOther, "/admin/users/edit/"+userID+"?success=updated")
	}
}

// GET /admin/sessions
func (h *AdminHandler) SessionsDashboard(c *gin.Context) {
	dash, err := h.sessions.SessionsDashboard(c.Request.Context(), h.staleThreshold)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "sessions dashboard", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	sessions := make([]sessionResponse, 0, len(dash.Sessions))
	for _, s := range dash.Sessions {
		sessions = append(sessions, toSessionResponse(s))
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions":      sessions,
		"users":         dash.Summaries,
		"totalSessions": dash.TotalSessions,
		"totalUsers":    dash.UniqueUsers,
		"oldSessions":   dash.StaleSessions,
	})
}

// GET /admin/sessions/:username
func (h *AdminHandler) SessionsForUser(c *gin.Context) {
	sessions, err := h.sessions.ListForUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errNoSuchUser})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "sessions for user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(s))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

// POST /admin/pretend/:username and /admin/pretend/stop
// "stop" shadows the username route the same way route order would in
// other stacks: a static sibling of a param isn't allowed in gin's tree,
// so the branch lives here.
func (h *AdminHandler) Pretend(c *gin.Context) {
	id := identity.FromContext(c.Request.Context())
	if id.Session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in."})
		return
	}

	username := c.Param("username")
	if username == "stop" {
		if err := h.pretend.StopPretending(c.Request.Context(), id.Session.Key); err != nil {
			h.pretendError(c, err)
			return
		}
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	if _, err := h.pretend.StartPretending(c.Request.Context(), id.Session.Key, username); err != nil {
		h.pretendError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// POST /admin/sessions/:key — only the cleanup pseudo-key is valid here;
// real session keys only appear one segment deeper.
func (h *AdminHandler) SessionsAction(c *gin.Context) {
	if c.Param("key") != "cleanup" {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	deleted, err := h.sessions.Cleanup(c.Request.Context(), h.staleThreshold)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "cleanup sessions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.SessionsDeletedTotal.WithLabelValues("cleanup").Add(float64(deleted))
	h.logger.InfoContext(c.Request.Context(), "stale sessions cleaned up", "deleted", deleted)
	c.Redirect(http.StatusSeeOther, "/admin/sessions")
}

// POST /admin/sessions/:key/:action dispatches the three session row
// operations that share this shape:
//
//	/admin/sessions/delete/<key>
//	/admin/sessions/delete-user/<username>
//	/admin/sessions/<key>/pretend
func (h *AdminHandler) SessionsSubAction(c *gin.Context) {
	first := c.Param("key")
	second := c.Param("action")

	switch {
	case first == "delete":
		h.deleteSession(c, second)
	case first == "delete-user":
		h.deleteUserSessions(c, second)
	case second == "pretend":
		h.setPretendOnSession(c, first)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	}
}

func (h *AdminHandler) deleteSession(c *gin.Context, key string) {
	if err := h.sessions.Delete(c.Request.Context(), key); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": errNoSession})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "admin delete session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.SessionsDeletedTotal.WithLabelValues("admin").Inc()
	c.Redirect(http.StatusSeeOther, "/admin/sessions")
}

func (h *AdminHandler) deleteUserSessions(c *gin.Context, username string) {
	deleted, err := h.sessions.DeleteAllForUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Nothing to revoke; land back on the dashboard either way.
			c.Redirect(http.StatusSeeOther, "/admin/sessions")
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "admin delete user sessions", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.SessionsDeletedTotal.WithLabelValues("admin").Add(float64(deleted))
	c.Redirect(http.StatusSeeOther, "/admin/sessions")
}

// setPretendOnSession lets an admin point one of their own session rows at
// a target (or clear it with an empty username). Other users' rows are off
// limits regardless of admin status.
func (h *AdminHandler) setPretendOnSession(c *gin.Context, key string) {
	id := identity.FromContext(c.Request.Context())
	if id.User == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in."})
		return
	}

	target := c.PostForm("username")
	if err := h.pretend.SetPretendOnSession(c.Request.Context(), id.User.ID, key, target); err != nil {
		h.pretendError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/admin/sessions")
}

func (h *AdminHandler) pretendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errNoSuchUser})
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errNoSession})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": errForbidden})
	case errors.Is(err, domain.ErrSamePretendUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrSamePretendUser.Error()})
	default:
		h.logger.ErrorContext(c.Request.Context(), "pretend", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
