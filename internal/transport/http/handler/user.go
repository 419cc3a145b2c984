package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coinflipper/login-service/internal/domain"
	"github.com/coinflipper/login-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

// userUsecaser is the subset of UserUsecase the API handler needs.
type userUsecaser interface {
	Create(ctx context.Context, input usecase.CreateUserInput) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// UserHandler serves the programmatic user API, guarded by the shared
// secret middleware.
type UserHandler struct {
	users  userUsecaser
	logger *slog.Logger
}

func NewUserHandler(users userUsecaser, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger.With("component", "user_handler")}
}

type createUserRequest struct {
	Email     string `json:"email" form:"email" binding:"required"`
	Username  string `json:"username" form:"username" binding:"required"`
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
}

// POST /users/create
// Programmatic creation never grants admin; that takes a human in the
// admin panel.
func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errNoEmail})
		return
	}

	user, err := h.users.Create(c.Request.Context(), usecase.CreateUserInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Admin:     false,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address provided."})
		case errors.Is(err, domain.ErrDuplicateUser):
			c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrDuplicateUser.Error()})
		default:
			h.logger.ErrorContext(c.Request.Context(), "create user", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// GET /users/:email
func (h *UserHandler) Retrieve(c *gin.Context) {
	user, err := h.users.FindByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": errNoUser})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "retrieve user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}
