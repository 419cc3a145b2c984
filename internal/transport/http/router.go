package httptransport

import (
	"log/slog"

	"github.com/coinflipper/login-service/internal/transport/http/handler"
	"github.com/coinflipper/login-service/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	resolver middleware.SessionResolver,
	authHandler *handler.AuthHandler,
	sessionHandler *handler.SessionHandler,
	userHandler *handler.UserHandler,
	adminHandler *handler.AdminHandler,
	adminAPIKey string,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.AttachSession(resolver))

	r.GET("/", handler.Welcome)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", authHandler.Login)

	// Session lifecycle. Delete routes answer GET too so a plain emailed
	// or bookmarked logout link works.
	r.GET("/sessions/create/:linkKey", authHandler.ConsumeLink)
	r.GET("/sessions/delete", sessionHandler.Delete)
	r.POST("/sessions/delete", sessionHandler.Delete)
	r.GET("/sessions/delete/:key", sessionHandler.Delete)
	r.POST("/sessions/delete/:key", sessionHandler.Delete)
	r.GET("/sessions/deleteAll", sessionHandler.DeleteAll)
	r.POST("/sessions/deleteAll", sessionHandler.DeleteAll)
	r.GET("/sessions/deleteAll/:key", sessionHandler.DeleteAll)
	r.POST("/sessions/deleteAll/:key", sessionHandler.DeleteAll)
	r.POST("/sessions/retrieve", sessionHandler.Retrieve)

	// Programmatic user API behind the shared secret.
	users := r.Group("/users", middleware.RequireAPIKey(adminAPIKey))
	users.POST("/create", userHandler.Create)
	users.GET("/:email", userHandler.Retrieve)

	// Admin panel. Gating uses the raw identity, so an admin who is
	// currently pretending keeps access.
	admin := r.Group("/admin", middleware.RequireLogin(), middleware.RequireAdmin())
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users/add", adminHandler.AddUser)
	admin.POST("/users/edit/:userId", adminHandler.EditUser)
	admin.GET("/sessions", adminHandler.SessionsDashboard)
	admin.GET("/sessions/:username", adminHandler.SessionsForUser)
	// gin's tree can't mix static children with a param at the same
	// position, so these share a param and branch on its value.
	admin.POST("/pretend/:username", adminHandler.Pretend)
	admin.POST("/sessions/:key", adminHandler.SessionsAction)
	admin.POST("/sessions/:key/:action", adminHandler.SessionsSubAction)

	return r
}
