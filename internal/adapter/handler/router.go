package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-minutes/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/meeting-minutes/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg             *config.Config
	authHandler     *Auth
	uploadHandler   *Upload
	meetingsHandler *Meetings
	resolver        middleware.Resolver
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, authHandler *Auth, uploadHandler *Upload, meetingsHandler *Meetings, resolver middleware.Resolver) *Router {
	return &Router{
		cfg:             cfg,
		authHandler:     authHandler,
		uploadHandler:   uploadHandler,
		meetingsHandler: meetingsHandler,
		resolver:        resolver,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	api := e.Group("/api")

	api.GET("/health", rt.healthCheck)

	rt.setupAuthRoutes(api)
	rt.setupUploadRoutes(api)
	rt.setupMeetingRoutes(api)
}

// setupAuthRoutes configures registration, login and logout
func (rt *Router) setupAuthRoutes(g *echo.Group) {
	g.POST("/register", rt.authHandler.Register)
	g.POST("/login", rt.authHandler.Login)
	g.POST("/logout", rt.authHandler.Logout)
}

// setupUploadRoutes configures the upload pipeline endpoint. The
// handler resolves the owner itself so the identity failure can be
// reported before the body is consumed.
func (rt *Router) setupUploadRoutes(g *echo.Group) {
	g.POST("/upload", rt.uploadHandler.Handle)
}

// setupMeetingRoutes configures the history endpoints, owner-scoped via
// the identity middleware.
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings", middleware.EchoIdentity(rt.resolver))
	meetings.GET("", rt.meetingsHandler.List)
	meetings.POST("", rt.meetingsHandler.Save)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
	})
}
