package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/userhub/user-service/internal/api/handler"
	"github.com/userhub/user-service/internal/api/middleware"
	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

// Dependencies carries the wired collaborators the router needs. The caller
// (cmd/api) decides which backend sits behind the repository.
type Dependencies struct {
	Users  ports.UserService
	Tokens ports.TokenService
	Repo   ports.UserRepository

	// Readiness pingers, keyed by dependency name ("mongodb", "postgres",
	// "redis").
	Readiness map[string]handler.Pinger

	// Metrics overrides the registerer the HTTP middleware reports to.
	// Defaults to the global prometheus registry.
	Metrics prometheus.Registerer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	promCfg := echoprometheus.MiddlewareConfig{Subsystem: "userservice"}
	if deps.Metrics != nil {
		promCfg.Registerer = deps.Metrics
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(promCfg))

	// --- Dependencies ---
	userHandler := handler.NewUserHandler(deps.Users, deps.Tokens)
	authMiddleware := middleware.Auth(deps.Tokens, deps.Repo)

	// --- User routes ---
	v1 := e.Group("/api/v1")
	v1.POST("/user/register", userHandler.Register)
	v1.POST("/user/login", userHandler.Login)
	v1.GET("/user/me", userHandler.Me, authMiddleware)
	v1.DELETE("/user/:username", userHandler.Delete,
		authMiddleware, middleware.SelfOrRole("username", domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	v1.GET("/user/health", healthHandler.Liveness)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Metrics exposition ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
