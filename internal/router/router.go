// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/SHADOW-465/LockedIn-sub001/internal/config"
	"github.com/SHADOW-465/LockedIn-sub001/internal/handler"
	"github.com/SHADOW-465/LockedIn-sub001/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication
// on the provided Echo instance: the health check for load balancers
// and monitoring, and the gate endpoint, which must answer for
// unauthenticated callers too and therefore does its own lenient
// token handling.
func RegisterRoutes(e *echo.Echo, g *handler.GateHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/gate", g.Evaluate)
}

// RegisterAuth registers the authentication endpoints and /v1/me.
// Unauthenticated token operations live under /v1/auth; /v1/me sits
// behind the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// CoreHandlers bundles the handlers mounted on the protected core
// group so registration stays one call in main.
type CoreHandlers struct {
	Punish     *handler.PunishHandler
	Usage      *handler.UsageHandler
	Sessions   *handler.SessionHandler
	Onboarding *handler.OnboardingHandler
	Analysis   *handler.AnalysisHandler
}

// RegisterCore registers the enforcement and quota endpoints.  The
// whole group requires a valid access token and is rate limited;
// the analysis route additionally requires the caller not to be
// locked out.  Punishment, usage inspection and session management
// remain reachable while locked, mirroring the gate's status/appeal
// carve-out.
func RegisterCore(e *echo.Echo, h CoreHandlers, cfg config.Config, rlCfg config.RateLimitConfig, rdb *redis.Client, sessions middleware.SessionLookup) {
	core := e.Group("/v1")
	core.Use(middleware.JWTAuth(cfg.JWTSecret))
	core.Use(middleware.NewTokenBucket(rlCfg, rdb))

	core.POST("/punish", h.Punish.Apply)
	core.GET("/punish", h.Punish.Preview)
	core.GET("/usage", h.Usage.Usage)

	core.POST("/sessions", h.Sessions.Open)
	core.GET("/sessions/current", h.Sessions.Current)

	core.POST("/onboarding/complete", h.Onboarding.Complete)
	core.PUT("/profile/tier", h.Onboarding.SetTier)

	core.POST("/analysis", h.Analysis.Analyze, middleware.RequireUnlocked(sessions))
}
