// Package router wires the HTTP routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/joonhak/mm-auth-server/internal/config"
	"github.com/joonhak/mm-auth-server/internal/handler"
	"github.com/joonhak/mm-auth-server/internal/middleware"
	"github.com/joonhak/mm-auth-server/internal/model"
	"github.com/joonhak/mm-auth-server/internal/token"
)

// ReissuePath is the single route the authentication gate exempts from
// token verification: its caller is expected to present an expired access
// token.
const ReissuePath = "/v1/auth/reissue"

// Register sets up every route. The auth gate runs on all of them; the
// rate limiter guards the credential endpoints against brute forcing.
func Register(e *echo.Echo, cfg config.Config, codec *token.Codec, a *handler.AuthHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	e.Use(middleware.AuthGate(codec, cfg.JWTHeader, cfg.JWTPrefix, ReissuePath))

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Credential issuance; no prior session required.
	g := e.Group("/v1/auth", limiter)
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/oauth/:provider", a.OAuthLogin)
	g.POST("/reissue", a.Reissue)
	// Logout accepts either an authenticated subject or an explicit email
	// in the body, so a session can be ended with an expired access token.
	g.POST("/logout", a.Logout)

	// Routes requiring a live access token.
	auth := e.Group("/v1")
	auth.Use(middleware.RequireAuth())
	auth.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	auth.GET("/me", a.Me)
}
