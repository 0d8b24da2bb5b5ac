// Package middleware provides shared request processing: the bearer-token
// authentication gate, role enforcement and the Redis-backed rate limiter.
package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/joonhak/mm-auth-server/internal/token"
)

// AuthContext is the request-scoped identity built by the gate. It lives in
// the echo context for the duration of one request and is never shared or
// stored globally.
type AuthContext struct {
	Email    string
	Role     string
	RawToken string
}

const authContextKey = "auth_context"

// StatusAccessTokenExpired is the distinguished status emitted when a
// request carries an expired access token. It is deliberately not a generic
// 401 so clients know to call the reissue endpoint instead of
// re-authenticating from scratch.
const StatusAccessTokenExpired = 701

// AuthGate returns the per-request authentication gate. Behavior:
//
//   - the reissue path skips verification entirely (it is the one endpoint
//     expected to carry an expired access token)
//   - no bearer token: the request proceeds unauthenticated and per-route
//     authorization decides whether that is acceptable
//   - valid token: an AuthContext is attached and the chain continues
//   - expired token: the chain is aborted with status 701
//   - any other verification failure: proceeds unauthenticated
func AuthGate(codec *token.Codec, headerName, prefix, reissuePath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Path() == reissuePath {
				return next(c)
			}

			raw, ok := token.ResolveBearer(c.Request().Header.Get(headerName), prefix)
			if !ok {
				return next(c)
			}

			claims, err := codec.Verify(raw)
			if errors.Is(err, token.ErrExpired) {
				return c.JSON(StatusAccessTokenExpired, echo.Map{
					"code":    "ACCESS_TOKEN_EXPIRED",
					"message": "access token expired",
				})
			}
			if err != nil {
				return next(c)
			}

			c.Set(authContextKey, AuthContext{
				Email:    claims.Subject,
				Role:     claims.Role,
				RawToken: raw,
			})
			return next(c)
		}
	}
}

// CurrentAuth returns the AuthContext attached by the gate, if any.
func CurrentAuth(c echo.Context) (AuthContext, bool) {
	ac, ok := c.Get(authContextKey).(AuthContext)
	return ac, ok
}

// RequireAuth rejects requests that passed the gate unauthenticated.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentAuth(c); !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			return next(c)
		}
	}
}
