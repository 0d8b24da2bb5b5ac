// Package handler implements the HTTP endpoints. Handlers bind request
// DTOs, delegate to the service layer and translate failure kinds into
// stable {code, message} responses.
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/joonhak/mm-auth-server/internal/config"
	"github.com/joonhak/mm-auth-server/internal/middleware"
	"github.com/joonhak/mm-auth-server/internal/model"
	"github.com/joonhak/mm-auth-server/internal/service"
	"github.com/joonhak/mm-auth-server/internal/token"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg  config.Config
	Auth *service.AuthService
}

func NewAuthHandler(cfg config.Config, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: auth}
}

// ----- DTOs -----

type signupReq struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type oauthReq struct {
	Attributes  map[string]any `json:"attributes"`
	AccessToken string         `json:"access_token"` // provider token, for revocation on failure
}
type logoutReq struct {
	Email string `json:"email"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type accountPart struct {
	ID          uint64 `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Provider    string `json:"provider,omitempty"`
	Role        string `json:"role"`
	Points      int    `json:"points"`
	Theme       int    `json:"theme"`
}
type authResp struct {
	Account accountPart `json:"account"`
	Access  tokenPart   `json:"access"`
	Refresh tokenPart   `json:"refresh"`
}

func newAuthResp(res service.AuthResult) authResp {
	return authResp{
		Account: newAccountPart(res.Account),
		Access:  tokenPart{Token: res.Access.Value, Expires: res.Access.ExpiresAt},
		Refresh: tokenPart{Token: res.Refresh.Value, Expires: res.Refresh.ExpiresAt},
	}
}

func newAccountPart(a model.Account) accountPart {
	return accountPart{
		ID:          a.ID,
		Email:       a.Email,
		DisplayName: a.DisplayName,
		Provider:    a.Provider,
		Role:        a.Role,
		Points:      a.Points,
		Theme:       a.Theme,
	}
}

// Signup creates a local account and returns tokens immediately.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.Email == "" || req.Password == "" || req.DisplayName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password/display_name required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	res, err := h.Auth.Signup(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, newAuthResp(res))
}

// Login verifies local credentials and returns a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	res, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newAuthResp(res))
}

// OAuthLogin upserts an account from a federated identity payload. The
// handshake with the provider happens upstream; this endpoint receives the
// already-fetched user-info attributes.
func (h *AuthHandler) OAuthLogin(c echo.Context) error {
	provider := strings.ToLower(c.Param("provider"))
	var req oauthReq
	if err := c.Bind(&req); err != nil || len(req.Attributes) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "attributes required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	res, err := h.Auth.OAuthLogin(ctx, provider, req.Attributes, req.AccessToken)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newAuthResp(res))
}

// Reissue exchanges an expired access token for a fresh pair. This is the
// one endpoint the gate exempts, since its caller is expected to present an
// expired token.
func (h *AuthHandler) Reissue(c echo.Context) error {
	raw, ok := token.ResolveBearer(c.Request().Header.Get(h.Cfg.JWTHeader), h.Cfg.JWTPrefix)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"code":    "INVALID_TOKEN",
			"message": "access token required",
		})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	res, err := h.Auth.Reissue(ctx, raw)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newAuthResp(res))
}

// Logout drops the caller's refresh token. Prefers the authenticated
// subject; falls back to an explicit email in the body so a client with an
// expired access token can still end its session. Idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	email := ""
	if ac, ok := middleware.CurrentAuth(c); ok {
		email = ac.Email
	}
	if email == "" {
		var req logoutReq
		_ = c.Bind(&req)
		email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "authentication or email required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, email); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated account's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	ac, ok := middleware.CurrentAuth(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	ctx, cancel := reqContext(c)
	defer cancel()

	account, err := h.Auth.Account(ctx, ac.Email)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, newAccountPart(account))
}

func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
