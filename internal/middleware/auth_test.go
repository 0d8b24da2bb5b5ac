package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/joonhak/mm-auth-server/internal/token"
)

const testSecret = "gate-test-secret-0123456789abcde"

func newGateEcho(t *testing.T, codec *token.Codec) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Use(AuthGate(codec, "Authorization", "Bearer", "/v1/auth/reissue"))

	e.GET("/open", func(c echo.Context) error {
		if ac, ok := CurrentAuth(c); ok {
			return c.String(http.StatusOK, "hello "+ac.Email)
		}
		return c.String(http.StatusOK, "anonymous")
	})
	e.POST("/v1/auth/reissue", func(c echo.Context) error {
		return c.String(http.StatusOK, "reissue")
	})
	e.GET("/private", func(c echo.Context) error {
		return c.String(http.StatusOK, "secret")
	}, RequireAuth())
	e.GET("/admin", func(c echo.Context) error {
		return c.String(http.StatusOK, "admin")
	}, RequireAuth(), RequireRole("ADMIN"))
	return e
}

func doGet(e *echo.Echo, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthGate(t *testing.T) {
	codec := token.NewCodec(testSecret, 30*time.Minute, time.Hour)

	t.Run("no token passes through unauthenticated", func(t *testing.T) {
		e := newGateEcho(t, codec)
		rec := doGet(e, "/open", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("valid token attaches the identity", func(t *testing.T) {
		e := newGateEcho(t, codec)
		access, err := codec.CreateAccessToken("a@x.com", "USER")
		require.NoError(t, err)

		rec := doGet(e, "/open", access.Value)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "hello a@x.com", rec.Body.String())
	})

	t.Run("expired token aborts with the dedicated status", func(t *testing.T) {
		e := newGateEcho(t, codec)
		expired, err := token.NewCodec(testSecret, -time.Minute, -time.Minute).
			CreateAccessToken("a@x.com", "USER")
		require.NoError(t, err)

		rec := doGet(e, "/open", expired.Value)
		require.Equal(t, StatusAccessTokenExpired, rec.Code)
		require.Contains(t, rec.Body.String(), "ACCESS_TOKEN_EXPIRED")
	})

	t.Run("garbage token passes through unauthenticated", func(t *testing.T) {
		e := newGateEcho(t, codec)
		rec := doGet(e, "/open", "not-a-jwt")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "anonymous", rec.Body.String())
	})

	t.Run("reissue path is exempt even with an expired token", func(t *testing.T) {
		e := newGateEcho(t, codec)
		expired, err := token.NewCodec(testSecret, -time.Minute, -time.Minute).
			CreateAccessToken("a@x.com", "USER")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/v1/auth/reissue", nil)
		req.Header.Set("Authorization", "Bearer "+expired.Value)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "reissue", rec.Body.String())
	})
}

func TestRequireAuth(t *testing.T) {
	codec := token.NewCodec(testSecret, 30*time.Minute, time.Hour)
	e := newGateEcho(t, codec)

	rec := doGet(e, "/private", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	access, err := codec.CreateAccessToken("a@x.com", "USER")
	require.NoError(t, err)
	rec = doGet(e, "/private", access.Value)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	codec := token.NewCodec(testSecret, 30*time.Minute, time.Hour)
	e := newGateEcho(t, codec)

	user, err := codec.CreateAccessToken("a@x.com", "USER")
	require.NoError(t, err)
	rec := doGet(e, "/admin", user.Value)
	require.Equal(t, http.StatusForbidden, rec.Code)

	admin, err := codec.CreateAccessToken("root@x.com", "ADMIN")
	require.NoError(t, err)
	rec = doGet(e, "/admin", admin.Value)
	require.Equal(t, http.StatusOK, rec.Code)
}
