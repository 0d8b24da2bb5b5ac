package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/joonhak/mm-auth-server/internal/oauth"
	"github.com/joonhak/mm-auth-server/internal/service"
)

// StatusRefreshTokenExpired signals that the stored refresh token is no
// longer valid and the client must fully re-authenticate. Paired with the
// gate's 701 for expired access tokens, deliberately outside the generic
// 401/403 range.
const StatusRefreshTokenExpired = 702

// writeError maps a service failure kind onto its stable status and code.
// Unclassified errors become an opaque 500; details stay in the server log.
func writeError(c echo.Context, err error) error {
	status, code := http.StatusInternalServerError, "INTERNAL_ERROR"
	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		status, code = http.StatusNotFound, "ACCOUNT_NOT_FOUND"
	case errors.Is(err, service.ErrPasswordMismatch):
		status, code = http.StatusUnauthorized, "PASSWORD_MISMATCH"
	case errors.Is(err, service.ErrDuplicateEmail):
		status, code = http.StatusConflict, "DUPLICATE_EMAIL"
	case errors.Is(err, service.ErrDuplicateDisplayName):
		status, code = http.StatusConflict, "DUPLICATE_DISPLAY_NAME"
	case errors.Is(err, service.ErrRefreshTokenExpired):
		status, code = StatusRefreshTokenExpired, "REFRESH_TOKEN_EXPIRED"
	case errors.Is(err, service.ErrInvalidToken):
		status, code = http.StatusUnauthorized, "INVALID_TOKEN"
	case errors.Is(err, oauth.ErrUnsupportedProvider):
		status, code = http.StatusBadRequest, "UNSUPPORTED_PROVIDER"
	case errors.Is(err, oauth.ErrMissingConsent):
		status, code = http.StatusBadRequest, "MISSING_REQUIRED_CONSENT"
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("handler: %s %s failed: %v", c.Request().Method, c.Path(), err)
		msg = "internal error"
	}
	return c.JSON(status, echo.Map{"code": code, "message": msg})
}
