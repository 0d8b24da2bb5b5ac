package service

import "errors"

// Failure kinds surfaced by the auth flows. Handlers translate these into
// stable response codes; none should escape as an unclassified fault.
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrPasswordMismatch     = errors.New("password mismatch")
	ErrDuplicateEmail       = errors.New("email already in use")
	ErrDuplicateDisplayName = errors.New("display name already in use")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
	ErrInvalidToken         = errors.New("invalid token")
)
