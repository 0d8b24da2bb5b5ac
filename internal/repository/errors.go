// Package repository contains the persistence layer: accounts in MySQL and
// refresh tokens in Redis. Sentinel errors let the service layer distinguish
// failure scenarios without inspecting driver-specific errors.
package repository

import "errors"

// ErrAccountNotFound is returned when no account exists for the given email.
var ErrAccountNotFound = errors.New("account not found")

// ErrDuplicateEmail is returned when an insert collides with the unique
// email key.
var ErrDuplicateEmail = errors.New("email already exists")

// ErrRefreshTokenNotFound is returned when no refresh token is stored for a
// subject, either because none was ever issued or because the store-level
// TTL already reclaimed it.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")
