// Package model defines the persistent domain types shared by the
// repositories and services. Accounts are treated as immutable values:
// every state transition returns an updated copy which the caller then
// persists, so the local and federated login paths never mutate a shared
// instance.
package model

import "time"

// Role values stored in the accounts table and embedded in token claims.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Initial point grant on a user's first ever login, and the daily bonus
// awarded the first time they log in on a new calendar day.
const (
	firstLoginPoints = 100
	dailyLoginPoints = 10
)

// Account mirrors the 'accounts' table. Email is the stable unique key.
// Provider is set for federated accounts ("google", "kakao", ...) and empty
// for local ones; PasswordHash is the reverse. A local account that later
// signs in through a provider ends up with both.
type Account struct {
	ID               uint64
	Email            string
	Provider         string // federated source, empty for local accounts
	PasswordHash     string // bcrypt hash, empty for provider-backed accounts
	DisplayName      string
	Role             string
	Points           int
	Theme            int
	FailedLoginCount int
	Locked           bool
	LastLoginDate    *time.Time // calendar date of the most recent login
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewLocalAccount builds a fresh local account in its post-signup state.
func NewLocalAccount(email, passwordHash, displayName string) Account {
	return Account{
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		Role:         RoleUser,
	}
}

// TouchLogin applies the login-streak rule for a login happening on the
// given day and returns the updated account:
//
//	never logged in before  -> points = 100
//	first login of the day  -> points += 10
//	already logged in today -> unchanged
//
// The day is truncated to a calendar date so two logins on the same day
// award the bonus only once.
func (a Account) TouchLogin(now time.Time) Account {
	today := dateOf(now)
	switch {
	case a.LastLoginDate == nil:
		a.Points = firstLoginPoints
		a.LastLoginDate = &today
	case !a.LastLoginDate.Equal(today):
		a.Points += dailyLoginPoints
		a.LastLoginDate = &today
	}
	return a
}

// RecordLoginFailure increments the failed-login counter. The counter is
// tracked and exposed but no lockout threshold is enforced here.
func (a Account) RecordLoginFailure() Account {
	a.FailedLoginCount++
	return a
}

// ResetLoginFailures clears the failed-login counter after a successful
// password check.
func (a Account) ResetLoginFailures() Account {
	a.FailedLoginCount = 0
	return a
}

// MergeProviderIdentity folds a normalized federated identity into the
// account. Used on every federated login so a renamed profile or a local
// account linking a provider picks up the latest values.
func (a Account) MergeProviderIdentity(provider, displayName string) Account {
	a.Provider = provider
	if displayName != "" {
		a.DisplayName = displayName
	}
	if a.Role == "" {
		a.Role = RoleUser
	}
	return a
}

// dateOf truncates a timestamp to its UTC calendar date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
