// Package service implements the auth use cases: signup, local login,
// federated login, token reissue and logout. It composes the token codec,
// the account store, the refresh-token store and the identity normalizer
// behind small interfaces so the flows stay testable without MySQL or
// Redis.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joonhak/mm-auth-server/internal/model"
	"github.com/joonhak/mm-auth-server/internal/oauth"
	"github.com/joonhak/mm-auth-server/internal/queue"
	"github.com/joonhak/mm-auth-server/internal/repository"
	"github.com/joonhak/mm-auth-server/internal/token"
)

// AccountStore is the account persistence consumed by the auth flows.
// Satisfied by repository.AccountRepo.
type AccountStore interface {
	FindByEmail(ctx context.Context, email string) (model.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByDisplayName(ctx context.Context, displayName string) (bool, error)
	Save(ctx context.Context, a model.Account) (model.Account, error)
}

// RefreshTokenStore keeps one live refresh token per subject. Satisfied by
// repository.RefreshTokenRepo.
type RefreshTokenStore interface {
	Put(ctx context.Context, subject string, t token.Token) error
	Get(ctx context.Context, subject string) (token.Token, error)
	Delete(ctx context.Context, subject string) error
}

// PasswordHasher is the pluggable one-way hash used for local credentials.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// LoginPublisher emits a login event after successful credential issuance.
// Publishing is best-effort; failures never fail the request.
type LoginPublisher interface {
	PublishLogin(ctx context.Context, ev queue.LoginEvent) error
}

// AuthService orchestrates the credential-issuance flows.
type AuthService struct {
	accounts  AccountStore
	refresh   RefreshTokenStore
	codec     *token.Codec
	hasher    PasswordHasher
	providers *oauth.Registry
	revoker   oauth.Revoker
	publisher LoginPublisher
	now       func() time.Time
}

// NewAuthService wires the auth use cases. revoker and publisher may be nil
// when provider-token revocation or event publishing is not configured.
func NewAuthService(accounts AccountStore, refresh RefreshTokenStore, codec *token.Codec,
	hasher PasswordHasher, providers *oauth.Registry, revoker oauth.Revoker, publisher LoginPublisher) *AuthService {
	return &AuthService{
		accounts:  accounts,
		refresh:   refresh,
		codec:     codec,
		hasher:    hasher,
		providers: providers,
		revoker:   revoker,
		publisher: publisher,
		now:       time.Now,
	}
}

// AuthResult is the outcome of every successful credential-issuing flow.
type AuthResult struct {
	Account model.Account
	Access  token.Token
	Refresh token.Token
}

// Signup registers a local account and logs it in immediately.
func (s *AuthService) Signup(ctx context.Context, email, password, displayName string) (AuthResult, error) {
	if taken, err := s.accounts.ExistsByEmail(ctx, email); err != nil {
		return AuthResult{}, err
	} else if taken {
		return AuthResult{}, ErrDuplicateEmail
	}
	if taken, err := s.accounts.ExistsByDisplayName(ctx, displayName); err != nil {
		return AuthResult{}, err
	} else if taken {
		return AuthResult{}, ErrDuplicateDisplayName
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return AuthResult{}, err
	}
	account := model.NewLocalAccount(email, hash, displayName).TouchLogin(s.now())
	account, err = s.accounts.Save(ctx, account)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return AuthResult{}, ErrDuplicateEmail
		}
		return AuthResult{}, err
	}
	return s.issue(ctx, account, "signup")
}

// Login authenticates a local account. A password mismatch increments the
// failed-login counter before failing; a match resets it and applies the
// login-streak rule.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return AuthResult{}, ErrAccountNotFound
		}
		return AuthResult{}, err
	}

	if !s.hasher.Verify(account.PasswordHash, password) {
		if _, err := s.accounts.Save(ctx, account.RecordLoginFailure()); err != nil {
			log.Printf("auth: persisting failed-login count for %s failed: %v", account.Email, err)
		}
		return AuthResult{}, ErrPasswordMismatch
	}

	account = account.ResetLoginFailures().TouchLogin(s.now())
	account, err = s.accounts.Save(ctx, account)
	if err != nil {
		return AuthResult{}, err
	}
	return s.issue(ctx, account, "local")
}

// OAuthLogin normalizes a federated payload and upserts the matching
// account. When the payload carries no email the just-granted provider
// token is revoked best-effort before the error surfaces, since the login
// cannot proceed without a stable key.
func (s *AuthService) OAuthLogin(ctx context.Context, provider string, attrs map[string]any, providerToken string) (AuthResult, error) {
	identity, err := s.providers.Normalize(provider, attrs)
	if err != nil {
		if errors.Is(err, oauth.ErrMissingConsent) && s.revoker != nil {
			_ = s.revoker.Revoke(ctx, provider, providerToken)
		}
		return AuthResult{}, err
	}

	account, err := s.accounts.FindByEmail(ctx, identity.Email)
	switch {
	case errors.Is(err, repository.ErrAccountNotFound):
		account = model.Account{Email: identity.Email, Role: model.RoleUser}
	case err != nil:
		return AuthResult{}, err
	}

	account = account.MergeProviderIdentity(identity.Provider, identity.DisplayName).TouchLogin(s.now())
	account, err = s.accounts.Save(ctx, account)
	if err != nil {
		return AuthResult{}, err
	}
	return s.issue(ctx, account, identity.Provider)
}

// Reissue exchanges an expired access token for a fresh pair. The presented
// token only routes the request (subject lookup without signature or expiry
// checks); the stored refresh token is what actually gets verified. On
// success the stored refresh token is rotated.
func (s *AuthService) Reissue(ctx context.Context, expiredAccess string) (AuthResult, error) {
	subject, ok := s.codec.ExtractSubjectIgnoringExpiry(expiredAccess)
	if !ok {
		return AuthResult{}, ErrInvalidToken
	}

	stored, err := s.refresh.Get(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return AuthResult{}, ErrAccountNotFound
		}
		return AuthResult{}, err
	}

	claims, err := s.codec.Verify(stored.Value)
	switch {
	case errors.Is(err, token.ErrExpired):
		return AuthResult{}, ErrRefreshTokenExpired
	case err != nil:
		return AuthResult{}, ErrInvalidToken
	case claims.Subject != subject:
		return AuthResult{}, ErrInvalidToken
	}

	account, err := s.accounts.FindByEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return AuthResult{}, ErrAccountNotFound
		}
		return AuthResult{}, err
	}
	return s.issue(ctx, account, "reissue")
}

// Account looks up an account by email.
func (s *AuthService) Account(ctx context.Context, email string) (model.Account, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return model.Account{}, ErrAccountNotFound
		}
		return model.Account{}, err
	}
	return account, nil
}

// Logout drops the subject's refresh token. Idempotent: logging out a
// subject with no stored token succeeds.
func (s *AuthService) Logout(ctx context.Context, email string) error {
	return s.refresh.Delete(ctx, email)
}

// issue mints an access/refresh pair, overwrites the stored refresh token
// (rotation) and publishes a login event.
func (s *AuthService) issue(ctx context.Context, account model.Account, method string) (AuthResult, error) {
	access, err := s.codec.CreateAccessToken(account.Email, account.Role)
	if err != nil {
		return AuthResult{}, err
	}
	refresh, err := s.codec.CreateRefreshToken(account.Email, account.Role)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.refresh.Put(ctx, account.Email, refresh); err != nil {
		return AuthResult{}, err
	}

	if s.publisher != nil {
		ev := queue.LoginEvent{
			Email:    account.Email,
			Provider: account.Provider,
			Method:   method,
			Points:   account.Points,
			At:       s.now().UTC().Format(time.RFC3339),
		}
		if err := s.publisher.PublishLogin(ctx, ev); err != nil {
			log.Printf("auth: publishing login event for %s failed: %v", account.Email, err)
		}
	}

	return AuthResult{Account: account, Access: access, Refresh: refresh}, nil
}
