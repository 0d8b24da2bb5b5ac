package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joonhak/mm-auth-server/internal/token"
)

// refreshKeyPrefix namespaces refresh-token entries in Redis. One key per
// subject: "auth:<email>".
const refreshKeyPrefix = "auth:"

// RefreshTokenRepo keeps at most one live refresh token per subject in
// Redis. Put overwrites unconditionally, which is the rotation mechanism:
// the moment a new refresh token is stored the previous one stops being
// accepted. The key TTL matches the refresh lifetime so stale entries are
// reclaimed even if the client never comes back; the JWT's own exp claim
// remains the authoritative expiry check.
type RefreshTokenRepo struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRefreshTokenRepo(rdb *redis.Client, ttl time.Duration) *RefreshTokenRepo {
	return &RefreshTokenRepo{rdb: rdb, ttl: ttl}
}

type refreshEntry struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Put stores the subject's refresh token, replacing any previous one.
func (r *RefreshTokenRepo) Put(ctx context.Context, subject string, t token.Token) error {
	body, err := json.Marshal(refreshEntry{Token: t.Value, ExpiresAt: t.ExpiresAt})
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, refreshKeyPrefix+subject, body, r.ttl).Err()
}

// Get returns the subject's current refresh token, or
// ErrRefreshTokenNotFound when none is stored.
func (r *RefreshTokenRepo) Get(ctx context.Context, subject string) (token.Token, error) {
	body, err := r.rdb.Get(ctx, refreshKeyPrefix+subject).Bytes()
	if err == redis.Nil {
		return token.Token{}, ErrRefreshTokenNotFound
	}
	if err != nil {
		return token.Token{}, err
	}
	var entry refreshEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return token.Token{}, err
	}
	return token.Token{Subject: subject, Value: entry.Token, ExpiresAt: entry.ExpiresAt}, nil
}

// Delete removes the subject's refresh token. Deleting a missing key is not
// an error, which makes logout idempotent.
func (r *RefreshTokenRepo) Delete(ctx context.Context, subject string) error {
	return r.rdb.Del(ctx, refreshKeyPrefix+subject).Err()
}
