// Package token implements signing, verification and claim extraction for
// the service's bearer tokens. A Codec is pure: it holds the HS256 signing
// key and the two TTLs fixed at startup and has no other state, so it is
// safe for unrestricted concurrent use.
package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verification failure kinds. Callers branch on these: ErrExpired triggers
// the reissue flow, everything else is rejected outright.
var (
	ErrExpired     = errors.New("token expired")
	ErrMalformed   = errors.New("token malformed")
	ErrUnsupported = errors.New("token algorithm not supported")
	ErrInvalid     = errors.New("token invalid")
)

// Token is a signed bearer credential together with the subject it was
// minted for and its expiry. Access tokens are never persisted; refresh
// tokens are stored server side keyed by subject.
type Token struct {
	Subject   string
	Value     string
	ExpiresAt time.Time
}

// Claims is the verified payload of a token.
type Claims struct {
	Subject string
	Role    string
}

// Codec signs and verifies HS256 JWTs.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec builds a codec from the shared signing secret and the two token
// lifetimes. Refresh TTL is expected to be much larger than access TTL.
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// CreateAccessToken signs a short-lived token carrying the subject's role.
func (c *Codec) CreateAccessToken(subject, role string) (Token, error) {
	return c.create(subject, role, c.accessTTL)
}

// CreateRefreshToken signs a long-lived token used only to mint new pairs.
func (c *Codec) CreateRefreshToken(subject, role string) (Token, error) {
	return c.create(subject, role, c.refreshTTL)
}

func (c *Codec) create(subject, role string, ttl time.Duration) (Token, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Subject: subject, Value: signed, ExpiresAt: exp}, nil
}

// Verify checks signature and expiry and returns the claims. Failures are
// classified so the gate and the reissue flow can react differently:
// expired signatures-valid tokens come back as ErrExpired, structural or
// signature damage as ErrMalformed, a non-HMAC algorithm as ErrUnsupported,
// and anything else as ErrInvalid.
func (c *Codec) Verify(value string) (Claims, error) {
	tok, err := jwt.Parse(value, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnsupported
		}
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}
	if !tok.Valid {
		return Claims{}, ErrInvalid
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalid
	}
	cl := Claims{}
	if sub, ok := mc["sub"].(string); ok {
		cl.Subject = sub
	}
	if role, ok := mc["role"].(string); ok {
		cl.Role = role
	}
	if cl.Subject == "" {
		return Claims{}, ErrInvalid
	}
	return cl, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, ErrUnsupported):
		return ErrUnsupported
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrMalformed
	default:
		return ErrInvalid
	}
}

// ExtractSubjectIgnoringExpiry decodes the payload segment of a JWT without
// checking signature or expiry and returns the sub claim. It exists solely
// so the reissue flow can learn whose refresh token to look up from an
// already expired access token; it must never be used to authorize anything.
func (c *Codec) ExtractSubjectIgnoringExpiry(value string) (string, bool) {
	parts := strings.Split(value, ".")
	if len(parts) != 3 {
		return "", false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", false
	}
	var body struct {
		Sub string `json:"sub"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.Sub == "" {
		return "", false
	}
	return body.Sub, true
}

// ResolveBearer strips the auth-scheme prefix ("Bearer" by default) from a
// header value. It reports false when the header is empty or the prefix
// does not match.
func ResolveBearer(header, prefix string) (string, bool) {
	if header == "" || !strings.HasPrefix(header, prefix+" ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, prefix+" "))
	if raw == "" {
		return "", false
	}
	return raw, true
}
