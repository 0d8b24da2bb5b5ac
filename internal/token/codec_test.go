package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-0123456789abcdef"

func newTestCodec() *Codec {
	return NewCodec(testSecret, 30*time.Minute, 7*24*time.Hour)
}

// newExpiredCodec mints tokens that are already expired.
func newExpiredCodec() *Codec {
	return NewCodec(testSecret, -time.Minute, -time.Minute)
}

func TestVerifyRoundTrip(t *testing.T) {
	c := newTestCodec()

	access, err := c.CreateAccessToken("a@x.com", "USER")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", access.Subject)
	require.WithinDuration(t, time.Now().Add(30*time.Minute), access.ExpiresAt, 5*time.Second)

	claims, err := c.Verify(access.Value)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", claims.Subject)
	require.Equal(t, "USER", claims.Role)
}

func TestVerifyClassification(t *testing.T) {
	c := newTestCodec()

	t.Run("expired token is ErrExpired, never ErrMalformed", func(t *testing.T) {
		expired, err := newExpiredCodec().CreateAccessToken("a@x.com", "USER")
		require.NoError(t, err)

		_, err = c.Verify(expired.Value)
		require.ErrorIs(t, err, ErrExpired)
		require.NotErrorIs(t, err, ErrMalformed)
	})

	t.Run("tampered signature is ErrMalformed, never ErrExpired", func(t *testing.T) {
		access, err := c.CreateAccessToken("a@x.com", "USER")
		require.NoError(t, err)

		tampered := flipLastChar(access.Value)
		_, err = c.Verify(tampered)
		require.ErrorIs(t, err, ErrMalformed)
		require.NotErrorIs(t, err, ErrExpired)
	})

	t.Run("structural garbage is ErrMalformed", func(t *testing.T) {
		_, err := c.Verify("not-a-jwt")
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("wrong algorithm is ErrUnsupported", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": "a@x.com",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		value, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = c.Verify(value)
		require.ErrorIs(t, err, ErrUnsupported)
	})

	t.Run("missing subject is ErrInvalid", func(t *testing.T) {
		anon := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		value, err := anon.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = c.Verify(value)
		require.ErrorIs(t, err, ErrInvalid)
	})
}

func TestExtractSubjectIgnoringExpiry(t *testing.T) {
	c := newTestCodec()

	t.Run("reads subject from an expired token", func(t *testing.T) {
		expired, err := newExpiredCodec().CreateAccessToken("a@x.com", "USER")
		require.NoError(t, err)

		sub, ok := c.ExtractSubjectIgnoringExpiry(expired.Value)
		require.True(t, ok)
		require.Equal(t, "a@x.com", sub)
	})

	t.Run("rejects non-jwt input", func(t *testing.T) {
		_, ok := c.ExtractSubjectIgnoringExpiry("garbage")
		require.False(t, ok)

		_, ok = c.ExtractSubjectIgnoringExpiry("a.!!!.c")
		require.False(t, ok)
	})
}

func TestResolveBearer(t *testing.T) {
	raw, ok := ResolveBearer("Bearer abc.def.ghi", "Bearer")
	require.True(t, ok)
	require.Equal(t, "abc.def.ghi", raw)

	_, ok = ResolveBearer("", "Bearer")
	require.False(t, ok)

	_, ok = ResolveBearer("Basic abc", "Bearer")
	require.False(t, ok)

	_, ok = ResolveBearer("Bearer ", "Bearer")
	require.False(t, ok)
}

// flipLastChar swaps a character near the end of the signature segment.
// The very last base64url character only carries four significant bits, so
// the second-to-last one is altered to guarantee the decoded bytes change.
func flipLastChar(token string) string {
	i := len(token) - 2
	repl := byte('A')
	if token[i] == 'A' {
		repl = 'B'
	}
	return token[:i] + string(repl) + token[i+1:]
}
