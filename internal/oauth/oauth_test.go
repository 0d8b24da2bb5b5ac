package oauth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeGoogle(t *testing.T) {
	attrs := map[string]any{
		"email": "a@x.com",
		"name":  "Alice",
		"sub":   "1234567890",
	}

	id, err := DefaultRegistry().Normalize("google", attrs)
	require.NoError(t, err)
	require.Equal(t, Identity{Email: "a@x.com", DisplayName: "Alice", Provider: "google"}, id)
}

func TestNormalizeKakao(t *testing.T) {
	attrs := map[string]any{
		"id": float64(42),
		"kakao_account": map[string]any{
			"email": "b@x.com",
			"profile": map[string]any{
				"nickname": "bob",
			},
		},
	}

	id, err := DefaultRegistry().Normalize("kakao", attrs)
	require.NoError(t, err)
	require.Equal(t, Identity{Email: "b@x.com", DisplayName: "bob", Provider: "kakao"}, id)
}

func TestNormalizeUnknownProvider(t *testing.T) {
	_, err := DefaultRegistry().Normalize("naver", map[string]any{"email": "a@x.com"})
	require.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestNormalizeMissingEmail(t *testing.T) {
	t.Run("google without email", func(t *testing.T) {
		_, err := DefaultRegistry().Normalize("google", map[string]any{"name": "Alice"})
		require.ErrorIs(t, err, ErrMissingConsent)
	})

	t.Run("kakao without account consent", func(t *testing.T) {
		_, err := DefaultRegistry().Normalize("kakao", map[string]any{"id": float64(42)})
		require.ErrorIs(t, err, ErrMissingConsent)
	})

	t.Run("kakao with profile but no email", func(t *testing.T) {
		attrs := map[string]any{
			"kakao_account": map[string]any{
				"profile": map[string]any{"nickname": "bob"},
			},
		}
		_, err := DefaultRegistry().Normalize("kakao", attrs)
		require.ErrorIs(t, err, ErrMissingConsent)
	})
}
