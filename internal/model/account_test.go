package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTouchLogin(t *testing.T) {
	day1 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 2, 8, 30, 0, 0, time.UTC)

	t.Run("first ever login grants 100 points", func(t *testing.T) {
		a := NewLocalAccount("a@x.com", "hash", "alice").TouchLogin(day1)
		require.Equal(t, 100, a.Points)
		require.NotNil(t, a.LastLoginDate)
		require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *a.LastLoginDate)
	})

	t.Run("first login of a new day adds 10", func(t *testing.T) {
		a := NewLocalAccount("a@x.com", "hash", "alice").TouchLogin(day1).TouchLogin(day2)
		require.Equal(t, 110, a.Points)
		require.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), *a.LastLoginDate)
	})

	t.Run("second login the same day changes nothing", func(t *testing.T) {
		later := day1.Add(9 * time.Hour)
		a := NewLocalAccount("a@x.com", "hash", "alice").TouchLogin(day1).TouchLogin(later)
		require.Equal(t, 100, a.Points)
		require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *a.LastLoginDate)
	})
}

func TestLoginFailureCounter(t *testing.T) {
	a := NewLocalAccount("a@x.com", "hash", "alice")
	require.Equal(t, 0, a.FailedLoginCount)

	a = a.RecordLoginFailure().RecordLoginFailure()
	require.Equal(t, 2, a.FailedLoginCount)

	a = a.ResetLoginFailures()
	require.Equal(t, 0, a.FailedLoginCount)
}

func TestMergeProviderIdentity(t *testing.T) {
	t.Run("sets provider and role on a fresh account", func(t *testing.T) {
		a := Account{Email: "a@x.com"}.MergeProviderIdentity("kakao", "alice")
		require.Equal(t, "kakao", a.Provider)
		require.Equal(t, "alice", a.DisplayName)
		require.Equal(t, RoleUser, a.Role)
	})

	t.Run("links a provider onto a local account without losing the hash", func(t *testing.T) {
		a := NewLocalAccount("a@x.com", "hash", "alice").MergeProviderIdentity("google", "Alice G")
		require.Equal(t, "google", a.Provider)
		require.Equal(t, "Alice G", a.DisplayName)
		require.Equal(t, "hash", a.PasswordHash)
	})

	t.Run("keeps the old display name when the provider sends none", func(t *testing.T) {
		a := NewLocalAccount("a@x.com", "hash", "alice").MergeProviderIdentity("google", "")
		require.Equal(t, "alice", a.DisplayName)
	})
}
