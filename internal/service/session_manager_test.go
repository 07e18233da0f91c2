package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rsharma/socialnet/internal/domain"
	"github.com/rsharma/socialnet/internal/service"
	"github.com/rsharma/socialnet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_Issue(t *testing.T) {
	ctx := context.Background()
	manager := service.NewSessionManager(testutil.NewMemSessions())
	profileID := uuid.New()

	t.Run("token is 20 alphanumeric characters", func(t *testing.T) {
		token, err := manager.Issue(ctx, service.IssueInput{ProfileID: profileID, UserIdentifier: "a@example.com"})
		require.NoError(t, err)
		require.Len(t, token, 20)
		for _, c := range token {
			isDigit := c >= '0' && c <= '9'
			isUpper := c >= 'A' && c <= 'Z'
			isLower := c >= 'a' && c <= 'z'
			assert.True(t, isDigit || isUpper || isLower, "unexpected token character %q", c)
		}
	})

	t.Run("tokens are unique per issue", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			token, err := manager.Issue(ctx, service.IssueInput{ProfileID: profileID, UserIdentifier: "a@example.com"})
			require.NoError(t, err)
			require.False(t, seen[token])
			seen[token] = true
		}
	})

	t.Run("blank metadata fields get the default marker", func(t *testing.T) {
		token, err := manager.Issue(ctx, service.IssueInput{ProfileID: profileID, UserIdentifier: "a@example.com"})
		require.NoError(t, err)

		session, err := manager.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSessionField, session.Device)
		assert.Equal(t, domain.DefaultSessionField, session.OperatingSystem)
		assert.Equal(t, domain.DefaultSessionField, session.AccessLevel)
		assert.Positive(t, session.CreatedAt)
	})
}

func TestSessionManager_Verify(t *testing.T) {
	ctx := context.Background()
	manager := service.NewSessionManager(testutil.NewMemSessions())

	t.Run("empty token is unauthenticated", func(t *testing.T) {
		_, err := manager.Verify(ctx, "")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("unknown token is unauthenticated", func(t *testing.T) {
		_, err := manager.Verify(ctx, "AAAAAAAAAAAAAAAAAAAA")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("issued token resolves to its session", func(t *testing.T) {
		profileID := uuid.New()
		token, err := manager.Issue(ctx, service.IssueInput{
			ProfileID:      profileID,
			UserIdentifier: "b@example.com",
			Provider:       "google.com",
		})
		require.NoError(t, err)

		session, err := manager.Verify(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, profileID, session.UserID)
		assert.Equal(t, "b@example.com", session.UserIdentifier)
		assert.Equal(t, "google.com", session.Provider)
	})
}

func TestSessionManager_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("revoke one leaves other devices intact", func(t *testing.T) {
		manager := service.NewSessionManager(testutil.NewMemSessions())
		profileID := uuid.New()
		first, err := manager.Issue(ctx, service.IssueInput{ProfileID: profileID, UserIdentifier: "c@example.com"})
		require.NoError(t, err)
		second, err := manager.Issue(ctx, service.IssueInput{ProfileID: profileID, UserIdentifier: "c@example.com"})
		require.NoError(t, err)

		require.NoError(t, manager.RevokeOne(ctx, profileID, first))

		_, err = manager.Verify(ctx, first)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		_, err = manager.Verify(ctx, second)
		assert.NoError(t, err)
	})

	t.Run("revoke all clears every device", func(t *testing.T) {
		manager := service.NewSessionManager(testutil.NewMemSessions())
		profileID := uuid.New()
		var tokens []string
		for i := 0; i < 3; i++ {
			token, err := manager.Issue(ctx, service.IssueInput{ProfileID: profileID, UserIdentifier: "d@example.com"})
			require.NoError(t, err)
			tokens = append(tokens, token)
		}

		require.NoError(t, manager.RevokeAll(ctx, profileID))

		for _, token := range tokens {
			_, err := manager.Verify(ctx, token)
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		}
	})

	t.Run("sessions are isolated between profiles", func(t *testing.T) {
		manager := service.NewSessionManager(testutil.NewMemSessions())
		alice, bob := uuid.New(), uuid.New()
		aliceToken, err := manager.Issue(ctx, service.IssueInput{ProfileID: alice, UserIdentifier: "alice@example.com"})
		require.NoError(t, err)
		bobToken, err := manager.Issue(ctx, service.IssueInput{ProfileID: bob, UserIdentifier: "bob@example.com"})
		require.NoError(t, err)

		require.NoError(t, manager.RevokeAll(ctx, alice))

		_, err = manager.Verify(ctx, aliceToken)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		session, err := manager.Verify(ctx, bobToken)
		require.NoError(t, err)
		assert.Equal(t, bob, session.UserID)
	})
}
