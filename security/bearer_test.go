package security

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matchday/internal/auth"
	"matchday/internal/services"
	"matchday/internal/status"
)

type fakeStoredTokens struct {
	stored map[string]string
}

func (f *fakeStoredTokens) ControlToken(ctx context.Context, kind services.Kind, id, token string) error {
	if f.stored[id] != token {
		return status.ErrTokenMismatch
	}
	return nil
}

// A validly signed, unexpired token authenticates on its own, even
// after a newer token has been stored for the account (e.g. a second
// client kept the previous one).
func TestBearer_ValidTokenAcceptedAfterRotation(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)

	previous, err := tokens.Issue("user1")
	require.NoError(t, err)
	rotated, err := tokens.Issue("user1")
	require.NoError(t, err)

	bearer := &Bearer{
		tokens:   tokens,
		accounts: &fakeStoredTokens{stored: map[string]string{"user1": rotated}},
	}

	id, err := bearer.authenticate(context.Background(), services.KindUser, previous)
	require.NoError(t, err)
	assert.Equal(t, "user1", id)
}

func TestBearer_ExpiredMatchingTokenIsExpired(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", -time.Minute)

	expired, err := tokens.Issue("user1")
	require.NoError(t, err)

	bearer := &Bearer{
		tokens:   tokens,
		accounts: &fakeStoredTokens{stored: map[string]string{"user1": expired}},
	}

	_, err = bearer.authenticate(context.Background(), services.KindUser, expired)
	assert.ErrorIs(t, err, status.ErrTokenExpired)
}

func TestBearer_ExpiredMismatchedTokenIsDenied(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", -time.Minute)

	expired, err := tokens.Issue("user1")
	require.NoError(t, err)

	bearer := &Bearer{
		tokens:   tokens,
		accounts: &fakeStoredTokens{stored: map[string]string{"user1": "a.different.token"}},
	}

	_, err = bearer.authenticate(context.Background(), services.KindUser, expired)
	assert.ErrorIs(t, err, status.ErrPermissionDenied)
}

func TestBearer_ForgedTokenIsDenied(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)

	forged, err := auth.NewTokenService("other-secret", time.Hour).Issue("user1")
	require.NoError(t, err)

	bearer := &Bearer{
		tokens:   tokens,
		accounts: &fakeStoredTokens{stored: map[string]string{"user1": "stored.token.value"}},
	}

	_, err = bearer.authenticate(context.Background(), services.KindUser, forged)
	assert.ErrorIs(t, err, status.ErrPermissionDenied)
}

func TestBearer_MissingToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	bearer := &Bearer{tokens: tokens, accounts: &fakeStoredTokens{stored: map[string]string{}}}

	_, err := bearer.authenticate(context.Background(), services.KindUser, "")
	assert.ErrorIs(t, err, status.ErrTokenInvalid)
}
