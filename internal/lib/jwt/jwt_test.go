package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("access-secret", "refresh-secret", time.Minute*15, time.Hour*168)

	tok, err := issuer.NewAccessToken("user-123")
	require.NoError(t, err)

	userID, err := issuer.ParseAccessToken(tok)
	require.NoError(t, err)
	require.Equal(t, "user-123", userID)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("access-secret", "refresh-secret", time.Minute*15, time.Hour*168)

	tok, err := issuer.NewRefreshToken("user-123")
	require.NoError(t, err)

	userID, err := issuer.ParseRefreshToken(tok)
	require.NoError(t, err)
	require.Equal(t, "user-123", userID)
}

func TestSecretIsolation(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("access-secret", "refresh-secret", time.Minute*15, time.Hour*168)

	accessTok, err := issuer.NewAccessToken("u1")
	require.NoError(t, err)
	refreshTok, err := issuer.NewRefreshToken("u1")
	require.NoError(t, err)

	// A token minted with one secret must never verify against the other.
	_, err = issuer.ParseRefreshToken(accessTok)
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = issuer.ParseAccessToken(refreshTok)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessToken_Expired(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("access-secret", "refresh-secret", -time.Second, time.Hour)

	tok, err := issuer.NewAccessToken("u1")
	require.NoError(t, err)

	_, err = issuer.ParseAccessToken(tok)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("right-secret", "refresh-secret", time.Hour, time.Hour)
	other := NewIssuer("wrong-secret", "refresh-secret", time.Hour, time.Hour)

	tok, err := issuer.NewAccessToken("u2")
	require.NoError(t, err)

	_, err = other.ParseAccessToken(tok)
	require.ErrorIs(t, err, ErrTokenInvalid)
	require.NotErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer("access-secret", "refresh-secret", time.Hour, time.Hour)

	_, err := issuer.ParseAccessToken("not.a.jwt")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
