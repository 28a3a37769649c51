package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired reports a well-formed, correctly signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers everything else: malformed payload, bad signature,
	// wrong signing method.
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims включает стандартные утверждения и идентификатор пользователя.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// Issuer mints and verifies the two session credentials. Access and refresh
// tokens are signed with distinct secrets, so one never verifies as the other.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (i *Issuer) AccessTokenTTL() time.Duration  { return i.accessTTL }
func (i *Issuer) RefreshTokenTTL() time.Duration { return i.refreshTTL }

// NewAccessToken signs a short-lived token asserting the given user identity.
func (i *Issuer) NewAccessToken(userID string) (string, error) {
	return sign(userID, i.accessSecret, i.accessTTL)
}

// NewRefreshToken signs a long-lived token of the same shape with the refresh secret.
func (i *Issuer) NewRefreshToken(userID string) (string, error) {
	return sign(userID, i.refreshSecret, i.refreshTTL)
}

// ParseAccessToken verifies signature and expiry against the access secret
// and returns the asserted user id.
func (i *Issuer) ParseAccessToken(token string) (string, error) {
	return parse(token, i.accessSecret)
}

// ParseRefreshToken is the refresh-secret counterpart of ParseAccessToken.
func (i *Issuer) ParseRefreshToken(token string) (string, error) {
	return parse(token, i.refreshSecret)
}

func sign(userID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti keeps two tokens minted within the same second from
			// being byte-identical, so rotation always yields a new value.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})

	return token.SignedString(secret)
}

func parse(tokenString string, secret []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	if !token.Valid || claims.UserID == "" {
		return "", ErrTokenInvalid
	}

	return claims.UserID, nil
}
