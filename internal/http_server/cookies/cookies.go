// Package cookies sets the session cookies shared by every endpoint that
// authenticates a user.
package cookies

import (
	"net/http"
	"time"

	"user_auth_service/internal/auth"
	"user_auth_service/internal/http_server/middleware/authn"
)

const RefreshTokenCookie = "refreshToken"

// SetSession writes both session cookies. HTTP-only and SameSite=Strict
// always; Secure only in production, so local HTTP still works.
func SetSession(w http.ResponseWriter, session auth.Session, accessTTL, refreshTTL time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     authn.AccessTokenCookie,
		Value:    session.AccessToken,
		Path:     "/",
		MaxAge:   int(accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    session.RefreshToken,
		Path:     "/",
		MaxAge:   int(refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
