// Package authn authenticates requests. It locates an access token by
// precedence (HTTP-only cookie first, then bearer header), verifies it
// statelessly, and puts the decoded identity on the request context. It never
// touches the store.
package authn

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	resp "user_auth_service/internal/lib/api/response"
	"user_auth_service/internal/lib/jwt"
	sl "user_auth_service/internal/lib/logger"

	"github.com/go-chi/render"
)

const AccessTokenCookie = "accessToken"

type ctxKey struct{}

// UserID returns the authenticated user id placed on the context by the
// middleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}

func New(log *slog.Logger, issuer *jwt.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			const op = "middleware.authn.New"

			log := log.With(slog.String("op", op))

			token := extractToken(r)
			if token == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("No token provided"))

				return
			}

			userID, err := issuer.ParseAccessToken(token)
			if err != nil {
				log.Warn("token rejected", sl.Err(err))

				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, resp.Error("Invalid or expired token"))

				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

func extractToken(r *http.Request) string {
	// Web clients carry the HTTP-only cookie; API clients fall back to the
	// Authorization header.
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	const prefix = "Bearer "
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, prefix) {
		return strings.TrimPrefix(h, prefix)
	}

	return ""
}
