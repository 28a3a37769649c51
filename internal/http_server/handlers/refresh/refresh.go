package refresh

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"user_auth_service/internal/auth"
	"user_auth_service/internal/http_server/cookies"
	resp "user_auth_service/internal/lib/api/response"
	sl "user_auth_service/internal/lib/logger"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Request struct {
	RefreshToken string `json:"refresh_token"`
}

// New exchanges the current refresh token for a rotated pair. The token comes
// from the HTTP-only cookie for web clients, or the request body for API
// clients.
func New(
	log *slog.Logger,
	authService *auth.Auth,
	accessTTL, refreshTTL time.Duration,
	secureCookies bool,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.refresh.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		token := extractToken(r)
		if token == "" {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("No refresh token provided"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session, err := authService.Refresh(ctx, token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidRefreshToken) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Invalid or expired refresh token"))

				return
			}

			log.Error("failed to refresh tokens", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error(err.Error()))

			return
		}

		log.Info("Tokens refreshed successfully")

		cookies.SetSession(w, session, accessTTL, refreshTTL, secureCookies)

		render.JSON(w, r, resp.OK("Token refreshed"))
	}
}

func extractToken(r *http.Request) string {
	if c, err := r.Cookie(cookies.RefreshTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err == nil {
		return req.RefreshToken
	}

	return ""
}
