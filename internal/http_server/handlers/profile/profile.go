package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"user_auth_service/internal/auth"
	"user_auth_service/internal/http_server/middleware/authn"
	resp "user_auth_service/internal/lib/api/response"
	sl "user_auth_service/internal/lib/logger"
	"user_auth_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Response struct {
	Status string            `json:"status"`
	Data   models.PublicUser `json:"data"`
}

func New(
	log *slog.Logger,
	authService *auth.Auth,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.profile.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		userID, ok := authn.UserID(r.Context())
		if !ok {
			// Reachable only if the route is mounted without the authn
			// middleware.
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("No token provided"))

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		user, err := authService.Profile(ctx, userID)
		if err != nil {
			// Tokens are not revoked on deletion; a valid token may outlive
			// its user.
			if errors.Is(err, auth.ErrUserNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("User not found"))

				return
			}

			log.Error("failed to load profile", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error(err.Error()))

			return
		}

		ResponseOK(w, r, user)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request, user models.PublicUser) {
	render.JSON(w, r, Response{
		Status: resp.StatusSuccess,
		Data:   user,
	})
}
