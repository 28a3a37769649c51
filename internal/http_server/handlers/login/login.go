package login

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
	"user_auth_service/internal/models"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Request struct {
	Email string `json:"email"`
	Pass  string `json:"password"`
}

type Response struct {
	resp.Response
	User models.PublicUser `json:"user"`
}

func New(
	log *slog.Logger,
	authService *auth.Auth,
	accessTTL, refreshTTL time.Duration,
	secureCookies bool,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.login.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("Failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("Failed to decode request"))

			return
		}

		log.Info("Request body decoded")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session, err := authService.Login(ctx, req.Email, req.Pass)
		if err != nil {
			var validationErr *auth.ValidationError
			if errors.As(err, &validationErr) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error(validationErr.Message))

				return
			}
			if errors.Is(err, auth.ErrInvalidCredentials) {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, resp.Error("Invalid credentials"))

				return
			}

			log.Error("failed to login user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error(err.Error()))

			return
		}

		log.Info("User logged in successfully")

		cookies.SetSession(w, session, accessTTL, refreshTTL, secureCookies)

		ResponseOK(w, r, session.User)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request, user models.PublicUser) {
	render.JSON(w, r, Response{
		Response: resp.OK("Login successful"),
		User:     user,
	})
}
