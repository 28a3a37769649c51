package register

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
	Name  string `json:"name"`
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
		const op = "handlers.register.New"

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

		session, err := authService.Register(ctx, req.Name, req.Email, req.Pass)
		if err != nil {
			var validationErr *auth.ValidationError
			if errors.As(err, &validationErr) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error(validationErr.Message))

				return
			}
			if errors.Is(err, auth.ErrUserExists) {
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, resp.Error("Email already exists"))

				return
			}

			log.Error("failed to register user", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error(err.Error()))

			return
		}

		log.Info("User registered", slog.String("id", session.User.ID))

		cookies.SetSession(w, session, accessTTL, refreshTTL, secureCookies)

		ResponseOK(w, r, session.User)
	}
}

func ResponseOK(w http.ResponseWriter, r *http.Request, user models.PublicUser) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{
		Response: resp.OK("User registered successfully"),
		User:     user,
	})
}
