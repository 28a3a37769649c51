package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"user_auth_service/internal/lib/jwt"
	sl "user_auth_service/internal/lib/logger"
	"user_auth_service/internal/lib/validation"
	"user_auth_service/internal/models"
	"user_auth_service/internal/storage"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// ValidationError carries the first violated rule of a request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Session is the result of any operation that authenticates a user.
type Session struct {
	User         models.PublicUser
	AccessToken  string
	RefreshToken string
}

type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	tokenStore  TokenStore
	issuer      *jwt.Issuer
}

type UserSaver interface {
	SaveUser(ctx context.Context, name, email string, passHash []byte) (uid string, err error)
}

type UserProvider interface {
	User(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, id string) (models.User, error)
}

type TokenStore interface {
	SaveRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	ReplaceRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	RefreshTokenByUser(ctx context.Context, userID string) (models.RefreshToken, error)
}

func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	tokenStore TokenStore,
	issuer *jwt.Issuer,
) *Auth {
	return &Auth{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		tokenStore:  tokenStore,
		issuer:      issuer,
	}
}

// Register creates a user and opens their first session. Not idempotent:
// a second call with the same email fails with ErrUserExists.
func (a *Auth) Register(
	ctx context.Context,
	name, email, password string,
) (Session, error) {
	const op = "auth.Register"

	log := a.log.With(slog.String("op", op))

	if vs := validation.Register(name, email, password); len(vs) > 0 {
		log.Warn("invalid request", slog.String("field", vs[0].Field))
		return Session{}, &ValidationError{Field: vs[0].Field, Message: vs[0].Message}
	}

	email = strings.ToLower(email)

	if _, err := a.usrProvider.User(ctx, email); err == nil {
		log.Warn("email already taken")
		return Session{}, ErrUserExists
	} else if !errors.Is(err, storage.ErrUserNotFound) {
		log.Error("failed to check email", sl.Err(err))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.usrSaver.SaveUser(ctx, name, email, passHash)
	if err != nil {
		// Concurrent registration with the same email races down to a single
		// winner at the store; the loser lands here.
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists")
			return Session{}, ErrUserExists
		}

		log.Error("failed to save user", sl.Err(err))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	session, err := a.openSession(ctx, models.User{ID: id, Name: name, Email: email}, a.tokenStore.SaveRefreshToken)
	if err != nil {
		log.Error("failed to open session", sl.Err(err))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("uid", id))

	return session, nil
}

// Login verifies credentials and replaces the user's refresh token. An unknown
// email and a wrong password fail identically, so the response never reveals
// whether an account exists.
func (a *Auth) Login(
	ctx context.Context,
	email, password string,
) (Session, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))

	if vs := validation.Login(email, password); len(vs) > 0 {
		log.Warn("invalid request", slog.String("field", vs[0].Field))
		return Session{}, &ValidationError{Field: vs[0].Field, Message: vs[0].Message}
	}

	user, err := a.usrProvider.User(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found")
			return Session{}, ErrInvalidCredentials
		}

		log.Error("failed to get user", sl.Err(err))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		return Session{}, ErrInvalidCredentials
	}

	session, err := a.openSession(ctx, user, a.tokenStore.ReplaceRefreshToken)
	if err != nil {
		log.Error("failed to open session", sl.Err(err))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user logged in successfully", slog.String("uid", user.ID))

	return session, nil
}

// Refresh exchanges a valid refresh token for a rotated token pair. The
// presented token must verify against the refresh secret and match the
// user's current ledger row.
func (a *Auth) Refresh(
	ctx context.Context,
	refreshToken string,
) (Session, error) {
	const op = "auth.Refresh"

	log := a.log.With(slog.String("op", op))

	userID, err := a.issuer.ParseRefreshToken(refreshToken)
	if err != nil {
		log.Warn("refresh token rejected", sl.Err(err))
		return Session{}, ErrInvalidRefreshToken
	}

	rt, err := a.tokenStore.RefreshTokenByUser(ctx, userID)
	if err != nil {
		log.Warn("refresh token not found", sl.Err(err))
		return Session{}, ErrInvalidRefreshToken
	}

	// A login after this token was issued replaced the ledger row; the old
	// token no longer matches and is dead.
	if rt.Token != refreshToken || rt.IsExpired() {
		log.Warn("refresh token superseded or expired")
		return Session{}, ErrInvalidRefreshToken
	}

	user, err := a.usrProvider.UserByID(ctx, userID)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		return Session{}, ErrInvalidRefreshToken
	}

	session, err := a.openSession(ctx, user, a.tokenStore.ReplaceRefreshToken)
	if err != nil {
		log.Error("failed to open session", sl.Err(err))
		return Session{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("refresh successful", slog.String("uid", user.ID))

	return session, nil
}

// Profile returns the user behind an authenticated identity, password excluded.
func (a *Auth) Profile(ctx context.Context, userID string) (models.PublicUser, error) {
	const op = "auth.Profile"

	log := a.log.With(slog.String("op", op))

	user, err := a.usrProvider.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", slog.String("uid", userID))
			return models.PublicUser{}, ErrUserNotFound
		}

		log.Error("failed to load user", sl.Err(err))
		return models.PublicUser{}, fmt.Errorf("%s: %w", op, err)
	}

	return user.Public(), nil
}

func (a *Auth) openSession(
	ctx context.Context,
	user models.User,
	record func(ctx context.Context, userID, token string, expiresAt time.Time) error,
) (Session, error) {
	accessToken, err := a.issuer.NewAccessToken(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := a.issuer.NewRefreshToken(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(a.issuer.RefreshTokenTTL())
	if err := record(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return Session{}, fmt.Errorf("failed to record refresh token: %w", err)
	}

	return Session{
		User:         user.Public(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
