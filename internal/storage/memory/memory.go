// Package memory is an in-memory twin of the Postgres storage, used in tests.
// It enforces the same uniqueness rules the database schema declares.
package memory

import (
	"context"
	"sync"
	"time"

	"user_auth_service/internal/models"
	"user_auth_service/internal/storage"

	"github.com/google/uuid"
)

type MemoryRepo struct {
	mu     sync.Mutex
	users  map[string]models.User         // keyed by user id
	emails map[string]string              // email -> user id
	tokens map[string]models.RefreshToken // keyed by user id
}

func New() *MemoryRepo {
	return &MemoryRepo{
		users:  make(map[string]models.User),
		emails: make(map[string]string),
		tokens: make(map[string]models.RefreshToken),
	}
}

func (r *MemoryRepo) SaveUser(_ context.Context, name, email string, passHash []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.emails[email]; ok {
		return "", storage.ErrUserExists
	}

	now := time.Now()
	u := models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		PassHash:  passHash,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.users[u.ID] = u
	r.emails[email] = u.ID

	return u.ID, nil
}

func (r *MemoryRepo) User(_ context.Context, email string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.emails[email]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}

	return r.users[id], nil
}

func (r *MemoryRepo) UserByID(_ context.Context, id string) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return models.User{}, storage.ErrUserNotFound
	}

	return u, nil
}

func (r *MemoryRepo) SaveRefreshToken(_ context.Context, userID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[userID]; ok {
		return storage.ErrRefreshTokenExists
	}

	r.tokens[userID] = newToken(userID, token, expiresAt)

	return nil
}

func (r *MemoryRepo) ReplaceRefreshToken(_ context.Context, userID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[userID] = newToken(userID, token, expiresAt)

	return nil
}

func (r *MemoryRepo) RefreshTokenByUser(_ context.Context, userID string) (models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rt, ok := r.tokens[userID]
	if !ok {
		return models.RefreshToken{}, storage.ErrRefreshTokenNotFound
	}

	return rt, nil
}

// TokenCount reports the number of live ledger rows for a user (0 or 1).
func (r *MemoryRepo) TokenCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[userID]; ok {
		return 1
	}

	return 0
}

func newToken(userID, token string, expiresAt time.Time) models.RefreshToken {
	now := time.Now()
	return models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
