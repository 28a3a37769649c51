package models

import "time"

type User struct {
	ID         string
	Name       string
	Email      string
	PassHash   []byte
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Public returns the shape of a user that may leave the service.
// The password hash never appears in it.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// * IsExpired проверяет, истек ли срок действия токена
func (t *RefreshToken) IsExpired() bool {
	return t.ExpiresAt.Before(time.Now())
}
