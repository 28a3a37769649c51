package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"user_auth_service/internal/models"
	"user_auth_service/internal/storage"
	"user_auth_service/internal/storage/postgres/migrations"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const uniqueViolation = "23505"

type PostgresRepo struct {
	pool *pgxpool.Pool
	url  string
}

func New(ctx context.Context, url string) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return &PostgresRepo{pool: pool, url: url}, nil
}

// RunMigrations applies the embedded goose migrations. goose drives a
// database/sql connection, so it runs over the stdlib pgx driver rather
// than the serving pool.
func (r *PostgresRepo) RunMigrations(ctx context.Context) error {
	const op = "storage.postgres.RunMigrations"

	db, err := sql.Open("pgx", r.url)
	if err != nil {
		return fmt.Errorf("%s: failed to open db: %w", op, err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) SaveUser(ctx context.Context, name, email string, passHash []byte) (string, error) {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id;
	`

	var id string

	err := r.pool.QueryRow(ctx, query, uuid.NewString(), name, email, string(passHash)).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", storage.ErrUserExists
		}

		return "", fmt.Errorf("%s: failed to save user: %w", op, err)
	}

	return id, nil
}

func (r *PostgresRepo) User(ctx context.Context, email string) (models.User, error) {
	query := `
		SELECT id, name, email, password_hash, is_verified, created_at, updated_at
		FROM users
		WHERE email = $1;
	`

	row := r.pool.QueryRow(ctx, query, email)

	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PassHash,
		&u.IsVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, err
	}

	return u, nil
}

func (r *PostgresRepo) UserByID(ctx context.Context, id string) (models.User, error) {
	query := `
		SELECT id, name, email, password_hash, is_verified, created_at, updated_at
		FROM users
		WHERE id = $1;
	`

	row := r.pool.QueryRow(ctx, query, id)

	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PassHash,
		&u.IsVerified,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, storage.ErrUserNotFound
	}

	return u, err
}

// SaveRefreshToken inserts a fresh ledger row. A row already present for the
// user (or the same user/token pair) surfaces as ErrRefreshTokenExists.
func (r *PostgresRepo) SaveRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	const op = "storage.postgres.SaveRefreshToken"

	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1, $2, $3, $4);
	`

	_, err := r.pool.Exec(ctx, query, uuid.NewString(), userID, token, expiresAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return storage.ErrRefreshTokenExists
		}

		return fmt.Errorf("%s: failed to save refresh token: %w", op, err)
	}

	return nil
}

// ReplaceRefreshToken upserts the ledger row for the user, overwriting any
// prior token. The UNIQUE constraint on user_id caps each user at one live row.
func (r *PostgresRepo) ReplaceRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	const op = "storage.postgres.ReplaceRefreshToken"

	query := `
		INSERT INTO refresh_tokens (id, user_id, token, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token, expires_at = EXCLUDED.expires_at, updated_at = now();
	`

	_, err := r.pool.Exec(ctx, query, uuid.NewString(), userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("%s: failed to replace refresh token: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) RefreshTokenByUser(ctx context.Context, userID string) (models.RefreshToken, error) {
	query := `
		SELECT id, user_id, token, expires_at, created_at, updated_at
		FROM refresh_tokens
		WHERE user_id = $1;
	`

	row := r.pool.QueryRow(ctx, query, userID)

	var rt models.RefreshToken
	err := row.Scan(
		&rt.ID,
		&rt.UserID,
		&rt.Token,
		&rt.ExpiresAt,
		&rt.CreatedAt,
		&rt.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.RefreshToken{}, storage.ErrRefreshTokenNotFound
	}

	return rt, err
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}
