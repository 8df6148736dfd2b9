package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/aniwatch/backend/internal/auth/domain"
	"github.com/aniwatch/backend/internal/common/db"
	"github.com/aniwatch/backend/internal/common/logger"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id domain.UserID) (domain.User, error)
	// SetRefreshToken replaces the stored refresh token atomically;
	// an empty token clears it (logout).
	SetRefreshToken(ctx context.Context, id domain.UserID, token string) error
	UpdatePassword(ctx context.Context, id domain.UserID, passwordHash string) error
}

type PgUserRepository struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewPgUserRepository(pool *pgxpool.Pool, log *logger.Logger) *PgUserRepository {
	return &PgUserRepository{pool: pool, log: log}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)`,
		string(user.ID),
		user.Email,
		user.Name,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrEmailAlreadyExists
		}
		return db.HandleExecError(err, "create user", start)
	}
	db.MeasureQueryDuration("create user", start)
	return nil
}

func (r *PgUserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, email, name, password_hash, COALESCE(refresh_token, ''), created_at, updated_at
		 FROM users
		 WHERE email = $1`,
		email,
	)
	return scanUser(row, "find user by email", start)
}

func (r *PgUserRepository) FindByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, email, name, password_hash, COALESCE(refresh_token, ''), created_at, updated_at
		 FROM users
		 WHERE id = $1`,
		string(id),
	)
	return scanUser(row, "find user by id", start)
}

// SetRefreshToken is retried on transient failures: losing this write
// after tokens were handed out would strand the client with a pair the
// server no longer recognizes.
func (r *PgUserRepository) SetRefreshToken(ctx context.Context, id domain.UserID, token string) error {
	start := time.Now()
	err := db.RetryWithBackoff(ctx, r.log, db.DefaultRetryConfig, func() error {
		_, execErr := r.pool.Exec(
			ctx,
			`UPDATE users SET refresh_token = NULLIF($2, ''), updated_at = NOW() WHERE id = $1`,
			string(id),
			token,
		)
		return execErr
	})
	return db.HandleExecError(err, "set user refresh token", start)
}

func (r *PgUserRepository) UpdatePassword(ctx context.Context, id domain.UserID, passwordHash string) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		string(id),
		passwordHash,
	)
	return db.HandleExecError(err, "update user password", start)
}

func scanUser(row pgx.Row, operation string, start time.Time) (domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err := db.HandleQueryError(err, ErrUserNotFound, operation, start); err != nil {
		return domain.User{}, err
	}
	return user, nil
}
