package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/aniwatch/backend/internal/common/db"
	"github.com/aniwatch/backend/internal/favourites/domain"
)

var ErrFavouriteNotFound = errors.New("favourite not found")

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Favourite, error)
	Add(ctx context.Context, favourite domain.Favourite) error
	Delete(ctx context.Context, userID string, animeID int64) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) ListByUser(ctx context.Context, userID string) ([]domain.Favourite, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, user_id, anime_id, title, COALESCE(image_url, ''), created_at
		 FROM favourites
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list favourites", start)
	}
	defer rows.Close()

	favourites := make([]domain.Favourite, 0)
	for rows.Next() {
		var f domain.Favourite
		if err := rows.Scan(&f.ID, &f.UserID, &f.AnimeID, &f.Title, &f.ImageURL, &f.CreatedAt); err != nil {
			return nil, db.HandleQueryError(err, nil, "scan favourite", start)
		}
		favourites = append(favourites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "list favourites", start)
	}

	db.MeasureQueryDuration("list favourites", start)
	return favourites, nil
}

// Add is idempotent: re-favouriting the same anime refreshes title and
// image rather than erroring.
func (r *PgRepository) Add(ctx context.Context, favourite domain.Favourite) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO favourites (id, user_id, anime_id, title, image_url, created_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		 ON CONFLICT (user_id, anime_id)
		 DO UPDATE SET title = EXCLUDED.title,
		               image_url = EXCLUDED.image_url`,
		favourite.ID,
		favourite.UserID,
		favourite.AnimeID,
		favourite.Title,
		favourite.ImageURL,
		favourite.CreatedAt,
	)
	return db.HandleExecError(err, "add favourite", start)
}

func (r *PgRepository) Delete(ctx context.Context, userID string, animeID int64) error {
	start := time.Now()
	res, err := r.pool.Exec(
		ctx,
		`DELETE FROM favourites WHERE user_id = $1 AND anime_id = $2`,
		userID,
		animeID,
	)
	if err != nil {
		return db.HandleExecError(err, "delete favourite", start)
	}
	if res.RowsAffected() == 0 {
		db.MeasureQueryDuration("delete favourite", start)
		return ErrFavouriteNotFound
	}
	db.MeasureQueryDuration("delete favourite", start)
	return nil
}
