package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/aniwatch/backend/internal/common/db"
	"github.com/aniwatch/backend/internal/watchlist/domain"
)

var ErrEntryNotFound = errors.New("watchlist entry not found")

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Entry, error)
	Upsert(ctx context.Context, entry domain.Entry) error
	UpdateProgress(ctx context.Context, userID string, animeID int64, status *domain.Status, episodes *int) error
	Delete(ctx context.Context, userID string, animeID int64) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) ListByUser(ctx context.Context, userID string) ([]domain.Entry, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT id, user_id, anime_id, title, status, episodes_watched, created_at, updated_at
		 FROM watchlist_entries
		 WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, db.HandleQueryError(err, nil, "list watchlist entries", start)
	}
	defer rows.Close()

	entries := make([]domain.Entry, 0)
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.AnimeID, &e.Title, &e.Status, &e.EpisodesWatched, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, db.HandleQueryError(err, nil, "scan watchlist entry", start)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleQueryError(err, nil, "list watchlist entries", start)
	}

	db.MeasureQueryDuration("list watchlist entries", start)
	return entries, nil
}

func (r *PgRepository) Upsert(ctx context.Context, entry domain.Entry) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO watchlist_entries (id, user_id, anime_id, title, status, episodes_watched, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 ON CONFLICT (user_id, anime_id)
		 DO UPDATE SET title = EXCLUDED.title,
		               status = EXCLUDED.status,
		               episodes_watched = EXCLUDED.episodes_watched,
		               updated_at = NOW()`,
		entry.ID,
		entry.UserID,
		entry.AnimeID,
		entry.Title,
		string(entry.Status),
		entry.EpisodesWatched,
		entry.CreatedAt,
	)
	return db.HandleExecError(err, "upsert watchlist entry", start)
}

func (r *PgRepository) UpdateProgress(ctx context.Context, userID string, animeID int64, status *domain.Status, episodes *int) error {
	start := time.Now()
	res, err := r.pool.Exec(
		ctx,
		`UPDATE watchlist_entries
		 SET status = COALESCE($3, status),
		     episodes_watched = COALESCE($4, episodes_watched),
		     updated_at = NOW()
		 WHERE user_id = $1 AND anime_id = $2`,
		userID,
		animeID,
		statusValue(status),
		episodes,
	)
	if err != nil {
		return db.HandleExecError(err, "update watchlist entry", start)
	}
	if res.RowsAffected() == 0 {
		db.MeasureQueryDuration("update watchlist entry", start)
		return ErrEntryNotFound
	}
	db.MeasureQueryDuration("update watchlist entry", start)
	return nil
}

func (r *PgRepository) Delete(ctx context.Context, userID string, animeID int64) error {
	start := time.Now()
	res, err := r.pool.Exec(
		ctx,
		`DELETE FROM watchlist_entries WHERE user_id = $1 AND anime_id = $2`,
		userID,
		animeID,
	)
	if err != nil {
		return db.HandleExecError(err, "delete watchlist entry", start)
	}
	if res.RowsAffected() == 0 {
		db.MeasureQueryDuration("delete watchlist entry", start)
		return ErrEntryNotFound
	}
	db.MeasureQueryDuration("delete watchlist entry", start)
	return nil
}

func statusValue(status *domain.Status) *string {
	if status == nil {
		return nil
	}
	s := string(*status)
	return &s
}
