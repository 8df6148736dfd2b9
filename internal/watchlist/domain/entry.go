package domain

import "time"

type Status string

const (
	StatusWatching  Status = "watching"
	StatusCompleted Status = "completed"
	StatusOnHold    Status = "on_hold"
	StatusDropped   Status = "dropped"
	StatusPlanned   Status = "planned"
)

func (s Status) Valid() bool {
	switch s {
	case StatusWatching, StatusCompleted, StatusOnHold, StatusDropped, StatusPlanned:
		return true
	}
	return false
}

// Entry is one anime on a user's watchlist, keyed by (user, anime).
type Entry struct {
	ID              string    `json:"id"`
	UserID          string    `json:"-"`
	AnimeID         int64     `json:"animeId"`
	Title           string    `json:"title"`
	Status          Status    `json:"status"`
	EpisodesWatched int       `json:"episodesWatched"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
