package domain

import "time"

// Favourite marks an anime a user pinned, keyed by (user, anime).
type Favourite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	AnimeID   int64     `json:"animeId"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
