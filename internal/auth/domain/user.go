package domain

import "time"

type UserID string

// User is the credential record. RefreshToken holds the single live
// refresh token for the account; empty means no active session.
type User struct {
	ID           UserID
	Email        string
	Name         string
	PasswordHash string
	RefreshToken string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the client-safe view of a user: no hash, no refresh token.
type Profile struct {
	ID        UserID    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
