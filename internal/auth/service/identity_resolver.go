package service

import (
	"context"
	"errors"

	"github.com/aniwatch/backend/internal/auth/domain"
	"github.com/aniwatch/backend/internal/auth/repository"
	"github.com/aniwatch/backend/internal/common/jwtverify"
)

// ResolveIdentity lets the auth service act as the session verifier's
// user lookup, exposing only sanitized fields.
func (s *AuthService) ResolveIdentity(ctx context.Context, userID string) (jwtverify.Identity, error) {
	user, err := s.users.FindByID(ctx, domain.UserID(userID))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return jwtverify.Identity{}, repository.ErrUserNotFound
		}
		return jwtverify.Identity{}, err
	}

	return jwtverify.Identity{
		ID:    string(user.ID),
		Email: user.Email,
		Name:  user.Name,
	}, nil
}
