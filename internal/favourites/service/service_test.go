package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/aniwatch/backend/internal/common/errors"
	"github.com/aniwatch/backend/internal/common/logger"
	"github.com/aniwatch/backend/internal/favourites/domain"
	"github.com/aniwatch/backend/internal/favourites/repository"
	"github.com/aniwatch/backend/internal/favourites/service"
)

type mockRepo struct {
	listByUserFunc func(ctx context.Context, userID string) ([]domain.Favourite, error)
	addFunc        func(ctx context.Context, favourite domain.Favourite) error
	deleteFunc     func(ctx context.Context, userID string, animeID int64) error
}

func (m *mockRepo) ListByUser(ctx context.Context, userID string) ([]domain.Favourite, error) {
	if m.listByUserFunc != nil {
		return m.listByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockRepo) Add(ctx context.Context, favourite domain.Favourite) error {
	if m.addFunc != nil {
		return m.addFunc(ctx, favourite)
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, userID string, animeID int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, animeID)
	}
	return nil
}

type staticIDGenerator struct{}

func (staticIDGenerator) NewID() (string, error) { return "fav-1", nil }

func setupService(t *testing.T) (*service.Service, *mockRepo) {
	t.Helper()

	log, err := logger.New("", "test", "ERROR")
	require.NoError(t, err)

	repo := &mockRepo{}
	return service.NewService(repo, staticIDGenerator{}, log), repo
}

func TestAdd(t *testing.T) {
	svc, repo := setupService(t)

	var added domain.Favourite
	repo.addFunc = func(ctx context.Context, favourite domain.Favourite) error {
		added = favourite
		return nil
	}

	favourite, err := svc.Add(context.Background(), "user-123", service.AddInput{
		AnimeID:  42,
		Title:    "Cowboy Bebop",
		ImageURL: "https://img.example.com/42.jpg",
	})

	require.NoError(t, err)
	assert.Equal(t, "fav-1", favourite.ID)
	assert.Equal(t, "user-123", added.UserID)
	assert.Equal(t, int64(42), added.AnimeID)
	assert.Equal(t, "Cowboy Bebop", added.Title)
	assert.False(t, added.CreatedAt.IsZero())
}

func TestAdd_InvalidAnimeID(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Add(context.Background(), "user-123", service.AddInput{AnimeID: 0})
	assert.ErrorIs(t, err, service.ErrInvalidAnimeID)
}

func TestRemove(t *testing.T) {
	svc, repo := setupService(t)

	var deletedAnimeID int64
	repo.deleteFunc = func(ctx context.Context, userID string, animeID int64) error {
		deletedAnimeID = animeID
		return nil
	}

	require.NoError(t, svc.Remove(context.Background(), "user-123", 42))
	assert.Equal(t, int64(42), deletedAnimeID)
}

func TestRemove_UnknownFavourite(t *testing.T) {
	svc, repo := setupService(t)

	repo.deleteFunc = func(ctx context.Context, userID string, animeID int64) error {
		return repository.ErrFavouriteNotFound
	}

	err := svc.Remove(context.Background(), "user-123", 42)

	assert.ErrorIs(t, err, service.ErrFavouriteNotFound)
	domainErr, ok := commonerrors.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, 404, domainErr.HTTPStatus())
}

func TestList_WrapsRepositoryError(t *testing.T) {
	svc, repo := setupService(t)

	repo.listByUserFunc = func(ctx context.Context, userID string) ([]domain.Favourite, error) {
		return nil, errors.New("connection refused")
	}

	_, err := svc.List(context.Background(), "user-123")

	require.Error(t, err)
	domainErr, ok := commonerrors.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, 500, domainErr.HTTPStatus())
}
