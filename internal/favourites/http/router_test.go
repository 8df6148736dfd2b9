package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aniwatch/backend/internal/common/jwtverify"
	"github.com/aniwatch/backend/internal/common/logger"
	"github.com/aniwatch/backend/internal/favourites/domain"
	favhttp "github.com/aniwatch/backend/internal/favourites/http"
	"github.com/aniwatch/backend/internal/favourites/repository"
	"github.com/aniwatch/backend/internal/favourites/service"
)

type stubRepo struct {
	favourites []domain.Favourite
	removable  map[int64]bool
}

func (s *stubRepo) ListByUser(ctx context.Context, userID string) ([]domain.Favourite, error) {
	return s.favourites, nil
}

func (s *stubRepo) Add(ctx context.Context, favourite domain.Favourite) error {
	s.favourites = append(s.favourites, favourite)
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, userID string, animeID int64) error {
	if s.removable == nil || !s.removable[animeID] {
		return repository.ErrFavouriteNotFound
	}
	return nil
}

type staticIDGenerator struct{}

func (staticIDGenerator) NewID() (string, error) { return "fav-1", nil }

func setupHandler(t *testing.T) (http.Handler, *stubRepo) {
	t.Helper()

	log, err := logger.New("", "test", "ERROR")
	require.NoError(t, err)

	repo := &stubRepo{}
	svc := service.NewService(repo, staticIDGenerator{}, log)
	return favhttp.NewHandler(svc, log), repo
}

func do(t *testing.T, handler http.Handler, method, path string, body any, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if authenticated {
		req = req.WithContext(jwtverify.NewContext(req.Context(), jwtverify.Identity{ID: "user-123"}))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestList(t *testing.T) {
	handler, repo := setupHandler(t)
	repo.favourites = []domain.Favourite{{ID: "fav-1", AnimeID: 42, Title: "Cowboy Bebop"}}

	rec := do(t, handler, http.MethodGet, "/api/favourites/", nil, true)

	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data []domain.Favourite `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Cowboy Bebop", env.Data[0].Title)
}

func TestAdd(t *testing.T) {
	handler, repo := setupHandler(t)

	rec := do(t, handler, http.MethodPost, "/api/favourites/", map[string]any{
		"animeId":  42,
		"title":    "Cowboy Bebop",
		"imageUrl": "https://img.example.com/42.jpg",
	}, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.favourites, 1)
	assert.Equal(t, "user-123", repo.favourites[0].UserID)
}

func TestAdd_InvalidAnimeID(t *testing.T) {
	handler, _ := setupHandler(t)

	rec := do(t, handler, http.MethodPost, "/api/favourites/", map[string]any{"animeId": 0}, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemove(t *testing.T) {
	handler, repo := setupHandler(t)
	repo.removable = map[int64]bool{42: true}

	rec := do(t, handler, http.MethodDelete, "/api/favourites/42", nil, true)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRemove_Unknown(t *testing.T) {
	handler, _ := setupHandler(t)

	rec := do(t, handler, http.MethodDelete, "/api/favourites/42", nil, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnauthenticated(t *testing.T) {
	handler, _ := setupHandler(t)

	rec := do(t, handler, http.MethodGet, "/api/favourites/", nil, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
