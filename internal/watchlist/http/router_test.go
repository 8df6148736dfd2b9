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
	"github.com/aniwatch/backend/internal/watchlist/domain"
	watchhttp "github.com/aniwatch/backend/internal/watchlist/http"
	"github.com/aniwatch/backend/internal/watchlist/repository"
	"github.com/aniwatch/backend/internal/watchlist/service"
)

type stubRepo struct {
	entries []domain.Entry
	updated map[int64]bool
	deleted map[int64]bool
}

func (s *stubRepo) ListByUser(ctx context.Context, userID string) ([]domain.Entry, error) {
	return s.entries, nil
}

func (s *stubRepo) Upsert(ctx context.Context, entry domain.Entry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubRepo) UpdateProgress(ctx context.Context, userID string, animeID int64, status *domain.Status, episodes *int) error {
	if s.updated == nil || !s.updated[animeID] {
		return repository.ErrEntryNotFound
	}
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, userID string, animeID int64) error {
	if s.deleted == nil || !s.deleted[animeID] {
		return repository.ErrEntryNotFound
	}
	return nil
}

type staticIDGenerator struct{}

func (staticIDGenerator) NewID() (string, error) { return "entry-1", nil }

func setupHandler(t *testing.T) (http.Handler, *stubRepo) {
	t.Helper()

	log, err := logger.New("", "test", "ERROR")
	require.NoError(t, err)

	repo := &stubRepo{}
	svc := service.NewService(repo, staticIDGenerator{}, log)
	return watchhttp.NewHandler(svc, log), repo
}

func do(t *testing.T, handler http.Handler, method, path string, body any, authenticated bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if authenticated {
		ctx := jwtverify.NewContext(req.Context(), jwtverify.Identity{
			ID:    "user-123",
			Email: "student@example.com",
		})
		req = req.WithContext(ctx)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestList(t *testing.T) {
	handler, repo := setupHandler(t)
	repo.entries = []domain.Entry{{ID: "entry-1", AnimeID: 42, Title: "Cowboy Bebop", Status: domain.StatusWatching}}

	rec := do(t, handler, http.MethodGet, "/api/watchlist/", nil, true)

	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data []domain.Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, int64(42), env.Data[0].AnimeID)
}

func TestSave(t *testing.T) {
	handler, repo := setupHandler(t)

	rec := do(t, handler, http.MethodPost, "/api/watchlist/", map[string]any{
		"animeId":         42,
		"title":           "Cowboy Bebop",
		"status":          "watching",
		"episodesWatched": 3,
	}, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, "user-123", repo.entries[0].UserID)
}

func TestSave_InvalidStatus(t *testing.T) {
	handler, _ := setupHandler(t)

	rec := do(t, handler, http.MethodPost, "/api/watchlist/", map[string]any{
		"animeId": 42,
		"status":  "binging",
	}, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdate_UnknownEntry(t *testing.T) {
	handler, _ := setupHandler(t)

	rec := do(t, handler, http.MethodPatch, "/api/watchlist/42", map[string]any{
		"episodesWatched": 5,
	}, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdate(t *testing.T) {
	handler, repo := setupHandler(t)
	repo.updated = map[int64]bool{42: true}

	rec := do(t, handler, http.MethodPatch, "/api/watchlist/42", map[string]any{
		"status": "completed",
	}, true)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDelete(t *testing.T) {
	handler, repo := setupHandler(t)
	repo.deleted = map[int64]bool{42: true}

	rec := do(t, handler, http.MethodDelete, "/api/watchlist/42", nil, true)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInvalidAnimeIDPath(t *testing.T) {
	handler, _ := setupHandler(t)

	rec := do(t, handler, http.MethodDelete, "/api/watchlist/not-a-number", nil, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnauthenticated(t *testing.T) {
	handler, _ := setupHandler(t)

	rec := do(t, handler, http.MethodGet, "/api/watchlist/", nil, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
