package http

import (
	"net/http"
	"strconv"
	"strings"

	commonhttp "github.com/aniwatch/backend/internal/common/http"
	"github.com/aniwatch/backend/internal/common/jwtverify"
	"github.com/aniwatch/backend/internal/common/logger"
	"github.com/aniwatch/backend/internal/watchlist/domain"
	"github.com/aniwatch/backend/internal/watchlist/service"
)

type saveRequest struct {
	AnimeID         int64         `json:"animeId"`
	Title           string        `json:"title"`
	Status          domain.Status `json:"status"`
	EpisodesWatched int           `json:"episodesWatched"`
}

type updateRequest struct {
	Status          *domain.Status `json:"status"`
	EpisodesWatched *int           `json:"episodesWatched"`
}

type Handler struct {
	watchlist *service.Service
	log       *logger.Logger
}

// NewHandler serves /api/watchlist/ and /api/watchlist/{animeId}. The
// caller wraps the returned handler with the session verifier.
func NewHandler(watchlist *service.Service, log *logger.Logger) http.Handler {
	h := &Handler{watchlist: watchlist, log: log}
	return http.HandlerFunc(h.route)
}

func (h *Handler) route(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/watchlist")
	rest = strings.Trim(rest, "/")

	if rest == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r, identity.ID)
		case http.MethodPost:
			h.save(w, r, identity.ID)
		default:
			commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
		return
	}

	animeID, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Invalid anime id")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		h.update(w, r, identity.ID, animeID)
	case http.MethodDelete:
		h.remove(w, r, identity.ID, animeID)
	default:
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, userID string) {
	entries, err := h.watchlist.List(r.Context(), userID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteSuccess(w, http.StatusOK, entries, "Watchlist fetched")
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, userID string) {
	var req saveRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.watchlist.Save(r.Context(), userID, service.SaveInput{
		AnimeID:         req.AnimeID,
		Title:           req.Title,
		Status:          req.Status,
		EpisodesWatched: req.EpisodesWatched,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusCreated, entry, "Watchlist entry saved")
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, userID string, animeID int64) {
	var req updateRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.watchlist.Update(r.Context(), userID, animeID, service.UpdateInput{
		Status:          req.Status,
		EpisodesWatched: req.EpisodesWatched,
	}); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, nil, "Watchlist entry updated")
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, userID string, animeID int64) {
	if err := h.watchlist.Remove(r.Context(), userID, animeID); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteSuccess(w, http.StatusOK, nil, "Watchlist entry removed")
}
