package http

import (
	"net/http"
	"strconv"
	"strings"

	commonhttp "github.com/aniwatch/backend/internal/common/http"
	"github.com/aniwatch/backend/internal/common/jwtverify"
	"github.com/aniwatch/backend/internal/common/logger"
	"github.com/aniwatch/backend/internal/favourites/service"
)

type addRequest struct {
	AnimeID  int64  `json:"animeId"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

type Handler struct {
	favourites *service.Service
	log        *logger.Logger
}

func NewHandler(favourites *service.Service, log *logger.Logger) http.Handler {
	h := &Handler{favourites: favourites, log: log}
	return http.HandlerFunc(h.route)
}

func (h *Handler) route(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/favourites")
	rest = strings.Trim(rest, "/")

	if rest == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r, identity.ID)
		case http.MethodPost:
			h.add(w, r, identity.ID)
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

	if r.Method != http.MethodDelete {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	h.remove(w, r, identity.ID, animeID)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, userID string) {
	favourites, err := h.favourites.List(r.Context(), userID)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteSuccess(w, http.StatusOK, favourites, "Favourites fetched")
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request, userID string) {
	var req addRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	favourite, err := h.favourites.Add(r.Context(), userID, service.AddInput{
		AnimeID:  req.AnimeID,
		Title:    req.Title,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusCreated, favourite, "Favourite added")
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request, userID string, animeID int64) {
	if err := h.favourites.Remove(r.Context(), userID, animeID); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}
	commonhttp.WriteSuccess(w, http.StatusOK, nil, "Favourite removed")
}
