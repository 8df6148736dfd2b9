package http

import (
	"context"
	"net/http"

	"github.com/aniwatch/backend/internal/auth/domain"
	"github.com/aniwatch/backend/internal/auth/service"
	"github.com/aniwatch/backend/internal/common/config"
	"github.com/aniwatch/backend/internal/common/constants"
	commonhttp "github.com/aniwatch/backend/internal/common/http"
	"github.com/aniwatch/backend/internal/common/jwtverify"
	"github.com/aniwatch/backend/internal/common/logger"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type authData struct {
	User         domain.Profile `json:"user"`
	AccessToken  string         `json:"accessToken"`
	RefreshToken string         `json:"refreshToken"`
}

type tokenData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Handler struct {
	auth *service.AuthService
	cfg  config.Config
	log  *logger.Logger
}

// NewHandler wires the auth endpoints. guard is the session verifier
// middleware; register/login/refresh stay outside it.
func NewHandler(auth *service.AuthService, guard func(http.Handler) http.Handler, cfg config.Config, log *logger.Logger) http.Handler {
	h := &Handler{auth: auth, cfg: cfg, log: log}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", h.register)
	mux.HandleFunc("/api/auth/login", h.login)
	mux.HandleFunc("/api/auth/refresh-token", h.refresh)
	mux.Handle("/api/auth/logout", guard(http.HandlerFunc(h.logout)))
	mux.Handle("/api/auth/current-user", guard(http.HandlerFunc(h.currentUser)))
	mux.Handle("/api/auth/change-password", guard(http.HandlerFunc(h.changePassword)))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req registerRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("register failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if _, err := h.auth.Register(ctx, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusCreated, nil, "User registered successfully")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.auth.Login(ctx, service.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	maxAge := constants.SessionCookieMaxAge
	if req.RememberMe {
		maxAge = constants.RememberMeCookieAge
	}
	setAuthCookies(w, h.cfg, result.AccessToken, result.RefreshToken, maxAge)

	commonhttp.WriteSuccess(w, http.StatusOK, authData{
		User:         result.User,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "User logged in successfully")
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	presented := extractRefreshToken(r)

	ctx, cancel := h.requestContext(r)
	defer cancel()

	result, err := h.auth.Refresh(ctx, presented)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	// Rotation always resets the pair with the full refresh lifetime,
	// regardless of the original login's rememberMe choice.
	setAuthCookies(w, h.cfg, result.AccessToken, result.RefreshToken, constants.RefreshCookieMaxAge)

	commonhttp.WriteSuccess(w, http.StatusOK, tokenData{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}, "Access token refreshed")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.auth.Logout(ctx, domain.UserID(identity.ID)); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	clearAuthCookies(w, h.cfg)
	commonhttp.WriteSuccess(w, http.StatusOK, nil, "User logged out")
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	profile, err := h.auth.CurrentUser(ctx, domain.UserID(identity.ID))
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, profile, "Current user fetched")
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	identity, ok := jwtverify.FromContext(r.Context())
	if !ok {
		commonhttp.WriteError(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	var req changePasswordRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		commonhttp.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	if err := h.auth.ChangePassword(ctx, domain.UserID(identity.ID), req.OldPassword, req.NewPassword); err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteSuccess(w, http.StatusOK, nil, "Password changed successfully")
}

func (h *Handler) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := h.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	return context.WithTimeout(r.Context(), timeout)
}
