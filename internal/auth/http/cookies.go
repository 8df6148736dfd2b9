package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/aniwatch/backend/internal/common/config"
	"github.com/aniwatch/backend/internal/common/constants"
)

func sameSiteMode(cfg config.Config) http.SameSite {
	if cfg.IsProduction {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

func setAuthCookies(w http.ResponseWriter, cfg config.Config, accessToken, refreshToken string, maxAge time.Duration) {
	for name, value := range map[string]string{
		constants.AccessTokenCookie:  accessToken,
		constants.RefreshTokenCookie: refreshToken,
	} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    value,
			Path:     "/",
			MaxAge:   int(maxAge.Seconds()),
			HttpOnly: true,
			Secure:   cfg.IsProduction,
			SameSite: sameSiteMode(cfg),
		})
	}
}

func clearAuthCookies(w http.ResponseWriter, cfg config.Config) {
	for _, name := range []string{constants.AccessTokenCookie, constants.RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   cfg.IsProduction,
			SameSite: sameSiteMode(cfg),
		})
	}
}

// extractRefreshToken prefers the cookie and falls back to the request
// body. A missing or malformed body just yields an empty token; the
// service treats that as unauthorized.
func extractRefreshToken(r *http.Request) string {
	if cookie, err := r.Cookie(constants.RefreshTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return ""
	}
	return body.RefreshToken
}
