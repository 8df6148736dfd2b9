package jwtverify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aniwatch/backend/internal/common/constants"
	commonhttp "github.com/aniwatch/backend/internal/common/http"
	"github.com/aniwatch/backend/internal/common/logger"
	"github.com/aniwatch/backend/internal/observability/metrics"
)

type Claims struct {
	UserID string
	Email  string
}

// Identity is the resolved, client-safe user attached to the request
// context once the gate passes.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// Resolver turns a verified userId claim into a live identity. A lookup
// miss means the token refers to a deleted account and must be rejected.
type Resolver interface {
	ResolveIdentity(ctx context.Context, userID string) (Identity, error)
}

type contextKey string

const identityKey contextKey = "auth_identity"

// Middleware authenticates a request or rejects it with 401. Token
// precedence: accessToken cookie first, then Authorization bearer.
func Middleware(secret string, resolver Resolver, log *logger.Logger) func(next http.Handler) http.Handler {
	secretBytes := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := ExtractAccessToken(r)
			if !ok {
				log.Warnf("auth failed path=%s: no access token in cookie or header", r.URL.Path)
				commonhttp.WriteError(w, http.StatusUnauthorized, "Unauthorized request")
				return
			}

			metrics.JWTValidationsTotal.Inc()

			claims, err := parseToken(tokenString, secretBytes)
			if err != nil {
				log.Warnf("auth failed path=%s: %v", r.URL.Path, err)
				metrics.JWTValidationsFailed.Inc()
				commonhttp.WriteError(w, http.StatusUnauthorized, "Invalid access token")
				return
			}

			identity, err := resolver.ResolveIdentity(r.Context(), claims.UserID)
			if err != nil {
				log.Warnf("auth failed path=%s: identity resolution: %v", r.URL.Path, err)
				metrics.JWTValidationsFailed.Inc()
				commonhttp.WriteError(w, http.StatusUnauthorized, "Invalid access token")
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), identity)))
		})
	}
}

// ExtractAccessToken implements the precedence-ordered dual-source
// lookup: cookie wins over the Authorization header.
func ExtractAccessToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(constants.AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	raw := r.Header.Get("Authorization")
	if strings.HasPrefix(raw, "Bearer ") {
		token := strings.TrimPrefix(raw, "Bearer ")
		if token != "" {
			return token, true
		}
	}

	return "", false
}

func NewContext(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func FromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}

func parseToken(tokenString string, secret []byte) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return Claims{}, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid claims type")
	}

	sub, _ := mapClaims["sub"].(string)
	email, _ := mapClaims["email"].(string)
	if sub == "" || email == "" {
		return Claims{}, errors.New("missing sub or email claims")
	}

	return Claims{
		UserID: sub,
		Email:  email,
	}, nil
}
