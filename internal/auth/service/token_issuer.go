package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aniwatch/backend/internal/auth/domain"
	"github.com/aniwatch/backend/internal/observability/metrics"
)

// TokenIssuer mints the signed token pair. Access tokens carry the email
// claim for downstream handlers; refresh tokens deliberately carry only
// the user id so a leaked one exposes nothing else.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

type RefreshClaims struct {
	UserID domain.UserID
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if refreshSecret == "" {
		refreshSecret = accessSecret
	}
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

func (i *TokenIssuer) IssueAccessToken(user domain.User) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":   string(user.ID),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(i.accessTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(i.accessSecret)
	if err != nil {
		return "", err
	}

	metrics.AccessTokensIssued.Inc()
	return tokenString, nil
}

func (i *TokenIssuer) IssueRefreshToken(user domain.User) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub": string(user.ID),
		"iat": now.Unix(),
		"exp": now.Add(i.refreshTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(i.refreshSecret)
	if err != nil {
		return "", err
	}

	metrics.RefreshTokensIssued.Inc()
	return tokenString, nil
}

// VerifyRefreshToken checks signature and expiry against the refresh
// secret. Storage state is the caller's concern.
func (i *TokenIssuer) VerifyRefreshToken(tokenString string) (RefreshClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.refreshSecret, nil
	})
	if err != nil || !parsed.Valid {
		if err == nil {
			err = errors.New("token is not valid")
		}
		return RefreshClaims{}, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return RefreshClaims{}, errors.New("invalid claims type")
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return RefreshClaims{}, errors.New("missing sub claim")
	}

	return RefreshClaims{UserID: domain.UserID(sub)}, nil
}
