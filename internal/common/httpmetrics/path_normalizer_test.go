package httpmetrics_test

import (
	"testing"

	"github.com/aniwatch/backend/internal/common/httpmetrics"
)

func TestNormalizePath(t *testing.T) {
	testCases := []struct {
		path string
		want string
	}{
		{"", "/"},
		{"/health", "/health"},
		{"/api/auth/login", "/api/auth/login"},
		{"/api/watchlist/42", "/api/watchlist/{param}"},
		{"/api/favourites/123456", "/api/favourites/{param}"},
		{"/api/users/a1b2c3d4-e5f6-7890-abcd-ef1234567890", "/api/users/{param}"},
	}

	for _, tc := range testCases {
		if got := httpmetrics.NormalizePath(tc.path); got != tc.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
