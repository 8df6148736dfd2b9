package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aniwatch/backend/internal/auth/domain"
	"github.com/aniwatch/backend/internal/auth/repository"
	"github.com/aniwatch/backend/internal/auth/service"
	commonerrors "github.com/aniwatch/backend/internal/common/errors"
)

func TestAuthService_Register_Success(t *testing.T) {
	svc, users, hasher, idGenerator := setupAuthService(t)

	email := "student@example.com"
	password := "password123"
	hashedPassword := "hashed_password123"
	userID := "user-123"

	idGenerator.newIDFunc = func() (string, error) {
		return userID, nil
	}

	hasher.hashFunc = func(p string) (string, error) {
		if p != password {
			t.Errorf("expected password %s, got %s", password, p)
		}
		return hashedPassword, nil
	}

	users.createFunc = func(ctx context.Context, user domain.User) error {
		if user.Email != email {
			t.Errorf("expected email %s, got %s", email, user.Email)
		}
		if user.PasswordHash != hashedPassword {
			t.Errorf("expected password hash %s, got %s", hashedPassword, user.PasswordHash)
		}
		if user.RefreshToken != "" {
			t.Error("expected no refresh token on a fresh account")
		}
		return nil
	}

	profile, err := svc.Register(context.Background(), service.RegisterInput{
		Name:     "Student",
		Email:    email,
		Password: password,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if string(profile.ID) != userID {
		t.Errorf("expected user id %s, got %s", userID, profile.ID)
	}

	if profile.Email != email {
		t.Errorf("expected email %s, got %s", email, profile.Email)
	}
}

func TestAuthService_Register_ValidationError(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	testCases := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "password123"},
		{"malformed email", "not-an-email", "password123"},
		{"short password", "student@example.com", "pass"},
		{"long password", "student@example.com", string(make([]byte, 80))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), service.RegisterInput{
				Email:    tc.email,
				Password: tc.password,
			})

			if err == nil {
				t.Fatal("expected validation error")
			}

			domainErr, ok := commonerrors.AsDomainError(err)
			if !ok || domainErr.HTTPStatus() != 400 {
				t.Errorf("expected 400 validation error, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_EmailAlreadyExists(t *testing.T) {
	svc, users, _, _ := setupAuthService(t)

	users.createFunc = func(ctx context.Context, user domain.User) error {
		return repository.ErrEmailAlreadyExists
	}

	_, err := svc.Register(context.Background(), service.RegisterInput{
		Email:    "taken@example.com",
		Password: "password123",
	})

	if !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	domainErr, _ := commonerrors.AsDomainError(err)
	if domainErr.HTTPStatus() != 400 {
		t.Errorf("expected status 400, got %d", domainErr.HTTPStatus())
	}
	if domainErr.Message() != "User with this email already exists" {
		t.Errorf("unexpected message %q", domainErr.Message())
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, users, hasher, _ := setupAuthService(t)

	email := "student@example.com"
	password := "password123"

	store := &storedUser{user: domain.User{
		ID:           "user-123",
		Email:        email,
		PasswordHash: "hashed",
	}}
	store.attach(users)

	hasher.compareFunc = func(hash string, pwd string) error {
		if hash != "hashed" || pwd != password {
			return errors.New("password mismatch")
		}
		return nil
	}

	result, err := svc.Login(context.Background(), service.LoginInput{
		Email:    email,
		Password: password,
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.AccessToken == "" {
		t.Error("expected access token to be set")
	}

	if result.RefreshToken == "" {
		t.Error("expected refresh token to be set")
	}

	if store.user.RefreshToken != result.RefreshToken {
		t.Error("expected issued refresh token to be persisted on the user")
	}

	if result.User.Email != email {
		t.Errorf("expected profile email %s, got %s", email, result.User.Email)
	}
}

func TestAuthService_Login_EmailRequired(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "",
		Password: "password123",
	})

	if !errors.Is(err, service.ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, users, _, _ := setupAuthService(t)

	users.findByEmailFunc = func(ctx context.Context, email string) (domain.User, error) {
		return domain.User{}, repository.ErrUserNotFound
	}

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "ghost@example.com",
		Password: "password123",
	})

	if !errors.Is(err, service.ErrUnknownEmail) {
		t.Fatalf("expected ErrUnknownEmail, got %v", err)
	}

	domainErr, _ := commonerrors.AsDomainError(err)
	if domainErr.HTTPStatus() != 404 {
		t.Errorf("expected status 404, got %d", domainErr.HTTPStatus())
	}
	if domainErr.Message() != "Invalid credentials" {
		t.Errorf("unexpected message %q", domainErr.Message())
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, users, hasher, _ := setupAuthService(t)

	users.findByEmailFunc = func(ctx context.Context, email string) (domain.User, error) {
		return domain.User{ID: "user-123", Email: email, PasswordHash: "hashed"}, nil
	}

	hasher.compareFunc = func(hash string, password string) error {
		return errors.New("password mismatch")
	}

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "student@example.com",
		Password: "wrong-password",
	})

	if !errors.Is(err, service.ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}

	domainErr, _ := commonerrors.AsDomainError(err)
	if domainErr.HTTPStatus() != 401 {
		t.Errorf("expected status 401, got %d", domainErr.HTTPStatus())
	}
	if domainErr.Message() != "Invalid user credentials" {
		t.Errorf("unexpected message %q", domainErr.Message())
	}
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	svc, users, _, _ := setupAuthService(t)

	store := &storedUser{user: domain.User{
		ID:           "user-123",
		Email:        "student@example.com",
		PasswordHash: "hashed:password123",
	}}
	store.attach(users)

	loginResult, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "student@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	refreshResult, err := svc.Refresh(context.Background(), loginResult.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if refreshResult.AccessToken == "" || refreshResult.RefreshToken == "" {
		t.Fatal("expected a full token pair from refresh")
	}

	if store.user.RefreshToken != refreshResult.RefreshToken {
		t.Error("expected the rotated refresh token to be persisted")
	}
}

func TestAuthService_Refresh_ReusedTokenRejected(t *testing.T) {
	svc, users, _, _ := setupAuthService(t)

	store := &storedUser{user: domain.User{
		ID:           "user-123",
		Email:        "student@example.com",
		PasswordHash: "hashed:password123",
	}}
	store.attach(users)

	loginResult, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "student@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), loginResult.RefreshToken); err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}

	// The original token was rotated away; presenting it again is reuse.
	_, err = svc.Refresh(context.Background(), loginResult.RefreshToken)
	if !errors.Is(err, service.ErrRefreshTokenReused) {
		t.Fatalf("expected ErrRefreshTokenReused, got %v", err)
	}

	domainErr, _ := commonerrors.AsDomainError(err)
	if domainErr.Message() != "Refresh token is expired or used" {
		t.Errorf("unexpected message %q", domainErr.Message())
	}
}

func TestAuthService_Refresh_AfterLogoutRejected(t *testing.T) {
	svc, users, _, _ := setupAuthService(t)

	store := &storedUser{user: domain.User{
		ID:           "user-123",
		Email:        "student@example.com",
		PasswordHash: "hashed:password123",
	}}
	store.attach(users)

	loginResult, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "student@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), store.user.ID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	_, err = svc.Refresh(context.Background(), loginResult.RefreshToken)
	if !errors.Is(err, service.ErrRefreshTokenReused) {
		t.Fatalf("expected ErrRefreshTokenReused after logout, got %v", err)
	}
}

func TestAuthService_Refresh_MissingToken(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	_, err := svc.Refresh(context.Background(), "")
	if !errors.Is(err, service.ErrMissingRefreshToken) {
		t.Fatalf("expected ErrMissingRefreshToken, got %v", err)
	}

	domainErr, _ := commonerrors.AsDomainError(err)
	if domainErr.Message() != "Unauthorized request" {
		t.Errorf("unexpected message %q", domainErr.Message())
	}
}

func TestAuthService_Refresh_GarbageToken(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	if !errors.Is(err, service.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthService_Refresh_DeletedUserRejected(t *testing.T) {
	svc, users, _, _ := setupAuthService(t)

	store := &storedUser{user: domain.User{
		ID:           "user-123",
		Email:        "student@example.com",
		PasswordHash: "hashed:password123",
	}}
	store.attach(users)

	loginResult, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "student@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	users.findByIDFunc = func(ctx context.Context, id domain.UserID) (domain.User, error) {
		return domain.User{}, repository.ErrUserNotFound
	}

	_, err = svc.Refresh(context.Background(), loginResult.RefreshToken)
	if !errors.Is(err, service.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for deleted user, got %v", err)
	}
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	svc, users, _, _ := setupAuthService(t)

	cleared := 0
	users.setRefreshTokenFunc = func(ctx context.Context, id domain.UserID, token string) error {
		if token != "" {
			t.Errorf("expected logout to clear the token, got %q", token)
		}
		cleared++
		return nil
	}

	if err := svc.Logout(context.Background(), "user-123"); err != nil {
		t.Fatalf("first logout failed: %v", err)
	}
	if err := svc.Logout(context.Background(), "user-123"); err != nil {
		t.Fatalf("second logout failed: %v", err)
	}

	if cleared != 2 {
		t.Errorf("expected 2 clear calls, got %d", cleared)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	svc, users, _, _ := setupAuthService(t)

	users.findByIDFunc = func(ctx context.Context, id domain.UserID) (domain.User, error) {
		return domain.User{
			ID:           id,
			Email:        "student@example.com",
			Name:         "Student",
			PasswordHash: "hashed",
			RefreshToken: "secret-token",
		}, nil
	}

	profile, err := svc.CurrentUser(context.Background(), "user-123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if profile.Email != "student@example.com" || profile.Name != "Student" {
		t.Errorf("unexpected profile %+v", profile)
	}
}

func TestAuthService_CurrentUser_NotFound(t *testing.T) {
	svc, _, _, _ := setupAuthService(t)

	_, err := svc.CurrentUser(context.Background(), "missing")
	if !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ChangePassword_Success(t *testing.T) {
	svc, users, _, _ := setupAuthService(t)

	store := &storedUser{user: domain.User{
		ID:           "user-123",
		Email:        "student@example.com",
		PasswordHash: "hashed:old-password",
	}}
	store.attach(users)

	var newHash string
	users.updatePasswordFunc = func(ctx context.Context, id domain.UserID, passwordHash string) error {
		newHash = passwordHash
		return nil
	}

	err := svc.ChangePassword(context.Background(), "user-123", "old-password", "new-password-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if newHash != "hashed:new-password-1" {
		t.Errorf("expected persisted hash of the new password, got %q", newHash)
	}
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	svc, users, _, _ := setupAuthService(t)

	store := &storedUser{user: domain.User{
		ID:           "user-123",
		Email:        "student@example.com",
		PasswordHash: "hashed:old-password",
	}}
	store.attach(users)

	err := svc.ChangePassword(context.Background(), "user-123", "wrong", "new-password-1")
	if !errors.Is(err, service.ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
}
