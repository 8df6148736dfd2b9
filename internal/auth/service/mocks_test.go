package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aniwatch/backend/internal/auth/domain"
	"github.com/aniwatch/backend/internal/auth/repository"
	"github.com/aniwatch/backend/internal/auth/service"
	"github.com/aniwatch/backend/internal/common/logger"
)

const (
	testAccessSecret  = "test-access-secret-at-least-32-bytes!!"
	testRefreshSecret = "test-refresh-secret-at-least-32-bytes!"
)

type mockUserRepo struct {
	createFunc          func(ctx context.Context, user domain.User) error
	findByEmailFunc     func(ctx context.Context, email string) (domain.User, error)
	findByIDFunc        func(ctx context.Context, id domain.UserID) (domain.User, error)
	setRefreshTokenFunc func(ctx context.Context, id domain.UserID, token string) error
	updatePasswordFunc  func(ctx context.Context, id domain.UserID, passwordHash string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockUserRepo) FindByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (m *mockUserRepo) SetRefreshToken(ctx context.Context, id domain.UserID, token string) error {
	if m.setRefreshTokenFunc != nil {
		return m.setRefreshTokenFunc(ctx, id, token)
	}
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id domain.UserID, passwordHash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "id-1", nil
}

func setupAuthService(t *testing.T) (*service.AuthService, *mockUserRepo, *mockHasher, *mockIDGenerator) {
	t.Helper()

	users := &mockUserRepo{}
	hasher := &mockHasher{}
	idGenerator := &mockIDGenerator{}

	log, err := logger.New("", "test", "ERROR")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	issuer := service.NewTokenIssuer(testAccessSecret, testRefreshSecret, 15*time.Minute, 7*24*time.Hour)
	svc := service.NewAuthService(users, issuer, hasher, idGenerator, log)

	return svc, users, hasher, idGenerator
}

// storedUser is a minimal in-memory single-user repo for the rotation
// scenarios where the stored refresh token must evolve across calls.
type storedUser struct {
	user domain.User
}

func (s *storedUser) attach(repo *mockUserRepo) {
	repo.findByEmailFunc = func(ctx context.Context, email string) (domain.User, error) {
		if email != s.user.Email {
			return domain.User{}, repository.ErrUserNotFound
		}
		return s.user, nil
	}
	repo.findByIDFunc = func(ctx context.Context, id domain.UserID) (domain.User, error) {
		if id != s.user.ID {
			return domain.User{}, repository.ErrUserNotFound
		}
		return s.user, nil
	}
	repo.setRefreshTokenFunc = func(ctx context.Context, id domain.UserID, token string) error {
		if id != s.user.ID {
			return repository.ErrUserNotFound
		}
		s.user.RefreshToken = token
		return nil
	}
}
