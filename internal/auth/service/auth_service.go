package service

import (
	"context"
	"errors"

	"github.com/aniwatch/backend/internal/auth/domain"
	"github.com/aniwatch/backend/internal/auth/repository"
	"github.com/aniwatch/backend/internal/common/clock"
	commoncrypto "github.com/aniwatch/backend/internal/common/crypto"
	commonerrors "github.com/aniwatch/backend/internal/common/errors"
	"github.com/aniwatch/backend/internal/common/logger"
	"github.com/aniwatch/backend/internal/observability/metrics"
)

type AuthService struct {
	users       repository.UserRepository
	issuer      *TokenIssuer
	hasher      commoncrypto.PasswordHasher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewAuthService(
	users repository.UserRepository,
	issuer *TokenIssuer,
	hasher commoncrypto.PasswordHasher,
	idGenerator commoncrypto.IDGenerator,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		users:       users,
		issuer:      issuer,
		hasher:      hasher,
		idGenerator: idGenerator,
		clock:       clock.NewRealClock(),
		log:         log,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
}

type AuthResult struct {
	User         domain.Profile
	AccessToken  string
	RefreshToken string
}

// Register creates the account without issuing tokens: registration is
// not auto-login in this design.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (domain.Profile, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	if err := validateRegisterInput(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return domain.Profile{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return domain.Profile{}, commonerrors.ErrInternalError.WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Profile{}, commonerrors.ErrInternalError.WithCause(err)
	}

	user := domain.User{
		ID:           domain.UserID(id),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailAlreadyExists) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "register_email_exists",
			}).Warn("register failed: email already registered")
			return domain.Profile{}, ErrEmailTaken
		}
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		return domain.Profile{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": string(user.ID),
		"action":  "register_success",
	}).Info("register success")

	return user.Profile(), nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	if input.Email == "" {
		return AuthResult{}, ErrEmailRequired
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			metrics.LoginAttemptsTotal.WithLabelValues("unknown_email").Inc()
			return AuthResult{}, ErrUnknownEmail
		}
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_invalid_password",
		}).Warn("login failed: invalid password")
		metrics.LoginAttemptsTotal.WithLabelValues("bad_password").Inc()
		return AuthResult{}, ErrInvalidPassword
	}

	result, err := s.issueAndPersist(ctx, user)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":   input.Email,
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"email":   user.Email,
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")
	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()

	return result, nil
}

// Refresh rotates the token pair. The presented token must equal the
// stored one exactly; a stale-but-once-valid token is treated as reuse
// and forces re-login.
func (s *AuthService) Refresh(ctx context.Context, presented string) (AuthResult, error) {
	if presented == "" {
		return AuthResult{}, ErrMissingRefreshToken
	}

	claims, err := s.issuer.VerifyRefreshToken(presented)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"action": "refresh_token_invalid",
		}).Warnf("refresh failed: %v", err)
		return AuthResult{}, ErrInvalidRefreshToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": string(claims.UserID),
				"action":  "refresh_user_not_found",
			}).Warn("refresh failed: user not found")
			return AuthResult{}, ErrInvalidRefreshToken
		}
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if user.RefreshToken == "" || user.RefreshToken != presented {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "refresh_token_reuse",
		}).Warn("refresh failed: presented token does not match stored token")
		metrics.RefreshTokenReuseDetected.Inc()
		return AuthResult{}, ErrRefreshTokenReused
	}

	result, err := s.issueAndPersist(ctx, user)
	if err != nil {
		return AuthResult{}, err
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "refresh_success",
	}).Info("refresh token rotated")
	metrics.RefreshTokensRotated.Inc()

	return result, nil
}

// Logout clears the stored refresh token. Clearing an already-empty
// token is a no-op, which keeps the operation idempotent.
func (s *AuthService) Logout(ctx context.Context, userID domain.UserID) error {
	if err := s.users.SetRefreshToken(ctx, userID, ""); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "logout_failed",
		}).Errorf("logout failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(userID),
		"action":  "logout_success",
	}).Info("logout success")
	metrics.SessionsRevoked.Inc()

	return nil
}

func (s *AuthService) CurrentUser(ctx context.Context, userID domain.UserID) (domain.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.Profile{}, ErrUserNotFound
		}
		return domain.Profile{}, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return user.Profile(), nil
}

// ChangePassword is the only write path besides Register that touches
// password_hash: hashing happens exactly when the plaintext changes.
func (s *AuthService) ChangePassword(ctx context.Context, userID domain.UserID, oldPassword, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, oldPassword); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(userID),
			"action":  "change_password_invalid_old",
		}).Warn("change password failed: invalid old password")
		return ErrInvalidPassword
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return commonerrors.ErrInternalError.WithCause(err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(userID),
		"action":  "change_password_success",
	}).Info("password changed")

	return nil
}

func (s *AuthService) issueAndPersist(ctx context.Context, user domain.User) (AuthResult, error) {
	accessToken, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return AuthResult{}, ErrTokenIssueFailed.WithCause(err)
	}

	refreshToken, err := s.issuer.IssueRefreshToken(user)
	if err != nil {
		return AuthResult{}, ErrTokenIssueFailed.WithCause(err)
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return AuthResult{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	return AuthResult{
		User:         user.Profile(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
