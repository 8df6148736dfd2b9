package service

import (
	commonerrors "github.com/aniwatch/backend/internal/common/errors"
)

// Client-visible messages intentionally collapse distinct failure modes:
// the response never reveals whether a token was malformed, expired, or
// rotated away.
var (
	ErrEmailRequired = commonerrors.NewDomainError(
		"EMAIL_REQUIRED",
		commonerrors.CategoryValidation,
		400,
		"Email is required",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		400,
		"Validation failed",
	)

	ErrEmailTaken = commonerrors.NewDomainError(
		"EMAIL_TAKEN",
		commonerrors.CategoryConflict,
		400,
		"User with this email already exists",
	)

	ErrUnknownEmail = commonerrors.NewDomainError(
		"UNKNOWN_EMAIL",
		commonerrors.CategoryNotFound,
		404,
		"Invalid credentials",
	)

	ErrInvalidPassword = commonerrors.NewDomainError(
		"INVALID_PASSWORD",
		commonerrors.CategoryUnauthorized,
		401,
		"Invalid user credentials",
	)

	ErrMissingRefreshToken = commonerrors.NewDomainError(
		"MISSING_REFRESH_TOKEN",
		commonerrors.CategoryUnauthorized,
		401,
		"Unauthorized request",
	)

	ErrInvalidRefreshToken = commonerrors.NewDomainError(
		"INVALID_REFRESH_TOKEN",
		commonerrors.CategoryUnauthorized,
		401,
		"Invalid refresh token",
	)

	ErrRefreshTokenReused = commonerrors.NewDomainError(
		"REFRESH_TOKEN_REUSED",
		commonerrors.CategoryUnauthorized,
		401,
		"Refresh token is expired or used",
	)

	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		404,
		"User not found",
	)

	ErrTokenIssueFailed = commonerrors.NewDomainError(
		"TOKEN_ISSUE_FAILED",
		commonerrors.CategoryInternal,
		500,
		"Failed to generate tokens",
	)
)
