package service

import (
	"context"
	"errors"

	"github.com/aniwatch/backend/internal/common/clock"
	commoncrypto "github.com/aniwatch/backend/internal/common/crypto"
	commonerrors "github.com/aniwatch/backend/internal/common/errors"
	"github.com/aniwatch/backend/internal/common/logger"
	"github.com/aniwatch/backend/internal/watchlist/domain"
	"github.com/aniwatch/backend/internal/watchlist/repository"
)

var (
	ErrInvalidStatus = commonerrors.NewDomainError(
		"INVALID_WATCHLIST_STATUS",
		commonerrors.CategoryValidation,
		400,
		"Invalid watchlist status",
	)

	ErrInvalidAnimeID = commonerrors.NewDomainError(
		"INVALID_ANIME_ID",
		commonerrors.CategoryValidation,
		400,
		"Invalid anime id",
	)

	ErrEntryNotFound = commonerrors.NewDomainError(
		"WATCHLIST_ENTRY_NOT_FOUND",
		commonerrors.CategoryNotFound,
		404,
		"Watchlist entry not found",
	)
)

type Service struct {
	repo        repository.Repository
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewService(repo repository.Repository, idGenerator commoncrypto.IDGenerator, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		idGenerator: idGenerator,
		clock:       clock.NewRealClock(),
		log:         log,
	}
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Entry, error) {
	entries, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return entries, nil
}

type SaveInput struct {
	AnimeID         int64
	Title           string
	Status          domain.Status
	EpisodesWatched int
}

func (s *Service) Save(ctx context.Context, userID string, input SaveInput) (domain.Entry, error) {
	if input.AnimeID <= 0 {
		return domain.Entry{}, ErrInvalidAnimeID
	}
	if input.Status == "" {
		input.Status = domain.StatusPlanned
	}
	if !input.Status.Valid() {
		return domain.Entry{}, ErrInvalidStatus
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Entry{}, commonerrors.ErrInternalError.WithCause(err)
	}

	entry := domain.Entry{
		ID:              id,
		UserID:          userID,
		AnimeID:         input.AnimeID,
		Title:           input.Title,
		Status:          input.Status,
		EpisodesWatched: input.EpisodesWatched,
		CreatedAt:       s.clock.Now(),
		UpdatedAt:       s.clock.Now(),
	}

	if err := s.repo.Upsert(ctx, entry); err != nil {
		return domain.Entry{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":  userID,
		"anime_id": input.AnimeID,
		"action":   "watchlist_saved",
	}).Info("watchlist entry saved")

	return entry, nil
}

type UpdateInput struct {
	Status          *domain.Status
	EpisodesWatched *int
}

func (s *Service) Update(ctx context.Context, userID string, animeID int64, input UpdateInput) error {
	if animeID <= 0 {
		return ErrInvalidAnimeID
	}
	if input.Status != nil && !input.Status.Valid() {
		return ErrInvalidStatus
	}

	err := s.repo.UpdateProgress(ctx, userID, animeID, input.Status, input.EpisodesWatched)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	return nil
}

func (s *Service) Remove(ctx context.Context, userID string, animeID int64) error {
	if animeID <= 0 {
		return ErrInvalidAnimeID
	}

	err := s.repo.Delete(ctx, userID, animeID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":  userID,
		"anime_id": animeID,
		"action":   "watchlist_removed",
	}).Info("watchlist entry removed")

	return nil
}
