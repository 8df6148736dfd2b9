package service

import (
	"context"
	"errors"

	"github.com/aniwatch/backend/internal/common/clock"
	commoncrypto "github.com/aniwatch/backend/internal/common/crypto"
	commonerrors "github.com/aniwatch/backend/internal/common/errors"
	"github.com/aniwatch/backend/internal/common/logger"
	"github.com/aniwatch/backend/internal/favourites/domain"
	"github.com/aniwatch/backend/internal/favourites/repository"
)

var (
	ErrInvalidAnimeID = commonerrors.NewDomainError(
		"INVALID_ANIME_ID",
		commonerrors.CategoryValidation,
		400,
		"Invalid anime id",
	)

	ErrFavouriteNotFound = commonerrors.NewDomainError(
		"FAVOURITE_NOT_FOUND",
		commonerrors.CategoryNotFound,
		404,
		"Favourite not found",
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

func (s *Service) List(ctx context.Context, userID string) ([]domain.Favourite, error) {
	favourites, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}
	if favourites == nil {
		favourites = []domain.Favourite{}
	}
	return favourites, nil
}

type AddInput struct {
	AnimeID  int64
	Title    string
	ImageURL string
}

func (s *Service) Add(ctx context.Context, userID string, input AddInput) (domain.Favourite, error) {
	if input.AnimeID <= 0 {
		return domain.Favourite{}, ErrInvalidAnimeID
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Favourite{}, commonerrors.ErrInternalError.WithCause(err)
	}

	favourite := domain.Favourite{
		ID:        id,
		UserID:    userID,
		AnimeID:   input.AnimeID,
		Title:     input.Title,
		ImageURL:  input.ImageURL,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.Add(ctx, favourite); err != nil {
		return domain.Favourite{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":  userID,
		"anime_id": input.AnimeID,
		"action":   "favourite_added",
	}).Info("favourite added")

	return favourite, nil
}

func (s *Service) Remove(ctx context.Context, userID string, animeID int64) error {
	if animeID <= 0 {
		return ErrInvalidAnimeID
	}

	err := s.repo.Delete(ctx, userID, animeID)
	if err != nil {
		if errors.Is(err, repository.ErrFavouriteNotFound) {
			return ErrFavouriteNotFound
		}
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":  userID,
		"anime_id": animeID,
		"action":   "favourite_removed",
	}).Info("favourite removed")

	return nil
}
