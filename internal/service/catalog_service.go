package service

import (
	"context"

	"github.com/iliyamo/filmorate/internal/model"
	"github.com/iliyamo/filmorate/internal/repository"
)

// CatalogService exposes the read-only genre and MPA rating lookups.
type CatalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) Genres(ctx context.Context) ([]model.Genre, error) {
	return s.store.ListGenres(ctx)
}

func (s *CatalogService) Genre(ctx context.Context, id uint64) (*model.Genre, error) {
	return s.store.GetGenre(ctx, id)
}

func (s *CatalogService) Ratings(ctx context.Context) ([]model.Rating, error) {
	return s.store.ListRatings(ctx)
}

func (s *CatalogService) Rating(ctx context.Context, id uint64) (*model.Rating, error) {
	return s.store.GetRating(ctx, id)
}
