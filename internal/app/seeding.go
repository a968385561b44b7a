package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/domain"
)

type SeedService struct {
	repo  domain.CatalogWriter
	cache domain.Cache
}

func NewSeedService(r domain.CatalogWriter, cache domain.Cache) *SeedService {
	return &SeedService{repo: r, cache: cache}
}

func (s *SeedService) SeedActivities(ctx context.Context) error {
	for _, a := range SeedActivities() {
		if err := s.repo.UpsertActivity(ctx, a); err != nil {
			return fmt.Errorf("upsert activity %s: %w", a.ID, err)
		}
	}
	return nil
}

// SeedDestination writes the destination first so its attractions satisfy the FK,
// then retires every cached destination read.
func (s *SeedService) SeedDestination(ctx context.Context, d domain.Destination) error {
	if err := s.repo.UpsertDestination(ctx, d); err != nil {
		return fmt.Errorf("upsert destination %d: %w", d.ID, err)
	}
	for _, a := range SeedAttractions() {
		if a.DestinationID != d.ID {
			continue
		}
		if err := s.repo.UpsertAttraction(ctx, a); err != nil {
			return fmt.Errorf("upsert attraction %d: %w", a.ID, err)
		}
	}
	s.InvalidateCatalog(ctx)
	return nil
}

// InvalidateCatalog drops all cached destination searches and pages. Call it once more at the
// end of a seeding run so reads that raced the last write are retired too.
func (s *SeedService) InvalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := bumpCatalogGeneration(ctx, s.cache); err != nil {
		log.Warn().Err(err).Msg("catalog cache invalidation failed")
	}
}
