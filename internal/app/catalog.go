package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"travel_planner/internal/domain"
)

const (
	SearchLimit     = 10
	PageSize        = 12
	AttractionLimit = 10
)

type CatalogService struct {
	repo     domain.CatalogRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCatalogService(r domain.CatalogRepository, c domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{repo: r, cache: c, cacheTTL: ttl}
}

// SearchDestinations matches names case-insensitively. When the store has no match the seed list
// is filtered with the same query instead.
func (s *CatalogService) SearchDestinations(ctx context.Context, query string) ([]domain.Destination, error) {
	key := s.catalogKey(ctx, "search:"+strings.ToLower(query))
	var out []domain.Destination
	if s.cacheGet(ctx, key, &out) {
		return out, nil
	}

	live, err := s.repo.FindDestinationsByName(ctx, query, SearchLimit, domain.SortDesc)
	if err != nil {
		return nil, fmt.Errorf("search destinations: %w", err)
	}
	if len(live) == 0 {
		log.Debug().Str("query", query).Msg("destination search empty, serving seed list")
		return seedSearch(query), nil
	}
	s.cacheSet(ctx, key, live)
	return live, nil
}

// ListDestinations returns page (1-based) of PageSize destinations ordered by name.
// NextCursor is set only when the page came back full.
func (s *CatalogService) ListDestinations(ctx context.Context, page int) (domain.DestinationsPage, error) {
	if page < 1 {
		return domain.DestinationsPage{}, fmt.Errorf("%w: page must be positive", domain.ErrInvalidInput)
	}
	key := s.catalogKey(ctx, fmt.Sprintf("page:%d", page))
	var cached domain.DestinationsPage
	if s.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	offset := (page - 1) * PageSize
	items, err := s.repo.ListDestinationsPage(ctx, offset, PageSize)
	if err != nil {
		return domain.DestinationsPage{}, fmt.Errorf("list destinations: %w", err)
	}
	live := len(items) > 0
	if !live {
		items = seedPage(offset, PageSize)
	}

	out := domain.DestinationsPage{Items: items}
	if len(items) == PageSize {
		next := page + 1
		out.NextCursor = &next
	}
	if live {
		s.cacheSet(ctx, key, out)
	}
	return out, nil
}

// ListAttractions is not cached: review submissions change summaries and counters.
func (s *CatalogService) ListAttractions(ctx context.Context, destination string) ([]domain.Attraction, error) {
	live, err := s.repo.FindAttractionsByDestination(ctx, destination, AttractionLimit, domain.SortDesc)
	if err != nil {
		return nil, fmt.Errorf("list attractions: %w", err)
	}
	if len(live) == 0 {
		return seedAttractionsFor(destination), nil
	}
	return live, nil
}

func (s *CatalogService) ListActivities(ctx context.Context) ([]domain.Activity, error) {
	live, err := s.repo.ListActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	if len(live) == 0 {
		return SeedActivities(), nil
	}
	return live, nil
}

// catalogKey prefixes a destination cache key with the current catalog generation.
func (s *CatalogService) catalogKey(ctx context.Context, suffix string) string {
	return "destinations:" + catalogGeneration(ctx, s.cache) + ":" + suffix
}

func (s *CatalogService) cacheGet(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return false
	}
	return ok
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// Cached destination reads live under a generation that seeding replaces, so every
// search and page cached before a catalog write stops being served at once.
const catalogGenerationKey = "destinations:generation"

func catalogGeneration(ctx context.Context, cache domain.Cache) string {
	if cache == nil {
		return "0"
	}
	var gen string
	ok, err := cache.Get(ctx, catalogGenerationKey, &gen)
	if err != nil {
		log.Warn().Err(err).Str("key", catalogGenerationKey).Msg("cache get failed")
		return "0"
	}
	if !ok || gen == "" {
		return "0"
	}
	return gen
}

// bumpCatalogGeneration stores a fresh generation; it never expires.
func bumpCatalogGeneration(ctx context.Context, cache domain.Cache) error {
	return cache.Set(ctx, catalogGenerationKey, uuid.NewString(), 0)
}
