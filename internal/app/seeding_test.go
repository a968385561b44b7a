package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"travel_planner/internal/app"
	"travel_planner/internal/domain"
)

func seedByName(t *testing.T, name string) domain.Destination {
	t.Helper()
	for _, d := range app.SeedDestinations() {
		if d.Name == name {
			return d
		}
	}
	t.Fatalf("no seed destination %q", name)
	return domain.Destination{}
}

func TestSeedDestination_WritesAttractions(t *testing.T) {
	repo := &fakeCatalogRepo{}
	svc := app.NewSeedService(repo, &fakeCache{})

	if err := svc.SeedDestination(context.Background(), seedByName(t, "Paris")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(repo.upserted.destinations) != 1 || repo.upserted.destinations[0].Name != "Paris" {
		t.Fatalf("unexpected destinations: %+v", repo.upserted.destinations)
	}
	if len(repo.upserted.attractions) != 1 || repo.upserted.attractions[0].Name != "Eiffel Tower" {
		t.Fatalf("unexpected attractions: %+v", repo.upserted.attractions)
	}
}

// "ar" is a substring of Paris but not a prefix, and seeding must still retire it.
func TestSeedDestination_RetiresCachedSubstringSearch(t *testing.T) {
	ctx := context.Background()
	repo := &fakeCatalogRepo{destinations: []domain.Destination{seedByName(t, "Barcelona")}}
	cache := &fakeCache{}
	catalog := app.NewCatalogService(repo, cache, time.Hour)
	seed := app.NewSeedService(repo, cache)

	before, err := catalog.SearchDestinations(ctx, "ar")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(before) != 1 || before[0].Name != "Barcelona" {
		t.Fatalf("expected [Barcelona], got %+v", before)
	}

	if err := seed.SeedDestination(ctx, seedByName(t, "Paris")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	after, err := catalog.SearchDestinations(ctx, "ar")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(after) != 2 {
		t.Fatalf("expected Barcelona and Paris after seeding, got %+v", after)
	}
}

func TestInvalidateCatalog_RetiresCachedPages(t *testing.T) {
	ctx := context.Background()
	repo := &fakeCatalogRepo{destinations: destinations(30)}
	cache := &fakeCache{}
	catalog := app.NewCatalogService(repo, cache, time.Hour)
	seed := app.NewSeedService(repo, cache)

	for page := 1; page <= 3; page++ {
		if _, err := catalog.ListDestinations(ctx, page); err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
	}
	calls := repo.calls
	if _, err := catalog.ListDestinations(ctx, 3); err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if repo.calls != calls {
		t.Fatal("third page should be served from cache")
	}

	repo.destinations = append(repo.destinations, domain.Destination{ID: 31, Name: "City 31"})
	seed.InvalidateCatalog(ctx)
	p3, err := catalog.ListDestinations(ctx, 3)
	if err != nil {
		t.Fatalf("page 3: %v", err)
	}
	if len(p3.Items) != 7 {
		t.Fatalf("expected 7 items on page 3 after invalidation, got %d", len(p3.Items))
	}
}

func TestSeedActivities(t *testing.T) {
	repo := &fakeCatalogRepo{}
	svc := app.NewSeedService(repo, &fakeCache{})

	if err := svc.SeedActivities(context.Background()); err != nil {
		t.Fatalf("seed activities: %v", err)
	}
	if len(repo.upserted.activities) != len(app.SeedActivities()) {
		t.Fatalf("expected %d activities, got %d", len(app.SeedActivities()), len(repo.upserted.activities))
	}
}

func TestSeedDestination_StoreError(t *testing.T) {
	svc := app.NewSeedService(&fakeCatalogRepo{err: errBoom}, nil)
	if err := svc.SeedDestination(context.Background(), app.SeedDestinations()[1]); !errors.Is(err, errBoom) {
		t.Fatalf("expected store error, got %v", err)
	}
}
