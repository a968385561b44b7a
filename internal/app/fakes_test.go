package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"travel_planner/internal/domain"
)

// ---- review store ----

type fakeReviewRepo struct {
	mu          sync.Mutex
	attractions map[int64]*domain.Attraction
	reviews     []domain.Review
	nextID      int64
	clock       time.Time
	listErr     error
	// beforeList runs at the start of every ListReviews call, outside the fake's own lock.
	beforeList func()
}

func newFakeReviewRepo(ids ...int64) *fakeReviewRepo {
	r := &fakeReviewRepo{
		attractions: map[int64]*domain.Attraction{},
		clock:       time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	for _, id := range ids {
		r.attractions[id] = &domain.Attraction{ID: id, Name: fmt.Sprintf("attraction-%d", id), Rating: 4.5}
	}
	return r
}

func (f *fakeReviewRepo) InsertReview(ctx context.Context, rv domain.Review) (domain.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attractions[rv.AttractionID]
	if !ok {
		return domain.Review{}, domain.ErrNotFound
	}
	f.nextID++
	f.clock = f.clock.Add(time.Second)
	rv.ID = f.nextID
	rv.CreatedAt = f.clock
	f.reviews = append(f.reviews, rv)
	a.TotalReviews++
	return rv, nil
}

func (f *fakeReviewRepo) ListReviews(ctx context.Context, attractionID int64) ([]domain.Review, error) {
	if f.beforeList != nil {
		f.beforeList()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Review
	for _, r := range f.reviews {
		if r.AttractionID == attractionID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeReviewRepo) UpdateSummary(ctx context.Context, attractionID int64, summary string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attractions[attractionID]
	if !ok {
		return domain.ErrNotFound
	}
	a.ReviewSummary = &summary
	return nil
}

func (f *fakeReviewRepo) GetAttraction(ctx context.Context, id int64) (domain.Attraction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.attractions[id]
	if !ok {
		return domain.Attraction{}, domain.ErrNotFound
	}
	return *a, nil
}

func (f *fakeReviewRepo) attraction(id int64) domain.Attraction {
	a, _ := f.GetAttraction(context.Background(), id)
	return a
}

// ---- language model ----

type fakeClassifier struct {
	mu    sync.Mutex
	out   domain.Classification
	err   error
	calls int
}

func (c *fakeClassifier) Classify(ctx context.Context, text string) (domain.Classification, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.out, c.err
}

type fakeSummarizer struct {
	mu    sync.Mutex
	err   error
	delay func(n int) time.Duration
	seen  [][]string
}

func (s *fakeSummarizer) Summarize(ctx context.Context, reviews []string) (string, error) {
	s.mu.Lock()
	s.seen = append(s.seen, append([]string(nil), reviews...))
	n := len(s.seen)
	s.mu.Unlock()
	if s.delay != nil {
		time.Sleep(s.delay(n))
	}
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("summary of %d: %s", len(reviews), strings.Join(reviews, " | ")), nil
}

// ---- cache ----

// fakeCache round-trips through JSON like the redis adapter does.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
	err   error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.store[key]
	return ok
}

// hasSuffix reports whether any stored key ends with suffix, whatever namespace precedes it.
func (c *fakeCache) hasSuffix(suffix string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.store {
		if strings.HasSuffix(k, suffix) {
			return true
		}
	}
	return false
}

// ---- catalog store ----

type fakeCatalogRepo struct {
	destinations []domain.Destination
	attractions  []domain.Attraction
	activities   []domain.Activity
	err          error
	calls        int

	upserted struct {
		destinations []domain.Destination
		attractions  []domain.Attraction
		activities   []domain.Activity
	}
	mu sync.Mutex
}

func (f *fakeCatalogRepo) FindDestinationsByName(ctx context.Context, q string, limit int, order domain.SortOrder) ([]domain.Destination, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Destination
	for _, d := range f.destinations {
		if strings.Contains(strings.ToLower(d.Name), strings.ToLower(q)) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order == domain.SortDesc {
			return out[i].Name > out[j].Name
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCatalogRepo) ListDestinationsPage(ctx context.Context, offset, limit int) ([]domain.Destination, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	all := append([]domain.Destination(nil), f.destinations...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeCatalogRepo) FindAttractionsByDestination(ctx context.Context, name string, limit int, order domain.SortOrder) ([]domain.Attraction, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.Attraction
	for _, a := range f.attractions {
		if strings.EqualFold(a.DestinationName, name) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCatalogRepo) ListActivities(ctx context.Context) ([]domain.Activity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.activities, nil
}

func (f *fakeCatalogRepo) UpsertDestination(ctx context.Context, d domain.Destination) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.upserted.destinations = append(f.upserted.destinations, d)
	for i := range f.destinations {
		if f.destinations[i].ID == d.ID {
			f.destinations[i] = d
			return nil
		}
	}
	f.destinations = append(f.destinations, d)
	return nil
}

func (f *fakeCatalogRepo) UpsertAttraction(ctx context.Context, a domain.Attraction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted.attractions = append(f.upserted.attractions, a)
	return nil
}

func (f *fakeCatalogRepo) UpsertActivity(ctx context.Context, a domain.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserted.activities = append(f.upserted.activities, a)
	return nil
}

// ---- users & sessions ----

type fakeUsers struct {
	byID   map[int64]domain.User
	nextID int64
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[int64]domain.User{}} }

func (f *fakeUsers) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	for _, x := range f.byID {
		if x.Username == u.Username {
			return domain.User{}, domain.ErrConflict
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	for _, x := range f.byID {
		if x.Username == username {
			return x, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUsers) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

type fakeSessions struct {
	m   map[string]int64
	n   int
	err error
}

func newFakeSessions() *fakeSessions { return &fakeSessions{m: map[string]int64{}} }

func (s *fakeSessions) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.n++
	tok := fmt.Sprintf("tok-%d", s.n)
	s.m[tok] = userID
	return tok, nil
}

func (s *fakeSessions) Lookup(ctx context.Context, token string) (int64, bool, error) {
	if s.err != nil {
		return 0, false, s.err
	}
	id, ok := s.m[token]
	return id, ok, nil
}

func (s *fakeSessions) Delete(ctx context.Context, token string) error {
	delete(s.m, token)
	return nil
}

// ---- itineraries ----

type fakeItineraries struct {
	items  map[int64]domain.Itinerary
	nextID int64
}

func newFakeItineraries() *fakeItineraries { return &fakeItineraries{items: map[int64]domain.Itinerary{}} }

func (f *fakeItineraries) CreateItinerary(ctx context.Context, it domain.Itinerary) (domain.Itinerary, error) {
	f.nextID++
	it.ID = f.nextID
	it.CreatedAt = time.Now()
	f.items[it.ID] = it
	return it, nil
}

func (f *fakeItineraries) GetItinerary(ctx context.Context, id int64) (domain.Itinerary, error) {
	it, ok := f.items[id]
	if !ok {
		return domain.Itinerary{}, domain.ErrNotFound
	}
	return it, nil
}

func (f *fakeItineraries) ListItinerariesByUser(ctx context.Context, userID int64) ([]domain.Itinerary, error) {
	var out []domain.Itinerary
	for id := int64(1); id <= f.nextID; id++ {
		if it, ok := f.items[id]; ok && it.UserID != nil && *it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }
