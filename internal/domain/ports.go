package domain

import (
	"context"
	"time"
)

type ReviewRepository interface {
	// InsertReview stores the review and bumps the attraction's total_reviews in one transaction.
	InsertReview(ctx context.Context, r Review) (Review, error)
	ListReviews(ctx context.Context, attractionID int64) ([]Review, error)
	UpdateSummary(ctx context.Context, attractionID int64, summary string) error
	GetAttraction(ctx context.Context, id int64) (Attraction, error)
}

type CatalogRepository interface {
	FindDestinationsByName(ctx context.Context, query string, limit int, order SortOrder) ([]Destination, error)
	ListDestinationsPage(ctx context.Context, offset, limit int) ([]Destination, error)
	FindAttractionsByDestination(ctx context.Context, name string, limit int, order SortOrder) ([]Attraction, error)
	ListActivities(ctx context.Context) ([]Activity, error)
}

// CatalogWriter is used by the seeder only.
type CatalogWriter interface {
	UpsertDestination(ctx context.Context, d Destination) error
	UpsertAttraction(ctx context.Context, a Attraction) error
	UpsertActivity(ctx context.Context, a Activity) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
}

type ItineraryRepository interface {
	CreateItinerary(ctx context.Context, it Itinerary) (Itinerary, error)
	GetItinerary(ctx context.Context, id int64) (Itinerary, error)
	ListItinerariesByUser(ctx context.Context, userID int64) ([]Itinerary, error)
}

type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, reviews []string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type SessionStore interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	// Lookup reports ok=false for unknown or expired tokens.
	Lookup(ctx context.Context, token string) (userID int64, ok bool, err error)
	Delete(ctx context.Context, token string) error
}
