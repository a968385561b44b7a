package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"travel_planner/internal/adapters/observability"
	"travel_planner/internal/domain"
)

type ReviewService struct {
	repo       domain.ReviewRepository
	classifier domain.Classifier
	summarizer domain.Summarizer
	cache      domain.Cache
	cacheTTL   time.Duration
	locks      *keyedMutex
}

func NewReviewService(r domain.ReviewRepository, c domain.Classifier, s domain.Summarizer, cache domain.Cache, ttl time.Duration) *ReviewService {
	return &ReviewService{
		repo:       r,
		classifier: c,
		summarizer: s,
		cache:      cache,
		cacheTTL:   ttl,
		locks:      newKeyedMutex(),
	}
}

// SubmitReview classifies, stores and counts the review, then rebuilds the attraction summary from
// every stored review. A summary failure is reported as ErrSummaryUnavailable; the review stays stored.
func (s *ReviewService) SubmitReview(ctx context.Context, in domain.NewReview) (domain.Review, error) {
	if err := in.Validate(); err != nil {
		return domain.Review{}, err
	}

	// 1) Sentiment is best-effort.
	sentiment := s.classify(ctx, in)

	// Steps 2-4 are serialized per attraction so the final summary always covers every stored review.
	unlock, err := s.locks.Lock(ctx, in.AttractionID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("wait for attraction %d: %w", in.AttractionID, err)
	}
	defer unlock()

	// 2) Persist review + counter (one transaction in the store).
	created, err := s.repo.InsertReview(ctx, domain.Review{
		AttractionID: in.AttractionID,
		UserID:       in.UserID,
		Content:      in.Content,
		Rating:       in.Rating,
		Sentiment:    sentiment,
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("insert review for attraction %d: %w", in.AttractionID, err)
	}
	observability.ObserveReview(string(sentiment.Label))
	s.invalidateReviews(ctx, in.AttractionID)

	// 3) Re-aggregate over the full post-insert set.
	all, err := s.repo.ListReviews(ctx, in.AttractionID)
	if err != nil {
		return created, fmt.Errorf("reload reviews for attraction %d: %w", in.AttractionID, err)
	}
	s.cacheReviews(ctx, in.AttractionID, all)
	texts := make([]string, 0, len(all))
	for _, r := range all {
		texts = append(texts, r.Content)
	}
	summary, err := s.summarizer.Summarize(ctx, texts)
	if err != nil {
		log.Error().Err(err).
			Int64("attraction_id", in.AttractionID).
			Int64("review_id", created.ID).
			Msg("summary generation failed; review kept with stale summary")
		return created, fmt.Errorf("%w: %v", domain.ErrSummaryUnavailable, err)
	}

	// 4) Overwrite, never append.
	if err := s.repo.UpdateSummary(ctx, in.AttractionID, summary); err != nil {
		return created, fmt.Errorf("update summary for attraction %d: %w", in.AttractionID, err)
	}

	log.Info().
		Int64("attraction_id", in.AttractionID).
		Int64("review_id", created.ID).
		Str("sentiment", string(sentiment.Label)).
		Int("reviews", len(all)).
		Msg("review submitted")
	return created, nil
}

func (s *ReviewService) classify(ctx context.Context, in domain.NewReview) domain.Classified {
	c, err := s.classifier.Classify(ctx, in.Content)
	if err == nil {
		err = c.Validate()
	}
	if err != nil {
		observability.ObserveLLMFallback("classify")
		log.Warn().Err(err).Int64("attraction_id", in.AttractionID).Msg("sentiment classification failed, using neutral")
		c = domain.NeutralClassification
	}
	return c.Classified()
}

// ListReviews returns newest first; an attraction without reviews yields an empty slice.
// A cache miss reloads under the attraction lock so it cannot overwrite a newer list written by SubmitReview.
func (s *ReviewService) ListReviews(ctx context.Context, attractionID int64) ([]domain.Review, error) {
	if rs, ok := s.cachedReviews(ctx, attractionID); ok {
		return rs, nil
	}

	unlock, err := s.locks.Lock(ctx, attractionID)
	if err != nil {
		return nil, fmt.Errorf("wait for attraction %d: %w", attractionID, err)
	}
	defer unlock()

	// A submission may have refreshed the cache while we waited.
	if rs, ok := s.cachedReviews(ctx, attractionID); ok {
		return rs, nil
	}
	rs, err := s.repo.ListReviews(ctx, attractionID)
	if err != nil {
		return nil, fmt.Errorf("list reviews for attraction %d: %w", attractionID, err)
	}
	if rs == nil {
		rs = []domain.Review{}
	}
	s.cacheReviews(ctx, attractionID, rs)
	return rs, nil
}

func (s *ReviewService) cachedReviews(ctx context.Context, attractionID int64) ([]domain.Review, bool) {
	if s.cache == nil {
		return nil, false
	}
	key := reviewsKey(attractionID)
	var cached []cachedReview
	ok, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return fromCachedReviews(cached), true
}

// cacheReviews must run while the attraction lock is held.
func (s *ReviewService) cacheReviews(ctx context.Context, attractionID int64, rs []domain.Review) {
	if s.cache == nil {
		return
	}
	key := reviewsKey(attractionID)
	if err := s.cache.Set(ctx, key, toCachedReviews(rs), int(s.cacheTTL.Seconds())); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (s *ReviewService) invalidateReviews(ctx context.Context, attractionID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, reviewsKey(attractionID)); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn().Err(err).Int64("attraction_id", attractionID).Msg("review cache invalidation failed")
	}
}

func reviewsKey(attractionID int64) string { return fmt.Sprintf("reviews:%d", attractionID) }
