package app

import (
	"time"

	"travel_planner/internal/domain"
)

// cachedReview is the JSON shape kept in the cache; domain.Review carries an interface field.
type cachedReview struct {
	ID             int64     `json:"id"`
	AttractionID   int64     `json:"attraction_id"`
	UserID         *int64    `json:"user_id,omitempty"`
	Content        string    `json:"content"`
	Rating         int       `json:"rating"`
	Sentiment      *string   `json:"sentiment,omitempty"`
	SentimentScore *int      `json:"sentiment_score,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

func toCachedReviews(in []domain.Review) []cachedReview {
	out := make([]cachedReview, 0, len(in))
	for _, r := range in {
		label, score := domain.SentimentColumns(r.Sentiment)
		out = append(out, cachedReview{
			ID:             r.ID,
			AttractionID:   r.AttractionID,
			UserID:         r.UserID,
			Content:        r.Content,
			Rating:         r.Rating,
			Sentiment:      label,
			SentimentScore: score,
			CreatedAt:      r.CreatedAt,
		})
	}
	return out
}

func fromCachedReviews(in []cachedReview) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, c := range in {
		out = append(out, domain.Review{
			ID:           c.ID,
			AttractionID: c.AttractionID,
			UserID:       c.UserID,
			Content:      c.Content,
			Rating:       c.Rating,
			Sentiment:    domain.SentimentFromColumns(c.Sentiment, c.SentimentScore),
			CreatedAt:    c.CreatedAt,
		})
	}
	return out
}
