package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

func (l SentimentLabel) Valid() bool {
	switch l {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Sentiment is either Unclassified or Classified.
type Sentiment interface{ isSentiment() }

type Unclassified struct{}

type Classified struct {
	Label SentimentLabel
	Score int // 0..100
}

func (Unclassified) isSentiment() {}
func (Classified) isSentiment()   {}

// Classification is the raw collaborator answer; Score is in [0,1].
type Classification struct {
	Label SentimentLabel
	Score float64
}

// NeutralClassification is used whenever the classifier cannot be trusted.
var NeutralClassification = Classification{Label: SentimentNeutral, Score: 0.5}

func (c Classification) Validate() error {
	if !c.Label.Valid() {
		return fmt.Errorf("%w: sentiment label %q", ErrInvalidInput, c.Label)
	}
	if math.IsNaN(c.Score) || c.Score < 0 || c.Score > 1 {
		return fmt.Errorf("%w: sentiment score %v", ErrInvalidInput, c.Score)
	}
	return nil
}

// Classified converts the [0,1] score into the stored integer percentage.
func (c Classification) Classified() Classified {
	return Classified{Label: c.Label, Score: int(math.Round(c.Score * 100))}
}

type Review struct {
	ID           int64
	AttractionID int64
	UserID       *int64
	Content      string
	Rating       int
	Sentiment    Sentiment
	CreatedAt    time.Time
}

type NewReview struct {
	AttractionID int64
	UserID       *int64
	Content      string
	Rating       int
}

func (n NewReview) Validate() error {
	if n.AttractionID <= 0 {
		return fmt.Errorf("%w: attraction id must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(n.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if n.Rating < 1 || n.Rating > 5 {
		return fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	return nil
}

// SentimentColumns flattens s into the nullable (label, score) pair used by storage and the API.
func SentimentColumns(s Sentiment) (*string, *int) {
	c, ok := s.(Classified)
	if !ok {
		return nil, nil
	}
	label, score := string(c.Label), c.Score
	return &label, &score
}

// SentimentFromColumns is the inverse of SentimentColumns. Both columns must be set to count as Classified.
func SentimentFromColumns(label *string, score *int) Sentiment {
	if label == nil || score == nil {
		return Unclassified{}
	}
	return Classified{Label: SentimentLabel(*label), Score: *score}
}
