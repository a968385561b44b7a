package domain_test

import (
	"errors"
	"math"
	"testing"

	"travel_planner/internal/domain"
)

func TestClassification_ClassifiedRoundsToPercent(t *testing.T) {
	cases := []struct {
		score float64
		want  int
	}{
		{0, 0}, {0.5, 50}, {0.876, 88}, {0.004, 0}, {0.995, 100}, {1, 100},
	}
	for _, c := range cases {
		got := domain.Classification{Label: domain.SentimentPositive, Score: c.score}.Classified()
		if got.Score != c.want || got.Label != domain.SentimentPositive {
			t.Fatalf("score %v: got %+v, want %d", c.score, got, c.want)
		}
	}
}

func TestClassification_Validate(t *testing.T) {
	bad := []domain.Classification{
		{Label: "mixed", Score: 0.5},
		{Label: domain.SentimentNegative, Score: -0.1},
		{Label: domain.SentimentNegative, Score: 1.2},
		{Label: domain.SentimentNeutral, Score: math.NaN()},
	}
	for _, c := range bad {
		if err := c.Validate(); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", c, err)
		}
	}
	if err := domain.NeutralClassification.Validate(); err != nil {
		t.Fatalf("neutral fallback must be valid: %v", err)
	}
}

func TestNewReview_Validate(t *testing.T) {
	ok := domain.NewReview{AttractionID: 1, Content: "Lovely", Rating: 5}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	for _, n := range []domain.NewReview{
		{AttractionID: 0, Content: "x", Rating: 3},
		{AttractionID: 1, Content: "   ", Rating: 3},
		{AttractionID: 1, Content: "x", Rating: 0},
		{AttractionID: 1, Content: "x", Rating: 6},
	} {
		if err := n.Validate(); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%+v: expected ErrInvalidInput, got %v", n, err)
		}
	}
}

func TestSentimentColumns_RoundTrip(t *testing.T) {
	label, score := domain.SentimentColumns(domain.Classified{Label: domain.SentimentNegative, Score: 12})
	if label == nil || *label != "negative" || score == nil || *score != 12 {
		t.Fatalf("unexpected columns: %v %v", label, score)
	}
	back := domain.SentimentFromColumns(label, score)
	if back != (domain.Classified{Label: domain.SentimentNegative, Score: 12}) {
		t.Fatalf("unexpected sentiment: %#v", back)
	}

	l, s := domain.SentimentColumns(domain.Unclassified{})
	if l != nil || s != nil {
		t.Fatalf("unclassified must flatten to NULLs")
	}
	if _, ok := domain.SentimentFromColumns(l, nil).(domain.Unclassified); !ok {
		t.Fatalf("NULL columns must read back as Unclassified")
	}
}
