package app

import (
	"context"
	"fmt"
	"strings"

	"travel_planner/internal/domain"
)

type activityLister interface {
	ListActivities(ctx context.Context) ([]domain.Activity, error)
}

type ItineraryService struct {
	repo       domain.ItineraryRepository
	activities activityLister
}

func NewItineraryService(r domain.ItineraryRepository, a activityLister) *ItineraryService {
	return &ItineraryService{repo: r, activities: a}
}

func (s *ItineraryService) Create(ctx context.Context, in domain.NewItinerary) (domain.Itinerary, error) {
	dest := strings.TrimSpace(in.Destination)
	if dest == "" {
		return domain.Itinerary{}, fmt.Errorf("%w: destination is required", domain.ErrInvalidInput)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return domain.Itinerary{}, fmt.Errorf("%w: start and end dates are required", domain.ErrInvalidInput)
	}
	if in.EndDate.Before(in.StartDate) {
		return domain.Itinerary{}, fmt.Errorf("%w: end date before start date", domain.ErrInvalidInput)
	}
	for _, id := range in.AttractionIDs {
		if id <= 0 {
			return domain.Itinerary{}, fmt.Errorf("%w: attraction id %d", domain.ErrInvalidInput, id)
		}
	}

	known, err := s.activities.ListActivities(ctx)
	if err != nil {
		return domain.Itinerary{}, err
	}
	valid := make(map[string]struct{}, len(known))
	for _, a := range known {
		valid[a.ID] = struct{}{}
	}
	for _, a := range in.Activities {
		if _, ok := valid[a]; !ok {
			return domain.Itinerary{}, fmt.Errorf("%w: unknown activity %q", domain.ErrInvalidInput, a)
		}
	}

	activities := append([]string{}, in.Activities...)
	attractions := append([]int64{}, in.AttractionIDs...)
	return s.repo.CreateItinerary(ctx, domain.Itinerary{
		UserID:        in.UserID,
		Destination:   dest,
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		Activities:    activities,
		AttractionIDs: attractions,
	})
}

func (s *ItineraryService) Get(ctx context.Context, id int64) (domain.Itinerary, error) {
	return s.repo.GetItinerary(ctx, id)
}

func (s *ItineraryService) ListForUser(ctx context.Context, userID int64) ([]domain.Itinerary, error) {
	its, err := s.repo.ListItinerariesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if its == nil {
		its = []domain.Itinerary{}
	}
	return its, nil
}
