package domain

import "time"

type Itinerary struct {
	ID            int64
	UserID        *int64
	Destination   string
	StartDate     time.Time
	EndDate       time.Time
	Activities    []string
	AttractionIDs []int64 // visiting order
	CreatedAt     time.Time
}

type NewItinerary struct {
	UserID        *int64
	Destination   string
	StartDate     time.Time
	EndDate       time.Time
	Activities    []string
	AttractionIDs []int64
}
