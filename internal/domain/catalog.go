package domain

type Destination struct {
	ID          int64
	Name        string
	ImageURL    string
	Description string
}

type Activity struct {
	ID          string // slug, e.g. "sightseeing"
	Name        string
	ImageURL    string
	Description string
}

type Attraction struct {
	ID              int64
	DestinationID   int64
	DestinationName string
	Name            string
	Description     string
	Rating          float64 // 1..5, one decimal
	VisitDuration   string
	BestTimeToVisit string
	ImageURL        string
	ReviewSummary   *string // nil until the first summary is written
	TotalReviews    int
}

// SortOrder is the direction a catalog read is ordered by.
type SortOrder int

const (
	SortAsc SortOrder = iota
	SortDesc
)

type DestinationsPage struct {
	Items      []Destination
	NextCursor *int
}
