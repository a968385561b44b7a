package app

import (
	"sort"
	"strings"

	"travel_planner/internal/domain"
)

// Static catalog served when the store has nothing to offer. Never mutated; accessors hand out copies.
var seedDestinations = [...]domain.Destination{
	{ID: 1, Name: "Paris", ImageURL: "https://images.unsplash.com/photo-1502602898657-3e91760cbb34", Description: "The City of Light"},
	{ID: 2, Name: "New York", ImageURL: "https://images.unsplash.com/photo-1496442226666-8d4d0e62e6e9", Description: "The Big Apple"},
	{ID: 3, Name: "London", ImageURL: "https://images.unsplash.com/photo-1513635269975-59663e0ac1ad", Description: "The Royal City"},
	{ID: 4, Name: "Tokyo", ImageURL: "https://images.unsplash.com/photo-1540959733332-eab4deabeeaf", Description: "The Neon City"},
	{ID: 5, Name: "Rome", ImageURL: "https://images.unsplash.com/photo-1515542622106-78bda8ba0e5b", Description: "The Eternal City"},
	{ID: 6, Name: "Barcelona", ImageURL: "https://images.unsplash.com/photo-1539037116277-4db20889f2d4", Description: "City of Gaudi"},
	{ID: 7, Name: "Dubai", ImageURL: "https://images.unsplash.com/photo-1512453979798-5ea266f8880c", Description: "City of Gold"},
	{ID: 8, Name: "Singapore", ImageURL: "https://images.unsplash.com/photo-1525625293386-3f8f99389edd", Description: "The Lion City"},
	{ID: 9, Name: "Hong Kong", ImageURL: "https://images.unsplash.com/photo-1506970845726-cd83dd9f9d86", Description: "Asia's World City"},
	{ID: 10, Name: "Sydney", ImageURL: "https://images.unsplash.com/photo-1506973035872-a4ec16b8e8d9", Description: "The Harbour City"},
	{ID: 11, Name: "Amsterdam", ImageURL: "https://images.unsplash.com/photo-1534351590666-13e3e96b5017", Description: "Venice of the North"},
	{ID: 12, Name: "Venice", ImageURL: "https://images.unsplash.com/photo-1514890547357-a9ee288728e0", Description: "The Floating City"},
	{ID: 13, Name: "Istanbul", ImageURL: "https://images.unsplash.com/photo-1524231757912-21f4fe3a7200", Description: "Where East Meets West"},
	{ID: 14, Name: "Bangkok", ImageURL: "https://images.unsplash.com/photo-1508009603885-50cf7c579365", Description: "City of Angels"},
	{ID: 15, Name: "San Francisco", ImageURL: "https://images.unsplash.com/photo-1501594907352-04cda38ebc29", Description: "The Golden City"},
	{ID: 16, Name: "Rio de Janeiro", ImageURL: "https://images.unsplash.com/photo-1483729558449-99ef09a8c325", Description: "Marvelous City"},
}

var seedActivities = [...]domain.Activity{
	{ID: "sightseeing", Name: "City Sightseeing", ImageURL: "https://images.unsplash.com/photo-1517760444937-f6397edcbbcd", Description: "Explore landmarks and architecture"},
	{ID: "museums", Name: "Museums & Culture", ImageURL: "https://images.unsplash.com/photo-1544967082-d9d25d867d66", Description: "Art and history exploration"},
	{ID: "nature", Name: "Nature & Parks", ImageURL: "https://images.unsplash.com/photo-1501854140801-50d01698950b", Description: "Outdoor activities and scenery"},
	{ID: "food", Name: "Food & Dining", ImageURL: "https://images.unsplash.com/photo-1466978913421-dad2ebd01d17", Description: "Local cuisine and restaurants"},
}

var seedAttractions = [...]domain.Attraction{
	{
		ID:              1,
		DestinationID:   1,
		DestinationName: "Paris",
		Name:            "Eiffel Tower",
		Description:     "Iconic iron lattice tower on the Champ de Mars",
		Rating:          4.7,
		VisitDuration:   "2-3 hours",
		BestTimeToVisit: "Sunset",
		ImageURL:        "https://images.unsplash.com/photo-1543349689-9a4d426bee8e",
	},
}

func SeedDestinations() []domain.Destination { return append([]domain.Destination(nil), seedDestinations[:]...) }
func SeedActivities() []domain.Activity       { return append([]domain.Activity(nil), seedActivities[:]...) }
func SeedAttractions() []domain.Attraction    { return append([]domain.Attraction(nil), seedAttractions[:]...) }

// seedSearch keeps seed order; the result depends on q alone.
func seedSearch(q string) []domain.Destination {
	needle := strings.ToLower(q)
	out := []domain.Destination{}
	for _, d := range seedDestinations {
		if strings.Contains(strings.ToLower(d.Name), needle) {
			out = append(out, d)
		}
	}
	return out
}

func seedPage(offset, limit int) []domain.Destination {
	all := SeedDestinations()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return []domain.Destination{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func seedAttractionsFor(destination string) []domain.Attraction {
	out := []domain.Attraction{}
	for _, a := range seedAttractions {
		if strings.EqualFold(a.DestinationName, destination) {
			out = append(out, a)
		}
	}
	return out
}
