package search

import (
	"sort"

	"github.com/gzanee/skyscanner/internal/models"
)

// SortFlights orders flights in place by the given key. The sort is stable
// so equal keys keep arrival order. Price compares the effective price
// (round-trip total when present); time compares the zero-padded HH:MM
// departure string lexically; duration compares the precomputed minutes,
// with missing values sorting as zero.
func SortFlights(flights []models.Flight, key models.SortKey) {
	switch key {
	case models.SortTime:
		sort.SliceStable(flights, func(i, j int) bool {
			return flights[i].Departure < flights[j].Departure
		})
	case models.SortDuration:
		sort.SliceStable(flights, func(i, j int) bool {
			return flights[i].DurationMin < flights[j].DurationMin
		})
	default:
		sort.SliceStable(flights, func(i, j int) bool {
			return flights[i].EffectivePrice() < flights[j].EffectivePrice()
		})
	}
}

// Group is the per-city section of a result listing.
type Group struct {
	City     string
	Flights  []models.Flight
	MinPrice float64
}

// GroupByCity splits flights into per-destination-city groups, ordered by
// each city's minimum effective price. Within a group, flights keep the
// order they were given in, so callers sort first.
func GroupByCity(flights []models.Flight) []Group {
	byCity := make(map[string]int)
	var groups []Group

	for _, f := range flights {
		idx, ok := byCity[f.City]
		if !ok {
			idx = len(groups)
			byCity[f.City] = idx
			groups = append(groups, Group{City: f.City, MinPrice: f.EffectivePrice()})
		}

		g := &groups[idx]
		g.Flights = append(g.Flights, f)
		if p := f.EffectivePrice(); p < g.MinPrice {
			g.MinPrice = p
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].MinPrice < groups[j].MinPrice
	})

	return groups
}
