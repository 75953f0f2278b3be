package models

import (
	"fmt"
	"time"

	"github.com/gzanee/skyscanner/internal/shared"
)

// SavedSearch is a persisted snapshot of a completed search: the query
// that produced it, the final flight list, and the aggregate stats.
type SavedSearch struct {
	id        string
	createdAt time.Time
	updatedAt time.Time
	query     SearchQuery
	flights   []Flight
	stats     Stats
	count     int
}

// NewSavedSearch builds a SavedSearch snapshot from a completed search.
func NewSavedSearch(query SearchQuery, flights []Flight, stats Stats, count int) *SavedSearch {
	now := time.Now()
	return &SavedSearch{
		createdAt: now,
		updatedAt: now,
		query:     query,
		flights:   flights,
		stats:     stats,
		count:     count,
	}
}

func (s *SavedSearch) ID() string           { return s.id }
func (s *SavedSearch) CreatedAt() time.Time { return s.createdAt }
func (s *SavedSearch) UpdatedAt() time.Time { return s.updatedAt }

func (s *SavedSearch) Query() SearchQuery { return s.query }
func (s *SavedSearch) Flights() []Flight  { return s.flights }
func (s *SavedSearch) Stats() Stats       { return s.stats }
func (s *SavedSearch) Count() int         { return s.count }

func (s *SavedSearch) SetID(id string)          { s.id = id }
func (s *SavedSearch) SetCreatedAt(t time.Time) { s.createdAt = t }
func (s *SavedSearch) SetUpdatedAt(t time.Time) { s.updatedAt = t }

func (s *SavedSearch) SetResults(f []Flight, count int, stats Stats) {
	s.flights = f
	s.count = count
	s.stats = stats
}

// Cheapest returns the lowest effective price across the saved flights.
// The second return is false when no flights were saved.
func (s *SavedSearch) Cheapest() (float64, bool) {
	if len(s.flights) == 0 {
		return 0, false
	}
	min := s.flights[0].EffectivePrice()
	for _, f := range s.flights[1:] {
		if p := f.EffectivePrice(); p < min {
			min = p
		}
	}
	return min, true
}

// Validate checks that the snapshot can be persisted.
func (s *SavedSearch) Validate() error {
	if len(s.query.Origins) == 0 {
		return fmt.Errorf("%w: saved search has no origins", shared.ErrValidation)
	}
	if s.query.DepartDate == "" {
		return fmt.Errorf("%w: saved search has no depart date", shared.ErrValidation)
	}
	if s.count != len(s.flights) {
		return fmt.Errorf("%w: count %d does not match %d flights", shared.ErrValidation, s.count, len(s.flights))
	}
	return nil
}
