package models

import (
	"fmt"

	"github.com/gzanee/skyscanner/internal/shared"
)

// EverywhereCode is the wire identifier of the synthetic "no destination
// filter" selection. It is produced client-side, never returned by lookup.
const EverywhereCode = "EVERYWHERE"

// Suggestion is an airport, city, or country returned by the lookup
// endpoint, or the everywhere sentinel. EntityType is one of AIRPORT,
// CITY, COUNTRY, EVERYWHERE, or empty when the server omits it.
type Suggestion struct {
	SkyID      string `json:"skyId"`
	Title      string `json:"title"`
	Subtitle   string `json:"subtitle,omitempty"`
	EntityType string `json:"entityType"`
}

// Everywhere returns the sentinel selection meaning "search everywhere".
func Everywhere() Suggestion {
	return Suggestion{
		SkyID:      EverywhereCode,
		Title:      "Everywhere",
		Subtitle:   "no destination filter",
		EntityType: "EVERYWHERE",
	}
}

// IsEverywhere reports whether the suggestion is the everywhere sentinel.
func (s Suggestion) IsEverywhere() bool {
	return s.SkyID == EverywhereCode
}

// Label renders the suggestion for tags and dropdown rows, e.g.
// "Venezia Marco Polo (VCE)".
func (s Suggestion) Label() string {
	if s.IsEverywhere() {
		return s.Title
	}
	if s.SkyID == "" {
		return s.Title
	}
	return fmt.Sprintf("%s (%s)", s.Title, s.SkyID)
}

// SelectionSet is an ordered set of selected locations, deduplicated by
// code. The everywhere sentinel is exclusive: adding it clears every other
// entry, and adding a concrete entry removes the sentinel first.
type SelectionSet struct {
	items []Suggestion
}

// Add inserts a suggestion, enforcing deduplication and sentinel
// exclusivity. It reports whether the set changed.
func (s *SelectionSet) Add(item Suggestion) bool {
	if s.Contains(item.SkyID) {
		return false
	}

	if item.IsEverywhere() {
		s.items = []Suggestion{item}
		return true
	}

	if s.HasEverywhere() {
		s.items = s.items[:0]
	}

	s.items = append(s.items, item)
	return true
}

// Remove deletes the entry with the given code, reporting whether it was present.
func (s *SelectionSet) Remove(code string) bool {
	for i, item := range s.items {
		if item.SkyID == code {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether an entry with the given code is selected.
func (s *SelectionSet) Contains(code string) bool {
	for _, item := range s.items {
		if item.SkyID == code {
			return true
		}
	}
	return false
}

// HasEverywhere reports whether the everywhere sentinel is selected.
func (s *SelectionSet) HasEverywhere() bool {
	return s.Contains(EverywhereCode)
}

// Codes returns the selected codes in insertion order.
func (s *SelectionSet) Codes() []string {
	codes := make([]string, len(s.items))
	for i, item := range s.items {
		codes[i] = item.SkyID
	}
	return codes
}

// Items returns a copy of the selected suggestions in insertion order.
func (s *SelectionSet) Items() []Suggestion {
	items := make([]Suggestion, len(s.items))
	copy(items, s.items)
	return items
}

// Len returns the number of selections.
func (s *SelectionSet) Len() int {
	return len(s.items)
}

// Clear removes every selection.
func (s *SelectionSet) Clear() {
	s.items = s.items[:0]
}

// SwapSelections exchanges the contents of the origin and destination sets.
// The swap is refused without mutation when the destination holds the
// everywhere sentinel, since origins cannot carry it.
func SwapSelections(origin, dest *SelectionSet) error {
	if dest.HasEverywhere() {
		return fmt.Errorf("%w: cannot swap while destination is set to Everywhere", shared.ErrInvalidInput)
	}
	origin.items, dest.items = dest.items, origin.items
	return nil
}
