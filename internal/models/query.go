package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gzanee/skyscanner/internal/shared"
)

// SortKey selects the result ordering. The constants carry the wire values
// the API expects.
type SortKey string

const (
	SortPrice    SortKey = "prezzo"
	SortTime     SortKey = "orario"
	SortDuration SortKey = "durata"
)

// ParseSortKey normalizes a sort key from user input. It accepts the wire
// values and the English aliases price, time, and duration.
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "", "price", string(SortPrice):
		return SortPrice, nil
	case "time", "departure", string(SortTime):
		return SortTime, nil
	case "duration", string(SortDuration):
		return SortDuration, nil
	default:
		return "", fmt.Errorf("%w: unknown sort key %q (use price, time, or duration)", shared.ErrInvalidFlag, s)
	}
}

// Label returns the English display name of the sort key.
func (k SortKey) Label() string {
	switch k {
	case SortTime:
		return "departure time"
	case SortDuration:
		return "duration"
	default:
		return "price"
	}
}

// TripType distinguishes one-way from round-trip searches on the wire.
type TripType string

const (
	TripOneWay    TripType = "oneway"
	TripRoundTrip TripType = "roundtrip"
)

// SearchQuery is the request body of the search endpoints. Field names
// mirror the wire format; Validate fills defaults and normalizes the
// everywhere flag the way the server does.
type SearchQuery struct {
	Origins        []string `json:"origins"`
	Destinations   []string `json:"destinations"`
	Everywhere     bool     `json:"search_everywhere"`
	DepartDate     string   `json:"depart_date"`
	MaxPrice       float64  `json:"max_price"`
	MinHour        int      `json:"min_hour"`
	MaxHour        int      `json:"max_hour"`
	MinArrivalHour int      `json:"min_arrival_hour"`
	MaxArrivalHour int      `json:"max_arrival_hour"`
	DirectOnly     bool     `json:"direct_only"`
	SameDay        bool     `json:"same_day"`
	Sort           SortKey  `json:"sort"`
	TripType       TripType `json:"trip_type"`

	ReturnDate           string `json:"return_date,omitempty"`
	ReturnMinHour        int    `json:"return_min_hour,omitempty"`
	ReturnMaxHour        int    `json:"return_max_hour,omitempty"`
	ReturnMinArrivalHour int    `json:"return_min_arrival_hour,omitempty"`
	ReturnMaxArrivalHour int    `json:"return_max_arrival_hour,omitempty"`
}

// Validate checks the query and fills defaults. At least one origin is
// required; the travel dates must be DD/MM/YYYY; hour bounds must stay
// inside 0-24 and keep min below max. An empty destination list or a
// destination containing the everywhere code turns the search into an
// everywhere search.
func (q *SearchQuery) Validate() error {
	if len(q.Origins) == 0 {
		return fmt.Errorf("%w: select at least one origin airport", shared.ErrValidation)
	}

	if _, err := shared.ParseDate(q.DepartDate); err != nil {
		return fmt.Errorf("%w: depart date: %v", shared.ErrValidation, err)
	}

	if q.MaxPrice <= 0 {
		return fmt.Errorf("%w: max price must be positive", shared.ErrValidation)
	}

	if len(q.Destinations) == 0 || slices.Contains(q.Destinations, EverywhereCode) {
		q.Everywhere = true
	}
	if q.Everywhere {
		q.Destinations = nil
	}

	if q.MaxHour == 0 {
		q.MaxHour = 24
	}
	if q.MaxArrivalHour == 0 {
		q.MaxArrivalHour = 24
	}
	for _, b := range [][2]int{
		{q.MinHour, q.MaxHour},
		{q.MinArrivalHour, q.MaxArrivalHour},
	} {
		if b[0] < 0 || b[1] > 24 || b[0] >= b[1] {
			return fmt.Errorf("%w: hour bounds must satisfy 0 <= min < max <= 24", shared.ErrValidation)
		}
	}

	if q.Sort == "" {
		q.Sort = SortPrice
	} else if _, err := ParseSortKey(string(q.Sort)); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	switch q.TripType {
	case "":
		q.TripType = TripOneWay
	case TripOneWay:
	case TripRoundTrip:
		if _, err := shared.ParseDate(q.ReturnDate); err != nil {
			return fmt.Errorf("%w: return date: %v", shared.ErrValidation, err)
		}
		if q.ReturnMaxHour == 0 {
			q.ReturnMaxHour = 24
		}
		if q.ReturnMaxArrivalHour == 0 {
			q.ReturnMaxArrivalHour = 24
		}
	default:
		return fmt.Errorf("%w: unknown trip type %q", shared.ErrValidation, q.TripType)
	}

	return nil
}

// RouteSummary renders the query's route for history listings and logs,
// e.g. "MXP, VCE > LON" or "MXP > everywhere".
func (q SearchQuery) RouteSummary() string {
	origins := strings.Join(q.Origins, ", ")
	if origins == "" {
		origins = "?"
	}
	if q.Everywhere || len(q.Destinations) == 0 {
		return origins + " > everywhere"
	}
	return origins + " > " + strings.Join(q.Destinations, ", ")
}
