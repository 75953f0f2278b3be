package models

import (
	"fmt"
	"strings"
)

// Stopover is an intermediate stop within a leg. Times are zero-padded 24h
// HH:MM strings; Wait is the layover in the API's duration notation, empty
// when unknown.
type Stopover struct {
	City      string `json:"città"`
	Code      string `json:"codice"`
	Arrival   string `json:"arrivo"`
	Departure string `json:"partenza"`
	Wait      string `json:"attesa"`
}

// Flight is one priced itinerary returned by the search API. Field names
// mirror the wire format. The return-leg mirrors are populated only for
// round-trip searches; when ReturnPrice is present, TotalPrice is present
// as well and the itinerary renders as two legs.
type Flight struct {
	City        string     `json:"città"`
	Country     string     `json:"paese"`
	DestCode    string     `json:"codice_dest"`
	OriginCode  string     `json:"codice_origine"`
	Price       float64    `json:"prezzo"`
	Departure   string     `json:"partenza"`
	Arrival     string     `json:"arrivo"`
	Duration    string     `json:"durata"`
	DurationMin int        `json:"durata_min"`
	Stops       int        `json:"scali"`
	Stopovers   []Stopover `json:"stopovers,omitempty"`
	Airline     string     `json:"compagnia"`

	ReturnDeparture   string     `json:"partenza_ritorno,omitempty"`
	ReturnArrival     string     `json:"arrivo_ritorno,omitempty"`
	ReturnDuration    string     `json:"durata_ritorno,omitempty"`
	ReturnDurationMin int        `json:"durata_min_ritorno,omitempty"`
	ReturnStops       int        `json:"scali_ritorno,omitempty"`
	ReturnStopovers   []Stopover `json:"stopovers_ritorno,omitempty"`
	ReturnAirline     string     `json:"compagnia_ritorno,omitempty"`
	ReturnPrice       *float64   `json:"prezzo_ritorno,omitempty"`
	TotalPrice        *float64   `json:"prezzo_totale,omitempty"`
}

// EffectivePrice returns the price used for sorting and comparison: the
// combined round-trip total when present, the single-leg price otherwise.
func (f Flight) EffectivePrice() float64 {
	if f.TotalPrice != nil {
		return *f.TotalPrice
	}
	return f.Price
}

// IsRoundTrip reports whether the itinerary carries a return leg.
func (f Flight) IsRoundTrip() bool {
	return f.ReturnPrice != nil
}

// Route returns the "VCE > LON" style route label for display.
func (f Flight) Route() string {
	return fmt.Sprintf("%s > %s", f.OriginCode, f.DestCode)
}

// Stats aggregates what a completed search covered. Everywhere searches
// report country and city counts; fixed-destination searches report the
// destination codes instead. Origins and Destinations are comma-joined
// code lists as sent by the server.
type Stats struct {
	Countries    int    `json:"paesi,omitempty"`
	Cities       int    `json:"città,omitempty"`
	Origins      string `json:"partenze,omitempty"`
	Destinations string `json:"destinazioni,omitempty"`
}

// IsZero reports whether no statistics were provided.
func (s Stats) IsZero() bool {
	return s == Stats{}
}

// Summary renders the stats as a single display line.
func (s Stats) Summary() string {
	var parts []string
	if s.Countries > 0 {
		parts = append(parts, fmt.Sprintf("%d countries", s.Countries))
	}
	if s.Cities > 0 {
		parts = append(parts, fmt.Sprintf("%d cities", s.Cities))
	}
	if s.Origins != "" {
		parts = append(parts, "from "+s.Origins)
	}
	if s.Destinations != "" {
		parts = append(parts, "to "+s.Destinations)
	}
	return strings.Join(parts, ", ")
}
