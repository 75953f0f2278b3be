package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/search"
)

// accordion renders the accumulated flights grouped by destination city.
// A single-city result set renders as a flat list without section
// chrome; multi-city renders one collapsible section per city, ordered
// by the city's cheapest flight, the first expanded by default. Toggles
// survive re-renders as new batches arrive.
type accordion struct {
	groups   []search.Group
	expanded map[string]bool
	cursor   int
	seeded   bool
}

func newAccordion() *accordion {
	return &accordion{expanded: make(map[string]bool)}
}

// SetGroups replaces the grouped data, preserving the user's toggles for
// cities already on screen. The first section ever shown starts
// expanded; cities appearing later start collapsed.
func (a *accordion) SetGroups(groups []search.Group) {
	a.groups = groups

	for i, group := range groups {
		if _, ok := a.expanded[group.City]; !ok {
			a.expanded[group.City] = !a.seeded && i == 0
		}
	}
	if len(groups) > 0 {
		a.seeded = true
	}

	if a.cursor >= len(groups) {
		a.cursor = max(0, len(groups)-1)
	}
}

// Flat reports whether the listing renders without section chrome.
func (a *accordion) Flat() bool {
	return len(a.groups) <= 1
}

// MoveCursor moves the section cursor by delta, clamped to the sections.
func (a *accordion) MoveCursor(delta int) {
	a.cursor += delta
	if a.cursor < 0 {
		a.cursor = 0
	}
	if a.cursor > len(a.groups)-1 {
		a.cursor = max(0, len(a.groups)-1)
	}
}

// Toggle flips the section under the cursor, independently of the others.
func (a *accordion) Toggle() {
	if a.Flat() || a.cursor >= len(a.groups) {
		return
	}
	city := a.groups[a.cursor].City
	a.expanded[city] = !a.expanded[city]
}

// Selected returns the group under the cursor.
func (a *accordion) Selected() (search.Group, bool) {
	if a.cursor >= len(a.groups) {
		return search.Group{}, false
	}
	return a.groups[a.cursor], true
}

// View renders the listing into at most width columns.
func (a *accordion) View(width int) string {
	if len(a.groups) == 0 {
		return styles.dim.Render("No flights yet.")
	}

	if a.Flat() {
		var b strings.Builder
		for i, flight := range a.groups[0].Flights {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(renderFlightCard(flight, width))
		}
		return b.String()
	}

	var b strings.Builder
	for i, group := range a.groups {
		if i > 0 {
			b.WriteString("\n")
		}

		marker := "▸"
		if a.expanded[group.City] {
			marker = "▾"
		}
		header := fmt.Sprintf("%s %s (%d flights, from %s)",
			marker, group.City, len(group.Flights), styles.price.Render(fmt.Sprintf("%.0f€", group.MinPrice)))
		if i == a.cursor {
			header = styles.section.Render(header)
		}
		b.WriteString(ansi.Truncate(header, width, "…"))

		if a.expanded[group.City] {
			for _, flight := range group.Flights {
				b.WriteString("\n")
				b.WriteString(renderFlightCard(flight, width))
			}
		}
	}
	return b.String()
}

// renderFlightCard renders one itinerary: a single line for a one-way
// flight, outbound and return lines plus the total for a round trip.
func renderFlightCard(flight models.Flight, width int) string {
	line := fmt.Sprintf("  %s  %s  %s-%s  %s, %s  %s",
		styles.price.Render(fmt.Sprintf("%6.0f€", flight.EffectivePrice())),
		flight.Route(),
		flight.Departure, flight.Arrival,
		flight.Duration, stopsText(flight.Stops),
		styles.dim.Render(flight.Airline),
	)
	lines := []string{ansi.Truncate(line, width, "…")}

	for _, stop := range flight.Stopovers {
		detail := fmt.Sprintf("           via %s (%s), wait %s", stop.City, stop.Code, stop.Wait)
		lines = append(lines, ansi.Truncate(styles.dim.Render(detail), width, "…"))
	}

	if flight.IsRoundTrip() {
		ret := fmt.Sprintf("           return %s-%s  %s, %s  %s",
			flight.ReturnDeparture, flight.ReturnArrival,
			flight.ReturnDuration, stopsText(flight.ReturnStops),
			styles.dim.Render(flight.ReturnAirline),
		)
		lines = append(lines, ansi.Truncate(ret, width, "…"))
	}

	return strings.Join(lines, "\n")
}

func stopsText(stops int) string {
	switch stops {
	case 0:
		return "direct"
	case 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}
