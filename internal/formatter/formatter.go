// package formatter exports flight search results to CSV, Markdown, and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/shared"
)

// Format identifies an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ParseFormat normalizes a format name from user input.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "text", "txt", "plain":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q (use csv, markdown, or text)", shared.ErrInvalidFlag, s)
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return "csv"
	}
}

// ExportToCSV converts a flight list to CSV with one row per itinerary.
// Return-leg columns are empty for one-way flights.
func ExportToCSV(flights []models.Flight) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{
		"Origin", "Destination", "City", "Country",
		"Departure", "Arrival", "Duration", "Stops", "Airline", "Price",
		"ReturnDeparture", "ReturnArrival", "ReturnAirline", "TotalPrice",
	}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, flight := range flights {
		total := ""
		if flight.TotalPrice != nil {
			total = strconv.FormatFloat(*flight.TotalPrice, 'f', 2, 64)
		}

		record := []string{
			flight.OriginCode,
			flight.DestCode,
			flight.City,
			flight.Country,
			flight.Departure,
			flight.Arrival,
			flight.Duration,
			strconv.Itoa(flight.Stops),
			flight.Airline,
			strconv.FormatFloat(flight.Price, 'f', 2, 64),
			flight.ReturnDeparture,
			flight.ReturnArrival,
			flight.ReturnAirline,
			total,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a saved search as a Markdown document with a
// summary header and a flight table.
func ExportToMarkdown(saved *models.SavedSearch) []byte {
	var buf bytes.Buffer
	query := saved.Query()

	buf.WriteString(fmt.Sprintf("# Flights %s\n\n", query.RouteSummary()))
	buf.WriteString(fmt.Sprintf("**Date**: %s\n", query.DepartDate))
	if query.ReturnDate != "" {
		buf.WriteString(fmt.Sprintf("**Return**: %s\n", query.ReturnDate))
	}
	buf.WriteString(fmt.Sprintf("**Flights**: %d\n", saved.Count()))
	if stats := saved.Stats(); !stats.IsZero() {
		buf.WriteString(fmt.Sprintf("**Coverage**: %s\n", stats.Summary()))
	}
	buf.WriteString("\n")

	buf.WriteString("| Route | Departure | Arrival | Duration | Stops | Airline | Price |\n")
	buf.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, flight := range saved.Flights() {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %d | %s | %s |\n",
			flight.Route(),
			flight.Departure,
			flight.Arrival,
			flight.Duration,
			flight.Stops,
			flight.Airline,
			priceCell(flight),
		))
		if flight.IsRoundTrip() {
			buf.WriteString(fmt.Sprintf("| %s > %s | %s | %s | %s | %d | %s | return |\n",
				flight.DestCode,
				flight.OriginCode,
				flight.ReturnDeparture,
				flight.ReturnArrival,
				flight.ReturnDuration,
				flight.ReturnStops,
				flight.ReturnAirline,
			))
		}
	}

	return buf.Bytes()
}

// ExportToText renders a saved search as plain text, one flight per line.
func ExportToText(saved *models.SavedSearch) []byte {
	var buf bytes.Buffer
	query := saved.Query()

	buf.WriteString(fmt.Sprintf("Search: %s\n", query.RouteSummary()))
	buf.WriteString(fmt.Sprintf("Date: %s\n", query.DepartDate))
	if query.ReturnDate != "" {
		buf.WriteString(fmt.Sprintf("Return: %s\n", query.ReturnDate))
	}
	buf.WriteString(fmt.Sprintf("Flights: %d\n\n", saved.Count()))

	for i, flight := range saved.Flights() {
		buf.WriteString(fmt.Sprintf("%d. %s %s %s-%s (%s, %s) %s\n",
			i+1, flight.Route(), flight.Airline,
			flight.Departure, flight.Arrival,
			flight.Duration, stopsLabel(flight.Stops),
			priceCell(flight),
		))
		for _, stop := range flight.Stopovers {
			buf.WriteString(fmt.Sprintf("   via %s (%s), wait %s\n", stop.City, stop.Code, stop.Wait))
		}
		if flight.IsRoundTrip() {
			buf.WriteString(fmt.Sprintf("   return: %s %s-%s (%s, %s)\n",
				flight.ReturnAirline,
				flight.ReturnDeparture, flight.ReturnArrival,
				flight.ReturnDuration, stopsLabel(flight.ReturnStops),
			))
		}
	}

	return buf.Bytes()
}

// Render produces the export bytes for a saved search in the given format.
func Render(saved *models.SavedSearch, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(saved.Flights())
	case FormatMarkdown:
		return ExportToMarkdown(saved), nil
	case FormatText:
		return ExportToText(saved), nil
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
}

// WriteExport renders a saved search to a file and returns the path
// written. An empty path derives a name from the route and travel date,
// e.g. "flights_VCE-LON_06-02-2026.csv".
func WriteExport(saved *models.SavedSearch, format Format, path string) (string, error) {
	data, err := Render(saved, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		path = defaultFilename(saved.Query(), format)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// defaultFilename builds "flights_<route>_<date>.<ext>" from the query.
func defaultFilename(query models.SearchQuery, format Format) string {
	route := strings.Join(query.Origins, "+")
	if query.Everywhere || len(query.Destinations) == 0 {
		route += "-everywhere"
	} else {
		route += "-" + strings.Join(query.Destinations, "+")
	}
	date := strings.ReplaceAll(query.DepartDate, "/", "-")
	return fmt.Sprintf("flights_%s_%s.%s", route, date, format.Ext())
}

func priceCell(flight models.Flight) string {
	if flight.TotalPrice != nil {
		return fmt.Sprintf("%.0f€ total", *flight.TotalPrice)
	}
	return fmt.Sprintf("%.0f€", flight.Price)
}

func stopsLabel(stops int) string {
	switch stops {
	case 0:
		return "direct"
	case 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}
