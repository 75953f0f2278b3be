// Formatting helpers for the wire and display conventions of the search API.
package shared

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the wire format for travel dates (DD/MM/YYYY).
const DateLayout = "02/01/2006"

// FormatHour renders a fractional hour-of-day as a zero-padded HH:MM label.
// The domain maximum renders as "24:00".
func FormatHour(v float64) string {
	h := int(v)
	m := int(math.Round((v - float64(h)) * 60))
	if m == 60 {
		h++
		m = 0
	}
	return fmt.Sprintf("%02d:%02d", h, m)
}

// FormatDuration renders a minute count in the API's duration notation,
// e.g. 125 -> "2h 05min".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dh %02dmin", minutes/60, minutes%60)
}

// ParseDate parses a DD/MM/YYYY travel date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: expected DD/MM/YYYY, got %q", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate renders a time in the DD/MM/YYYY wire format.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
