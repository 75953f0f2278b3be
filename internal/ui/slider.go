package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/gzanee/skyscanner/internal/shared"
)

// hourRange is a dual-thumb range selector over hour-of-day 0-24,
// quantized to a configurable step. Either thumb can be moved but never
// past the other by less than one step: the lower thumb's ceiling is
// upper-step and the upper thumb's floor is lower+step.
type hourRange struct {
	label string
	step  float64
	lower float64
	upper float64

	// active selects which thumb arrow keys move: 0 lower, 1 upper.
	active int
}

const (
	hourMin = 0.0
	hourMax = 24.0
)

func newHourRange(label string, step float64) *hourRange {
	if step <= 0 {
		step = 0.25
	}
	return &hourRange{
		label:  label,
		step:   step,
		lower:  hourMin,
		upper:  hourMax,
		active: 1,
	}
}

// quantize snaps a raw value to the step grid and clamps it to the domain.
func (h *hourRange) quantize(v float64) float64 {
	v = math.Round(v/h.step) * h.step
	return math.Min(hourMax, math.Max(hourMin, v))
}

// SetLower moves the lower thumb to the quantized value, clamped so it
// stays at least one step below the upper thumb.
func (h *hourRange) SetLower(v float64) {
	v = h.quantize(v)
	if ceiling := h.upper - h.step; v > ceiling {
		v = ceiling
	}
	if v < hourMin {
		v = hourMin
	}
	h.lower = v
}

// SetUpper moves the upper thumb to the quantized value, clamped so it
// stays at least one step above the lower thumb.
func (h *hourRange) SetUpper(v float64) {
	v = h.quantize(v)
	if floor := h.lower + h.step; v < floor {
		v = floor
	}
	if v > hourMax {
		v = hourMax
	}
	h.upper = v
}

// Click moves whichever thumb is nearer the clicked value, the lower
// thumb winning an exact midpoint, subject to the non-crossing clamp.
func (h *hourRange) Click(v float64) {
	if v-h.lower <= h.upper-v {
		h.SetLower(v)
		h.active = 0
	} else {
		h.SetUpper(v)
		h.active = 1
	}
}

// Nudge moves the active thumb by the given number of steps.
func (h *hourRange) Nudge(steps int) {
	delta := float64(steps) * h.step
	if h.active == 0 {
		h.SetLower(h.lower + delta)
	} else {
		h.SetUpper(h.upper + delta)
	}
}

// ToggleThumb switches which thumb the arrow keys control.
func (h *hourRange) ToggleThumb() {
	h.active = 1 - h.active
}

// Bounds returns the two fractional-hour bounds.
func (h *hourRange) Bounds() (float64, float64) {
	return h.lower, h.upper
}

// FloorLower returns the integer hour sent as the minimum query bound.
func (h *hourRange) FloorLower() int {
	return int(math.Floor(h.lower))
}

// CeilUpper returns the integer hour sent as the maximum query bound.
func (h *hourRange) CeilUpper() int {
	return int(math.Ceil(h.upper))
}

// Labels renders the current bounds as HH:MM strings.
func (h *hourRange) Labels() (string, string) {
	return shared.FormatHour(h.lower), shared.FormatHour(h.upper)
}

// View renders the slider as a one-line track between its bound labels.
func (h *hourRange) View(trackWidth int, focused bool) string {
	if trackWidth < 8 {
		trackWidth = 8
	}

	lowerCell := int(math.Round(h.lower / hourMax * float64(trackWidth-1)))
	upperCell := int(math.Round(h.upper / hourMax * float64(trackWidth-1)))

	var track strings.Builder
	for i := 0; i < trackWidth; i++ {
		switch {
		case i == lowerCell || i == upperCell:
			track.WriteString("●")
		case i > lowerCell && i < upperCell:
			track.WriteString("━")
		default:
			track.WriteString("─")
		}
	}

	label := styles.label.Render(h.label)
	if focused {
		label = styles.focused.Render(h.label)
	}

	from, to := h.Labels()
	thumb := "min"
	if h.active == 1 {
		thumb = "max"
	}

	line := fmt.Sprintf("%s  %s %s %s", label, from, track.String(), to)
	if focused {
		line += styles.dim.Render(fmt.Sprintf("  (%s)", thumb))
	}
	return line
}
