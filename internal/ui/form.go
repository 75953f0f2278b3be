package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/search"
	"github.com/gzanee/skyscanner/internal/shared"
)

// formField identifies the focusable parts of the search form, in tab
// order. The return-leg fields only participate for round trips.
type formField int

const (
	fieldOrigin formField = iota
	fieldDest
	fieldDepartDate
	fieldMaxPrice
	fieldDepartRange
	fieldArrivalRange
	fieldTrip
	fieldReturnDate
	fieldReturnDepartRange
	fieldReturnArrivalRange
	fieldDirect
	fieldSameDay
	fieldSort

	fieldCount
)

// returnField reports whether the field belongs to the return leg.
func returnField(f formField) bool {
	return f == fieldReturnDate || f == fieldReturnDepartRange || f == fieldReturnArrivalRange
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+x":
		if err := models.SwapSelections(m.origin.Selection(), m.dest.Selection()); err != nil {
			m.notice = err.Error()
		} else {
			m.notice = "airports swapped"
		}
		return m, nil
	case msg.String() == "tab":
		return m, m.moveFocus(1)
	case msg.String() == "shift+tab":
		return m, m.moveFocus(-1)
	}

	switch m.focus {
	case fieldOrigin, fieldDest:
		p := m.origin
		if m.focus == fieldDest {
			p = m.dest
		}
		if msg.String() == "enter" && !p.DropdownOpen() {
			return m.submit()
		}
		return m, p.HandleKey(msg, m.debounce)

	case fieldDepartDate, fieldReturnDate, fieldMaxPrice:
		if msg.String() == "enter" {
			return m.submit()
		}
		var cmd tea.Cmd
		switch m.focus {
		case fieldDepartDate:
			m.departDate, cmd = m.departDate.Update(msg)
		case fieldReturnDate:
			m.returnDate, cmd = m.returnDate.Update(msg)
		default:
			m.maxPrice, cmd = m.maxPrice.Update(msg)
		}
		return m, cmd

	case fieldDepartRange, fieldArrivalRange, fieldReturnDepartRange, fieldReturnArrivalRange:
		h := m.rangeByField(m.focus)
		switch msg.String() {
		case "left":
			h.Nudge(-1)
		case "right":
			h.Nudge(1)
		case " ":
			h.ToggleThumb()
		case "enter":
			return m.submit()
		}
		return m, nil

	case fieldTrip:
		switch msg.String() {
		case " ", "left", "right":
			if m.trip == models.TripOneWay {
				m.trip = models.TripRoundTrip
			} else {
				m.trip = models.TripOneWay
			}
		case "enter":
			return m.submit()
		}
		return m, nil

	case fieldDirect:
		switch msg.String() {
		case " ", "left", "right":
			m.directOnly = !m.directOnly
		case "enter":
			return m.submit()
		}
		return m, nil

	case fieldSameDay:
		switch msg.String() {
		case " ", "left", "right":
			m.sameDay = !m.sameDay
		case "enter":
			return m.submit()
		}
		return m, nil

	case fieldSort:
		switch msg.String() {
		case " ", "right":
			m.sortKey = nextSortKey(m.sortKey)
		case "left":
			m.sortKey = nextSortKey(nextSortKey(m.sortKey))
		case "enter":
			return m.submit()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up":
		m.results.MoveCursor(-1)
	case "down":
		m.results.MoveCursor(1)
	case " ", "enter":
		m.results.Toggle()
	case "s":
		m.sortKey = nextSortKey(m.sortKey)
		m.session.SetSortKey(m.sortKey)
		m.results.SetGroups(m.session.Groups())
	case "ctrl+s":
		return m, m.saveSnapshot()
	case "o":
		m.openDeepLink()
	case "n", "esc":
		m.view = FormView
		m.notice = ""
		return m, m.focusCurrent()
	}
	return m, nil
}

// moveFocus advances focus by delta, skipping return-leg fields for
// one-way trips.
func (m *Model) moveFocus(delta int) tea.Cmd {
	m.blurCurrent()

	for {
		m.focus = formField((int(m.focus) + delta + int(fieldCount)) % int(fieldCount))
		if returnField(m.focus) && m.trip != models.TripRoundTrip {
			continue
		}
		break
	}

	return m.focusCurrent()
}

func (m *Model) blurCurrent() {
	switch m.focus {
	case fieldOrigin:
		m.origin.Blur()
	case fieldDest:
		m.dest.Blur()
	case fieldDepartDate:
		m.departDate.Blur()
	case fieldReturnDate:
		m.returnDate.Blur()
	case fieldMaxPrice:
		m.maxPrice.Blur()
	}
}

func (m *Model) focusCurrent() tea.Cmd {
	switch m.focus {
	case fieldOrigin:
		return m.origin.Focus()
	case fieldDest:
		return m.dest.Focus()
	case fieldDepartDate:
		return m.departDate.Focus()
	case fieldReturnDate:
		return m.returnDate.Focus()
	case fieldMaxPrice:
		return m.maxPrice.Focus()
	}
	return nil
}

func (m *Model) rangeByField(f formField) *hourRange {
	switch f {
	case fieldArrivalRange:
		return m.arrivalRange
	case fieldReturnDepartRange:
		return m.returnDepartRange
	case fieldReturnArrivalRange:
		return m.returnArrivalRange
	default:
		return m.departRange
	}
}

func nextSortKey(key models.SortKey) models.SortKey {
	switch key {
	case models.SortPrice:
		return models.SortTime
	case models.SortTime:
		return models.SortDuration
	default:
		return models.SortPrice
	}
}

// buildQuery assembles the request from the form widgets and validates it.
func (m *Model) buildQuery() (models.SearchQuery, error) {
	priceText := strings.TrimSpace(m.maxPrice.Value())
	maxPrice, err := strconv.ParseFloat(priceText, 64)
	if err != nil {
		return models.SearchQuery{}, fmt.Errorf("%w: max price must be a number", shared.ErrValidation)
	}

	query := models.SearchQuery{
		Origins:        m.origin.Selection().Codes(),
		Destinations:   m.dest.Selection().Codes(),
		Everywhere:     m.dest.Selection().HasEverywhere(),
		DepartDate:     strings.TrimSpace(m.departDate.Value()),
		MaxPrice:       maxPrice,
		MinHour:        m.departRange.FloorLower(),
		MaxHour:        m.departRange.CeilUpper(),
		MinArrivalHour: m.arrivalRange.FloorLower(),
		MaxArrivalHour: m.arrivalRange.CeilUpper(),
		DirectOnly:     m.directOnly,
		SameDay:        m.sameDay,
		Sort:           m.sortKey,
		TripType:       m.trip,
	}

	if m.trip == models.TripRoundTrip {
		query.ReturnDate = strings.TrimSpace(m.returnDate.Value())
		query.ReturnMinHour = m.returnDepartRange.FloorLower()
		query.ReturnMaxHour = m.returnDepartRange.CeilUpper()
		query.ReturnMinArrivalHour = m.returnArrivalRange.FloorLower()
		query.ReturnMaxArrivalHour = m.returnArrivalRange.CeilUpper()
	}

	if err := query.Validate(); err != nil {
		return query, err
	}
	return query, nil
}

func (m *Model) renderForm() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	trackWidth := min(48, width-28)

	var b strings.Builder
	b.WriteString(styles.title.Render("Flight Search"))
	b.WriteString("\n")

	b.WriteString(m.origin.View(width, m.focus == fieldOrigin))
	b.WriteString("\n\n")
	b.WriteString(m.dest.View(width, m.focus == fieldDest))
	b.WriteString("\n\n")

	b.WriteString(renderInput("Depart date", m.departDate.View(), m.focus == fieldDepartDate))
	b.WriteString("\n")
	b.WriteString(renderInput("Max price (€)", m.maxPrice.View(), m.focus == fieldMaxPrice))
	b.WriteString("\n\n")

	b.WriteString(m.departRange.View(trackWidth, m.focus == fieldDepartRange))
	b.WriteString("\n")
	b.WriteString(m.arrivalRange.View(trackWidth, m.focus == fieldArrivalRange))
	b.WriteString("\n\n")

	b.WriteString(renderToggle("Round trip", m.trip == models.TripRoundTrip, m.focus == fieldTrip))
	b.WriteString("\n")

	if m.trip == models.TripRoundTrip {
		b.WriteString(renderInput("Return date", m.returnDate.View(), m.focus == fieldReturnDate))
		b.WriteString("\n")
		b.WriteString(m.returnDepartRange.View(trackWidth, m.focus == fieldReturnDepartRange))
		b.WriteString("\n")
		b.WriteString(m.returnArrivalRange.View(trackWidth, m.focus == fieldReturnArrivalRange))
		b.WriteString("\n")
	}

	b.WriteString(renderToggle("Direct only", m.directOnly, m.focus == fieldDirect))
	b.WriteString("\n")
	b.WriteString(renderToggle("Same-day arrival", m.sameDay, m.focus == fieldSameDay))
	b.WriteString("\n")

	sortLabel := "Sort: " + m.sortKey.Label()
	if m.focus == fieldSort {
		sortLabel = styles.focused.Render(sortLabel + "  ←/→")
	} else {
		sortLabel = styles.label.Render(sortLabel)
	}
	b.WriteString(sortLabel)
	b.WriteString("\n")

	if m.formErr != "" {
		b.WriteString("\n")
		b.WriteString(styles.err.Render(m.formErr))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(styles.warn.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func renderInput(label, view string, focused bool) string {
	rendered := styles.label.Render(label)
	if focused {
		rendered = styles.focused.Render(label)
	}
	return fmt.Sprintf("%s  %s", rendered, view)
}

func renderToggle(label string, on, focused bool) string {
	box := "[ ]"
	if on {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %s", box, label)
	if focused {
		return styles.focused.Render(line)
	}
	return styles.label.Render(line)
}

func (m *Model) renderResults() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	status := m.session.Status()

	var b strings.Builder
	b.WriteString(styles.title.Render("Flights " + m.session.Query().RouteSummary()))
	b.WriteString("\n")

	switch {
	case m.searching:
		b.WriteString(m.spin.View())
		b.WriteString(status.Message)
		b.WriteString("\n")
		if status.Total > 0 {
			b.WriteString(m.prog.ViewAs(float64(status.Current) / float64(status.Total)))
			b.WriteString("\n")
		}
		subtitle := fmt.Sprintf("%ds elapsed", int(status.Elapsed.Seconds()))
		if status.FoundSeen {
			subtitle = fmt.Sprintf("%d flights found so far · %s", status.Found, subtitle)
		}
		b.WriteString(styles.dim.Render(subtitle))
		b.WriteString("\n")

	case status.Phase == search.PhaseFailed:
		message := status.Message
		if status.Err != nil {
			message = status.Err.Error()
		}
		b.WriteString(styles.err.Render("Search failed: " + message))
		b.WriteString("\n")

	case status.Phase == search.PhaseInterrupted:
		b.WriteString(styles.warn.Render("Stream ended before completion"))
		b.WriteString("\n")
		if status.Message != "" {
			b.WriteString(styles.dim.Render(status.Message))
			b.WriteString("\n")
		}

	case status.Phase == search.PhaseDone:
		line := fmt.Sprintf("✓ %d flights in %ds", status.Count, int(status.Elapsed.Seconds()))
		b.WriteString(styles.ok.Render(line))
		b.WriteString("\n")
		if !status.Stats.IsZero() {
			b.WriteString(styles.dim.Render(status.Stats.Summary()))
			b.WriteString("\n")
		}
	}

	b.WriteString(styles.dim.Render("sorted by " + m.sortKey.Label()))
	b.WriteString("\n\n")

	b.WriteString(m.results.View(width))
	b.WriteString("\n")

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(styles.warn.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView(m.keys.ResultsHelp()))
	return b.String()
}
