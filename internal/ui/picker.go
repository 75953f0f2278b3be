package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/gzanee/skyscanner/internal/models"
)

// picker is one airport selector: a debounced text input, a dismissible
// dropdown of suggestions, and the ordered selection rendered as tags.
//
// Every keystroke bumps seq; debounce timers and lookup responses carry
// the seq they were issued for and are dropped when a newer keystroke
// has superseded them. Only the destination picker offers the everywhere
// sentinel, shown when its query is empty or is a prefix match.
type picker struct {
	id              pickerID
	label           string
	input           textinput.Model
	selection       models.SelectionSet
	suggestions     []models.Suggestion
	cursor          int
	open            bool
	allowEverywhere bool
	seq             int
	lastQuery       string
}

func newPicker(id pickerID, label, placeholder string, allowEverywhere bool) *picker {
	input := textinput.New()
	input.Placeholder = placeholder
	input.Prompt = "> "
	input.CharLimit = 64

	return &picker{
		id:              id,
		label:           label,
		input:           input,
		allowEverywhere: allowEverywhere,
	}
}

// Focus gives the text input keyboard focus. The destination picker
// opens its dropdown immediately so the everywhere sentinel is reachable
// without typing.
func (p *picker) Focus() tea.Cmd {
	cmd := p.input.Focus()
	if len(p.rows()) > 0 {
		p.open = true
	}
	return cmd
}

// Blur drops focus and dismisses the dropdown, the TUI equivalent of an
// outside click.
func (p *picker) Blur() {
	p.input.Blur()
	p.Dismiss()
}

// Dismiss closes the dropdown without changing the selection.
func (p *picker) Dismiss() {
	p.open = false
	p.cursor = 0
}

// DropdownOpen reports whether the dropdown is showing; the root model
// uses it to decide whether enter selects a row or submits the form.
func (p *picker) DropdownOpen() bool {
	return p.open
}

// Query returns the trimmed text currently in the input.
func (p *picker) Query() string {
	return strings.TrimSpace(p.input.Value())
}

// Selection exposes the picker's selected set.
func (p *picker) Selection() *models.SelectionSet {
	return &p.selection
}

// HandleKey routes one keystroke. The returned command is either a
// debounce timer for a changed query or the input's own cursor blink.
func (p *picker) HandleKey(msg tea.KeyMsg, debounce time.Duration) tea.Cmd {
	switch msg.String() {
	case "up":
		if p.open && p.cursor > 0 {
			p.cursor--
		}
		return nil
	case "down":
		if rows := p.rows(); p.open && p.cursor < len(rows)-1 {
			p.cursor++
		}
		return nil
	case "enter":
		p.SelectCursor()
		return nil
	case "esc":
		p.Dismiss()
		return nil
	case "backspace":
		if p.input.Value() == "" {
			p.RemoveLast()
			return nil
		}
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)

	query := p.Query()
	if query == p.lastQuery {
		return cmd
	}
	p.lastQuery = query
	p.seq++

	// Short queries never issue a request: pending fetches go stale via
	// the bumped seq and the dropdown falls back to the sentinel offer.
	if len([]rune(query)) < 2 {
		p.suggestions = nil
		p.cursor = 0
		p.open = len(p.rows()) > 0
		return cmd
	}

	seq := p.seq
	id := p.id
	return tea.Batch(cmd, tea.Tick(debounce, func(time.Time) tea.Msg {
		return debounceMsg{id: id, seq: seq}
	}))
}

// Debounced reports whether a fired debounce timer should fetch: the
// sequence must still be current and the query long enough.
func (p *picker) Debounced(seq int) (string, bool) {
	query := p.Query()
	if seq != p.seq || len([]rune(query)) < 2 {
		return "", false
	}
	return query, true
}

// SetSuggestions installs a lookup result. Stale sequences are dropped;
// an empty result or an error closes the dropdown.
func (p *picker) SetSuggestions(seq int, items []models.Suggestion, err error) {
	if seq != p.seq {
		return
	}
	if err != nil {
		p.suggestions = nil
		p.open = false
		return
	}

	p.suggestions = items
	p.cursor = 0
	p.open = len(p.rows()) > 0
}

// rows returns the dropdown rows: the everywhere sentinel first when
// this picker offers it and the query is empty or a prefix of its
// label, then the fetched suggestions.
func (p *picker) rows() []models.Suggestion {
	var rows []models.Suggestion
	if p.allowEverywhere {
		query := strings.ToLower(p.Query())
		if query == "" || strings.HasPrefix("everywhere", query) {
			rows = append(rows, models.Everywhere())
		}
	}
	return append(rows, p.suggestions...)
}

// SelectCursor adds the highlighted row to the selection and reports
// whether the set changed. Duplicates are ignored; sentinel exclusivity
// is enforced by the selection set itself.
func (p *picker) SelectCursor() bool {
	rows := p.rows()
	if !p.open || p.cursor >= len(rows) {
		return false
	}

	changed := p.selection.Add(rows[p.cursor])

	p.input.SetValue("")
	p.lastQuery = ""
	p.seq++
	p.suggestions = nil
	p.Dismiss()
	return changed
}

// RemoveLast removes the most recently added tag.
func (p *picker) RemoveLast() bool {
	items := p.selection.Items()
	if len(items) == 0 {
		return false
	}
	return p.selection.Remove(items[len(items)-1].SkyID)
}

// View renders the label, selected tags, input line, and dropdown.
func (p *picker) View(width int, focused bool) string {
	var b strings.Builder

	label := styles.label.Render(p.label)
	if focused {
		label = styles.focused.Render(p.label)
	}
	b.WriteString(label)
	b.WriteString("\n")

	if items := p.selection.Items(); len(items) > 0 {
		tags := make([]string, len(items))
		for i, item := range items {
			tags[i] = styles.tag.Render(item.Label() + " ×")
		}
		b.WriteString(strings.Join(tags, " "))
		b.WriteString("\n")
	}

	b.WriteString(p.input.View())

	if focused && p.open {
		for i, row := range p.rows() {
			b.WriteString("\n")
			line := "  " + row.Label()
			if row.Subtitle != "" {
				line += styles.dim.Render(" · " + row.Subtitle)
			}
			line = ansi.Truncate(line, width, "…")
			if i == p.cursor {
				line = styles.rowSel.Render(line)
			}
			b.WriteString(line)
		}
	}

	return b.String()
}
