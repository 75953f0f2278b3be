package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gzanee/skyscanner/internal/models"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func typeQuery(t *testing.T, p *picker, query string) {
	t.Helper()
	for _, r := range query {
		p.HandleKey(runeKey(r), time.Millisecond)
	}
}

func venice() models.Suggestion {
	return models.Suggestion{SkyID: "VCE", Title: "Venezia Marco Polo", EntityType: "AIRPORT"}
}

func TestPicker(t *testing.T) {
	t.Run("DestinationOffersEverywhere", func(t *testing.T) {
		p := newPicker(pickerDest, "To", "", true)
		rows := p.rows()
		if len(rows) != 1 || !rows[0].IsEverywhere() {
			t.Fatalf("rows = %v, want the everywhere sentinel", rows)
		}

		p.Focus()
		if !p.DropdownOpen() {
			t.Error("dest dropdown should open on focus with the sentinel row")
		}
	})

	t.Run("OriginNeverOffersEverywhere", func(t *testing.T) {
		p := newPicker(pickerOrigin, "From", "", false)
		if rows := p.rows(); len(rows) != 0 {
			t.Errorf("rows = %v, want none", rows)
		}
		p.Focus()
		if p.DropdownOpen() {
			t.Error("origin dropdown should stay closed without suggestions")
		}
	})

	t.Run("SentinelSurvivesPrefixQuery", func(t *testing.T) {
		p := newPicker(pickerDest, "To", "", true)
		p.Focus()

		typeQuery(t, p, "ever")
		if rows := p.rows(); len(rows) != 1 || !rows[0].IsEverywhere() {
			t.Errorf("prefix query dropped the sentinel: %v", rows)
		}

		typeQuery(t, p, "x")
		if rows := p.rows(); len(rows) != 0 {
			t.Errorf("non-prefix query kept the sentinel: %v", rows)
		}
	})

	t.Run("TypingBumpsSequence", func(t *testing.T) {
		p := newPicker(pickerOrigin, "From", "", false)
		p.Focus()

		typeQuery(t, p, "ve")
		seq := p.seq
		if seq != 2 {
			t.Fatalf("seq = %d after two keystrokes, want 2", seq)
		}

		if query, ok := p.Debounced(seq); !ok || query != "ve" {
			t.Errorf("Debounced(%d) = (%q, %v), want (\"ve\", true)", seq, query, ok)
		}
		if _, ok := p.Debounced(seq - 1); ok {
			t.Error("stale debounce sequence should not fetch")
		}
	})

	t.Run("ShortQueryNeverFetches", func(t *testing.T) {
		p := newPicker(pickerOrigin, "From", "", false)
		p.Focus()

		typeQuery(t, p, "v")
		if _, ok := p.Debounced(p.seq); ok {
			t.Error("single-rune query should not fetch")
		}
	})

	t.Run("StaleSuggestionsDropped", func(t *testing.T) {
		p := newPicker(pickerOrigin, "From", "", false)
		p.Focus()

		typeQuery(t, p, "ve")
		stale := p.seq
		typeQuery(t, p, "n")

		p.SetSuggestions(stale, []models.Suggestion{venice()}, nil)
		if p.DropdownOpen() {
			t.Error("stale lookup response should be dropped")
		}

		p.SetSuggestions(p.seq, []models.Suggestion{venice()}, nil)
		if !p.DropdownOpen() {
			t.Error("current lookup response should open the dropdown")
		}
	})

	t.Run("LookupErrorClosesDropdown", func(t *testing.T) {
		p := newPicker(pickerOrigin, "From", "", false)
		p.Focus()

		typeQuery(t, p, "ve")
		p.SetSuggestions(p.seq, []models.Suggestion{venice()}, nil)
		p.SetSuggestions(p.seq, nil, errors.New("boom"))
		if p.DropdownOpen() {
			t.Error("lookup error should close the dropdown")
		}
	})

	t.Run("SelectCursorAddsTagAndResets", func(t *testing.T) {
		p := newPicker(pickerOrigin, "From", "", false)
		p.Focus()

		typeQuery(t, p, "ve")
		p.SetSuggestions(p.seq, []models.Suggestion{venice()}, nil)

		if !p.SelectCursor() {
			t.Fatal("SelectCursor should add the highlighted row")
		}
		if got := p.Selection().Codes(); len(got) != 1 || got[0] != "VCE" {
			t.Errorf("selection = %v, want [VCE]", got)
		}
		if p.Query() != "" {
			t.Errorf("query should reset after select, got %q", p.Query())
		}
		if p.DropdownOpen() {
			t.Error("dropdown should close after select")
		}
	})

	t.Run("BackspaceOnEmptyRemovesLastTag", func(t *testing.T) {
		p := newPicker(pickerOrigin, "From", "", false)
		p.Focus()
		p.Selection().Add(venice())
		p.Selection().Add(models.Suggestion{SkyID: "MXP", Title: "Milano Malpensa"})

		p.HandleKey(tea.KeyMsg{Type: tea.KeyBackspace}, time.Millisecond)
		if got := p.Selection().Codes(); len(got) != 1 || got[0] != "VCE" {
			t.Errorf("selection = %v, want [VCE]", got)
		}
	})
}
