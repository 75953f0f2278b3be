package ui

import (
	"time"

	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/services"
	"github.com/gzanee/skyscanner/internal/stream"
)

// pickerID distinguishes the two airport pickers in routed messages.
type pickerID int

const (
	pickerOrigin pickerID = iota
	pickerDest
)

// debounceMsg fires after the lookup debounce interval. A picker only
// fetches when seq still matches its latest keystroke.
type debounceMsg struct {
	id  pickerID
	seq int
}

// suggestionsMsg delivers an airport lookup result. Stale sequences are
// dropped without touching the dropdown.
type suggestionsMsg struct {
	id    pickerID
	seq   int
	items []models.Suggestion
	err   error
}

// streamOpenedMsg reports the outcome of opening the search stream.
type streamOpenedMsg struct {
	gen    int
	stream *services.SearchStream
	err    error
}

// streamEventMsg delivers one decoded search event.
type streamEventMsg struct {
	gen   int
	event stream.Event
}

// streamDoneMsg reports the end of the stream: err is nil on clean EOF
// and the transport error otherwise. A terminal event arriving earlier
// supersedes it.
type streamDoneMsg struct {
	gen int
	err error
}

// tickMsg advances the elapsed-time subtitle once a second.
type tickMsg struct {
	gen int
	at  time.Time
}

// savedMsg reports the outcome of saving the current results to history.
type savedMsg struct {
	id  string
	err error
}
