package search

import (
	"time"

	"github.com/gzanee/skyscanner/internal/models"
)

// Phase is the lifecycle stage of a search.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConnecting
	PhaseSearching
	PhaseDone
	PhaseFailed
	PhaseInterrupted
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseSearching:
		return "searching"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	case PhaseInterrupted:
		return "interrupted"
	default:
		return "idle"
	}
}

// Terminal reports whether the phase ends a search. Interrupted covers a
// stream that ended without a completion or error event.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed || p == PhaseInterrupted
}

// Status is a displayable snapshot of a search session.
//
// Found is a display-only counter with no ordering guarantee across event
// types; FoundSeen distinguishes "zero so far" from "never reported".
// Current and Total form a determinate progress ratio when Total is
// positive.
type Status struct {
	Phase     Phase
	Message   string
	Current   int
	Total     int
	Found     int
	FoundSeen bool
	Count     int
	Stats     models.Stats
	Err       error
	Elapsed   time.Duration
}
