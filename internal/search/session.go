// Package search holds the client-side state of a flight search: one
// session at a time, fed by decoded stream events, with stable sorting
// and per-city grouping of the accumulated results.
package search

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/shared"
	"github.com/gzanee/skyscanner/internal/stream"
)

// Session owns the lifecycle of the current search. Every search started
// through it gets a generation number, and every event, tick, or failure
// report must present the generation it belongs to; anything tagged with
// a superseded generation is dropped. Starting a new search cancels the
// previous one's context, so a slow stream cannot write into the state
// of the search that replaced it.
//
// All methods are safe for concurrent use.
type Session struct {
	mu     sync.Mutex
	logger *log.Logger

	gen        int
	query      models.SearchQuery
	sortKey    models.SortKey
	everywhere bool
	cancel     context.CancelFunc

	flights   []models.Flight
	phase     Phase
	message   string
	current   int
	total     int
	found     int
	foundSeen bool
	count     int
	stats     models.Stats
	err       error

	started time.Time
	elapsed time.Duration
}

// NewSession creates an idle session.
func NewSession(logger *log.Logger) *Session {
	return &Session{
		logger:  logger,
		sortKey: models.SortPrice,
	}
}

// Start begins a new search, aborting whatever search was running. The
// query should already be validated. It returns the context the request
// must run under and the generation tag for every later call belonging
// to this search.
func (s *Session) Start(ctx context.Context, query models.SearchQuery) (context.Context, int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, s.cancel = context.WithCancel(ctx)

	s.gen++
	s.query = query
	s.sortKey = query.Sort
	s.everywhere = query.Everywhere

	s.flights = nil
	s.phase = PhaseConnecting
	s.message = "Connecting"
	s.current = 0
	s.total = 0
	s.found = 0
	s.foundSeen = false
	s.count = 0
	s.stats = models.Stats{}
	s.err = nil
	s.started = time.Now()
	s.elapsed = 0

	s.logger.Debug("search started", "generation", s.gen, "route", query.RouteSummary())
	return ctx, s.gen
}

// Apply folds one stream event into the session. It reports whether the
// event was applied: events tagged with a superseded generation, or
// arriving after the search already ended, are dropped unseen.
func (s *Session) Apply(gen int, event stream.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.phase.Terminal() {
		return false
	}

	switch e := event.(type) {
	case stream.Progress:
		s.phase = PhaseSearching
		s.message = e.Message
		s.current = e.Current
		s.total = e.Total
		if e.Found != nil {
			s.found = *e.Found
			s.foundSeen = true
		}
	case stream.Results:
		s.flights = append(s.flights, e.Flights...)
		SortFlights(s.flights, s.sortKey)
		if e.Found != nil {
			s.found = *e.Found
			s.foundSeen = true
		}
		if s.phase == PhaseConnecting {
			s.phase = PhaseSearching
		}
	case stream.Error:
		s.err = e
		s.finish(PhaseFailed, e.Message)
	case stream.Complete:
		s.flights = append([]models.Flight(nil), e.Flights...)
		SortFlights(s.flights, s.sortKey)
		s.count = e.Count
		s.found = e.Count
		s.foundSeen = true
		s.stats = e.Stats
		s.everywhere = e.Everywhere
		s.finish(PhaseDone, "Search complete")
	}
	return true
}

// Fail records a transport failure: the request could not be made, or
// the stream broke mid-way. The error is kept for inspection while the
// displayed message stays generic.
func (s *Session) Fail(gen int, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.phase.Terminal() {
		return false
	}
	s.err = err
	s.finish(PhaseFailed, "Search failed")
	s.logger.Error("search failed", "generation", gen, "error", err)
	return true
}

// End marks a stream that closed without a completion or error event.
// Accumulated results stay visible and the last status message is kept.
func (s *Session) End(gen int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.phase.Terminal() {
		return false
	}
	s.finish(PhaseInterrupted, "")
	return true
}

// finish seals the current search. Callers hold the lock.
func (s *Session) finish(phase Phase, message string) {
	s.phase = phase
	if message != "" {
		s.message = message
	}
	s.elapsed = time.Since(s.started)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Tick advances the elapsed clock. It reports whether the caller should
// re-arm its timer: false means the generation is stale or the search
// already ended, and no further tick may be scheduled.
func (s *Session) Tick(gen int, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen || s.phase.Terminal() || s.phase == PhaseIdle {
		return false
	}
	s.elapsed = now.Sub(s.started)
	return true
}

// Generation returns the tag of the search currently owning the session.
func (s *Session) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Query returns the query the current search was started with.
func (s *Session) Query() models.SearchQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Everywhere reports whether the current search fans out to all
// destinations, which is what decides the grouped listing.
func (s *Session) Everywhere() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.everywhere
}

// SortKey returns the order the accumulated flights are kept in.
func (s *Session) SortKey() models.SortKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortKey
}

// SetSortKey reorders the accumulated flights and makes key the order
// for every later batch.
func (s *Session) SetSortKey(key models.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key == s.sortKey {
		return
	}
	s.sortKey = key
	SortFlights(s.flights, key)
}

// Status returns a displayable snapshot of the current search.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		Phase:     s.phase,
		Message:   s.message,
		Current:   s.current,
		Total:     s.total,
		Found:     s.found,
		FoundSeen: s.foundSeen,
		Count:     s.count,
		Stats:     s.stats,
		Err:       s.err,
		Elapsed:   s.elapsed,
	}
}

// Flights returns a copy of the accumulated flights in display order.
func (s *Session) Flights() []models.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Flight(nil), s.flights...)
}

// Groups returns the accumulated flights grouped by destination city,
// cities ordered by their cheapest flight.
func (s *Session) Groups() []Group {
	return GroupByCity(s.Flights())
}

// Snapshot captures the current state as a persistable record. The
// stored count follows the flight list, so partial results from an
// interrupted search snapshot cleanly.
func (s *Session) Snapshot() *models.SavedSearch {
	s.mu.Lock()
	defer s.mu.Unlock()

	flights := append([]models.Flight(nil), s.flights...)
	return models.NewSavedSearch(s.query, flights, s.stats, len(flights))
}

// Consume drains the stream into the session, calling observe after
// every state change. It serves the one-shot command path, where nothing
// else starts a competing search mid-drain. It returns nil when the
// server sent a completion, the server's error event when it sent a
// failure, the transport error when the read broke, and an error
// wrapping [shared.ErrStreamEnded] when the stream closed without any
// terminal event.
func (s *Session) Consume(gen int, r *stream.Reader, observe func(Status)) error {
	notify := func() {
		if observe != nil {
			observe(s.Status())
		}
	}
	defer func() {
		if n := r.Skipped(); n > 0 {
			s.logger.Warn("dropped undecodable events", "count", n)
		}
	}()

	for !s.Status().Phase.Terminal() {
		event, err := r.Next()
		if err == io.EOF {
			if s.End(gen) {
				notify()
			}
			return shared.ErrStreamEnded
		}
		if err != nil {
			if s.Fail(gen, err) {
				notify()
			}
			return err
		}
		if !s.Apply(gen, event) {
			return fmt.Errorf("%w: superseded by a newer search", shared.ErrStreamEnded)
		}
		notify()
	}

	if status := s.Status(); status.Phase == PhaseFailed {
		return status.Err
	}
	return nil
}
