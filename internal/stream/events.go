package stream

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/shared"
)

// Event is one decoded search event. The set of implementations is closed:
// [Progress], [Results], [Error], and [Complete], discriminated on the
// wire by the payload's "type" field.
type Event interface {
	event()
}

// Progress reports a human-readable status update. Current and Total form
// a determinate progress ratio when Total is positive; Found, when
// present, is the number of flights found so far.
type Progress struct {
	Message string `json:"message"`
	Current int    `json:"current,omitempty"`
	Total   int    `json:"total,omitempty"`
	Found   *int   `json:"found,omitempty"`
}

// Results carries a partial batch of flights to append to the accumulated
// list. Found, when present, updates the running counter.
type Results struct {
	Flights []models.Flight `json:"flights"`
	Found   *int            `json:"found,omitempty"`
}

// Error terminates the search with a server-supplied message. It
// implements the error interface so the message travels as-is.
type Error struct {
	Message string `json:"message"`
}

// Complete terminates the search. Its flight list and count are
// authoritative and replace whatever accumulated beforehand.
type Complete struct {
	Flights    []models.Flight `json:"flights"`
	Count      int             `json:"count"`
	Everywhere bool            `json:"search_everywhere"`
	Stats      models.Stats    `json:"stats"`
}

func (Progress) event() {}
func (Results) event()  {}
func (Error) event()    {}
func (Complete) event() {}

func (e Error) Error() string {
	return e.Message
}

// DecodeEvent parses one raw event payload into its typed form. Payloads
// that are not JSON, lack a known type tag, or fail field decoding return
// an error wrapping [shared.ErrEventDecode].
func DecodeEvent(raw RawEvent) (Event, error) {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(raw.Data), &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrEventDecode, err)
	}

	decode := func(v any) error {
		if err := json.Unmarshal([]byte(raw.Data), v); err != nil {
			return fmt.Errorf("%w: %s payload: %v", shared.ErrEventDecode, envelope.Type, err)
		}
		return nil
	}

	switch envelope.Type {
	case "progress":
		var e Progress
		if err := decode(&e); err != nil {
			return nil, err
		}
		return e, nil
	case "results":
		var e Results
		if err := decode(&e); err != nil {
			return nil, err
		}
		return e, nil
	case "error":
		var e Error
		if err := decode(&e); err != nil {
			return nil, err
		}
		return e, nil
	case "complete":
		var e Complete
		if err := decode(&e); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("%w: unknown event type %q", shared.ErrEventDecode, envelope.Type)
	}
}

// Reader yields typed events from an SSE stream. Malformed payloads are
// skipped, not fatal: the search continues on whatever the server sends
// next. Skipped counts how many were dropped.
type Reader struct {
	scanner *Scanner
	skipped int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: NewScanner(r)}
}

// Next returns the next well-formed event. It returns io.EOF at clean end
// of stream and the underlying read error otherwise.
func (r *Reader) Next() (Event, error) {
	for r.scanner.Next() {
		event, err := DecodeEvent(r.scanner.Event())
		if err != nil {
			r.skipped++
			continue
		}
		return event, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Skipped returns the number of malformed events dropped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}
