// Package stream decodes the search API's server-sent-event responses into
// typed events, incrementally, as bytes arrive.
package stream

import (
	"bufio"
	"io"
	"strings"
)

// RawEvent is one framed server-sent event before payload decoding: the
// optional "event:" field and the joined "data:" payload.
type RawEvent struct {
	Type string
	Data string
}

// Scanner splits an SSE byte stream into [RawEvent] records. Events are
// delimited by blank lines; partial lines and events split across read
// boundaries are carried over until their terminating delimiter arrives.
// A final unterminated event is emitted on a best-effort basis when the
// stream ends.
//
//	sc := NewScanner(body)
//	for sc.Next() {
//	    raw := sc.Event()
//	    ...
//	}
//	if err := sc.Err(); err != nil {
//	    ...
//	}
type Scanner struct {
	r     *bufio.Reader
	event RawEvent
	err   error
}

// NewScanner creates a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next advances to the next complete event. It returns false at end of
// stream or on a read error; use [Scanner.Err] to tell the two apart.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}
	s.event = RawEvent{}

	var data []string
	var eventType string

	emit := func() bool {
		if len(data) == 0 {
			return false
		}
		s.event = RawEvent{Type: eventType, Data: strings.Join(data, "\n")}
		return true
	}

	for {
		line, err := s.r.ReadString('\n')

		if line == "" && err != nil {
			if err != io.EOF {
				s.err = err
				return false
			}
			// End of stream: best-effort emit of a trailing
			// unterminated event.
			s.err = io.EOF
			return emit()
		}

		line = strings.TrimRight(line, "\r\n")

		// Blank line terminates the pending event, if any.
		if line == "" {
			if emit() {
				return true
			}
			eventType = ""
			continue
		}

		// Comments.
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, ok := strings.Cut(line, ":")
		if ok {
			// A single leading space in the value is part of the framing.
			value = strings.TrimPrefix(value, " ")
		} else {
			field, value = line, ""
		}

		switch field {
		case "data":
			data = append(data, value)
		case "event":
			eventType = value
		default:
			// id, retry, and unknown fields carry nothing we consume.
		}
	}
}

// Event returns the most recently scanned event. Valid only after a true
// return from [Scanner.Next].
func (s *Scanner) Event() RawEvent {
	return s.event
}

// Err returns the first read error encountered; a clean end of stream
// reports nil.
func (s *Scanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
