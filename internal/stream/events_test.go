package stream

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/gzanee/skyscanner/internal/shared"
)

func TestDecodeEvent(t *testing.T) {
	t.Run("progress", func(t *testing.T) {
		raw := RawEvent{Data: `{"type": "progress", "message": "Searching flights... (3/12)", "current": 3, "total": 12, "found": 7}`}
		event, err := DecodeEvent(raw)
		if err != nil {
			t.Fatalf("DecodeEvent() error = %v", err)
		}

		p, ok := event.(Progress)
		if !ok {
			t.Fatalf("expected Progress, got %T", event)
		}
		if p.Message != "Searching flights... (3/12)" || p.Current != 3 || p.Total != 12 {
			t.Errorf("progress fields = %+v", p)
		}
		if p.Found == nil || *p.Found != 7 {
			t.Errorf("found = %v, want 7", p.Found)
		}
	})

	t.Run("progress without found", func(t *testing.T) {
		raw := RawEvent{Data: `{"type": "progress", "message": "Connecting"}`}
		event, err := DecodeEvent(raw)
		if err != nil {
			t.Fatalf("DecodeEvent() error = %v", err)
		}
		if p := event.(Progress); p.Found != nil {
			t.Errorf("absent found should decode to nil, got %v", *p.Found)
		}
	})

	t.Run("results", func(t *testing.T) {
		raw := RawEvent{Data: `{"type": "results", "flights": [{"codice_origine": "VCE", "codice_dest": "LGW", "prezzo": 45.0, "partenza": "18:35"}], "found": 1}`}
		event, err := DecodeEvent(raw)
		if err != nil {
			t.Fatalf("DecodeEvent() error = %v", err)
		}

		r, ok := event.(Results)
		if !ok {
			t.Fatalf("expected Results, got %T", event)
		}
		if len(r.Flights) != 1 || r.Flights[0].DestCode != "LGW" {
			t.Errorf("flights = %+v", r.Flights)
		}
	})

	t.Run("error", func(t *testing.T) {
		raw := RawEvent{Data: `{"type": "error", "message": "Controlla i valori inseriti."}`}
		event, err := DecodeEvent(raw)
		if err != nil {
			t.Fatalf("DecodeEvent() error = %v", err)
		}

		e, ok := event.(Error)
		if !ok {
			t.Fatalf("expected Error, got %T", event)
		}
		if e.Error() != "Controlla i valori inseriti." {
			t.Errorf("message = %q", e.Error())
		}
	})

	t.Run("complete", func(t *testing.T) {
		raw := RawEvent{Data: `{"type": "complete", "flights": [], "count": 0, "search_everywhere": true, "stats": {"paesi": 3, "città": 9, "partenze": "VCE"}}`}
		event, err := DecodeEvent(raw)
		if err != nil {
			t.Fatalf("DecodeEvent() error = %v", err)
		}

		c, ok := event.(Complete)
		if !ok {
			t.Fatalf("expected Complete, got %T", event)
		}
		if !c.Everywhere || c.Stats.Countries != 3 || c.Stats.Cities != 9 {
			t.Errorf("complete fields = %+v", c)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := DecodeEvent(RawEvent{Data: `{"type": "heartbeat"}`})
		if !errors.Is(err, shared.ErrEventDecode) {
			t.Errorf("expected ErrEventDecode, got %v", err)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := DecodeEvent(RawEvent{Data: `{"type": "progress",`})
		if !errors.Is(err, shared.ErrEventDecode) {
			t.Errorf("expected ErrEventDecode, got %v", err)
		}
	})
}

func TestReader(t *testing.T) {
	t.Run("skips malformed events", func(t *testing.T) {
		input := "data: not json at all\n\n" +
			`data: {"type": "progress", "message": "ok"}` + "\n\n" +
			`data: {"type": "mystery"}` + "\n\n" +
			`data: {"type": "complete", "flights": [], "count": 0, "search_everywhere": false, "stats": {}}` + "\n\n"

		reader := NewReader(strings.NewReader(input))

		first, err := reader.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if _, ok := first.(Progress); !ok {
			t.Fatalf("expected Progress first, got %T", first)
		}

		second, err := reader.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if _, ok := second.(Complete); !ok {
			t.Fatalf("expected Complete second, got %T", second)
		}

		if _, err := reader.Next(); err != io.EOF {
			t.Errorf("expected io.EOF after last event, got %v", err)
		}

		if reader.Skipped() != 2 {
			t.Errorf("Skipped() = %d, want 2", reader.Skipped())
		}
	})

	t.Run("empty stream yields EOF", func(t *testing.T) {
		reader := NewReader(strings.NewReader(""))
		if _, err := reader.Next(); err != io.EOF {
			t.Errorf("expected io.EOF, got %v", err)
		}
	})
}
