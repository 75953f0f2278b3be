// package services defines interface Service for the flight search API
package services

import (
	"context"
	"io"

	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/stream"
)

// Service defines the interface for flight search providers that can resolve airports and run searches.
type Service interface {
	// LookupAirports resolves a free-text city or airport name to ranked
	// suggestions. Queries shorter than two characters resolve to nothing
	// without issuing a request.
	LookupAirports(ctx context.Context, query string) ([]models.Suggestion, error)

	// Search runs a search to completion in a single request. Everywhere
	// searches can take minutes, so callers bound the context.
	Search(ctx context.Context, query models.SearchQuery) (*SearchResult, error)

	// SearchStream opens an incremental search.
	// The caller owns the returned stream and must Close it.
	SearchStream(ctx context.Context, query models.SearchQuery) (*SearchStream, error)

	// Name returns the display name of the provider.
	Name() string
}

// SearchResult is the final payload of a search.
type SearchResult struct {
	Flights    []models.Flight `json:"flights"`
	Count      int             `json:"count"`
	Everywhere bool            `json:"search_everywhere"`
	Stats      models.Stats    `json:"stats"`
}

// SearchStream is an open incremental search feeding decoded events.
type SearchStream struct {
	reader *stream.Reader
	body   io.ReadCloser
}

// NewSearchStream wraps an event-stream body. Test doubles use it to
// serve canned streams without a connection.
func NewSearchStream(body io.ReadCloser) *SearchStream {
	return &SearchStream{reader: stream.NewReader(body), body: body}
}

// Events returns the decoded event source.
func (s *SearchStream) Events() *stream.Reader {
	return s.reader
}

// Close releases the underlying connection.
func (s *SearchStream) Close() error {
	return s.body.Close()
}
