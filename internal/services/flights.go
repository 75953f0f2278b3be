// Flight search implementation of [Service]
//
// Communicates with the local proxy wrapping the Skyscanner mobile API.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/shared"
)

const (
	defaultFlightsBaseURL = "http://localhost:5000"

	endpointAirports     = "/api/airports"
	endpointSearch       = "/api/search"
	endpointSearchStream = "/api/search/stream"
)

// APIError is a non-2xx answer from the search API. Message is the
// server's own and is displayed to the user as-is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// FlightsService implements the Service interface against the search proxy.
type FlightsService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *EndpointLimiter
}

// NewFlightsService creates a flight search service. An empty baseURL
// falls back to the local proxy. A nil client uses http.DefaultClient,
// which carries no overall timeout: long searches and event streams are
// bounded by their context instead.
func NewFlightsService(baseURL string, client *http.Client) *FlightsService {
	if baseURL == "" {
		baseURL = defaultFlightsBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &FlightsService{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    NewEndpointLimiter(DefaultRateConfig()),
	}
}

// Name returns the service name.
func (f *FlightsService) Name() string {
	return "Flight Search"
}

// SetAirportRate bounds airport lookups, which burst while the user
// types.
func (f *FlightsService) SetAirportRate(rps float64, burst int) {
	f.limiter.SetLimit(endpointAirports, rps, burst)
}

// SetSearchRate bounds search starts. The one-shot and streaming
// endpoints share the budget.
func (f *FlightsService) SetSearchRate(rps float64, burst int) {
	f.limiter.SetLimit(endpointSearch, rps, burst)
	f.limiter.SetLimit(endpointSearchStream, rps, burst)
}

// doRequest performs a JSON request against the proxy. A non-2xx answer
// becomes an [APIError] carrying the server's message.
func (f *FlightsService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, f.baseURL+endpoint, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIResponse, err)
		}
	}

	return nil
}

// apiError reads a non-2xx response into an [APIError], preferring the
// server's own error message over the bare status.
func apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Message = payload.Error
	}

	return apiErr
}

// LookupAirports resolves a free-text query to ranked airport
// suggestions. Queries shorter than two characters return nothing
// without a request, matching the server's own guard.
func (f *FlightsService) LookupAirports(ctx context.Context, query string) ([]models.Suggestion, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return nil, nil
	}

	if err := f.limiter.Wait(ctx, endpointAirports); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s?query=%s", endpointAirports, url.QueryEscape(query))

	var suggestions []models.Suggestion
	if err := f.doRequest(ctx, http.MethodGet, endpoint, nil, &suggestions); err != nil {
		return nil, err
	}
	return suggestions, nil
}

// Search runs a search to completion in a single request. The query is
// validated and normalized before it is sent.
func (f *FlightsService) Search(ctx context.Context, query models.SearchQuery) (*SearchResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if err := f.limiter.Wait(ctx, endpointSearch); err != nil {
		return nil, err
	}

	var result SearchResult
	if err := f.doRequest(ctx, http.MethodPost, endpointSearch, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchStream opens an incremental search and hands the event stream to
// the caller, who must Close it. Canceling the context tears the stream
// down mid-read.
func (f *FlightsService) SearchStream(ctx context.Context, query models.SearchQuery) (*SearchStream, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if err := f.limiter.Wait(ctx, endpointSearchStream); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+endpointSearchStream, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, apiError(resp)
	}

	return NewSearchStream(resp.Body), nil
}
