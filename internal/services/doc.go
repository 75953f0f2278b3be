// Package services defines the [Service] interface for flight search providers and implements it against the local search proxy.
//
// # Service Interface
//
// Commands and the TUI program against [Service], so tests substitute a canned double without touching HTTP.
//
// # Flights Implementation
//
// [FlightsService] communicates with the proxy wrapping the Skyscanner mobile API.
//
// Airport lookup is a GET to /api/airports. One-shot searches POST to /api/search
// and block until the final payload. Incremental searches POST to /api/search/stream
// and read server-sent events until a completion or error event arrives.
//
// The HTTP client deliberately carries no overall timeout: everywhere searches run
// for minutes, so every call is bounded by its context instead.
//
// # Rate Limiting
//
// Requests pass through a per-endpoint [EndpointLimiter]. Airport lookups burst
// while the user types and get a loose budget; search starts are expensive upstream
// and get a tight one. Budgets come from the configuration file.
//
// # Error Handling
//
// Services use typed errors from the shared package plus one local type:
//   - [shared.ErrAPIRequest] : the HTTP request itself failed
//   - [APIError] : the server answered non-2xx; its message is shown to the user verbatim
//   - [shared.ErrAPIResponse] : a 2xx body could not be decoded
//
// # Raw Access
//
// [APIService] is the untyped escape hatch behind the api command: plain GET and
// POST against any proxy path with JSON detection on the response body.
package services
