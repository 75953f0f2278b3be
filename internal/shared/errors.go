package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// API and transport errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrAPIResponse        = fmt.Errorf("unexpected API response")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrSearchFailed       = fmt.Errorf("search failed")
	ErrEventDecode        = fmt.Errorf("malformed stream event")
	ErrStreamEnded        = fmt.Errorf("stream ended before completion")
	ErrTimeout            = fmt.Errorf("operation timed out")

	// Input validation errors
	ErrValidation      = fmt.Errorf("validation failed")
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidDate     = fmt.Errorf("invalid date")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Storage errors
	ErrSearchNotFound = fmt.Errorf("saved search not found")
)
