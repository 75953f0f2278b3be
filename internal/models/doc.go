// Package models defines domain entities and persistence interfaces for the skyscan flight search client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): structs mirroring the search API's wire format
//   - [Suggestion] : An airport, city, country, or the everywhere sentinel from lookup
//   - [Flight] : One priced itinerary, optionally with stopovers and a return leg
//   - [Stopover] : An intermediate stop within a leg
//   - [Stats] : Aggregate coverage of a completed search
//   - [SearchQuery] : The search request body with validation and defaults
//
// 2. Client-side state and persistence:
//   - [SelectionSet] : Ordered, deduplicated airport selections with sentinel exclusivity
//   - [SavedSearch] : A persisted search snapshot with full lifecycle management
//
// Persisted entities implement the Model interface providing ID generation, timestamps,
// and validation. The Repository[T] interface defines standard CRUD operations for
// database access.
package models
