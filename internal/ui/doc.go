// Package ui implements the interactive terminal client using bubbletea's Elm architecture.
//
// The TUI provides a two-view workflow for flight search:
//  1. [FormView] : airport pickers, travel dates, price cap, hour-range sliders, toggles
//  2. [ResultsView] : live progress while the event stream runs, then the flight
//     list grouped by destination city with collapsible sections
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Airport lookups are debounced and tagged with a sequence number so a stale
// response can never overwrite a newer one; stream events and ticker ticks carry
// the search generation and are dropped by [search.Session] when superseded.
//
// Keyboard navigation uses tab/shift+tab between fields, arrow keys inside a
// field, and contextual help via charmbracelet/bubbles/help.
package ui
