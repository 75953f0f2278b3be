// Package repositories implements SQLite persistence for saved searches.
//
// [SearchRepository] implements models.Repository[*models.SavedSearch] over
// the searches table: the query and the result snapshot are stored as JSON
// columns next to a handful of scalar columns (route, date, count, cheapest
// price) that listings read without decoding the snapshots.
//
// Nothing reaches the database unless the user asks: the session model
// stays in-memory and a search is only stored through an explicit save.
package repositories
