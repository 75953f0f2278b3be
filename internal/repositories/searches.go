package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/shared"
)

// SearchRepository implements models.Repository[*models.SavedSearch] for
// search history.
type SearchRepository struct {
	db *sql.DB
}

// NewSearchRepository creates a new SearchRepository with the given database connection
func NewSearchRepository(db *sql.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Create inserts a new saved search with a generated ID.
func (r *SearchRepository) Create(saved *models.SavedSearch) error {
	if err := saved.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	saved.SetID(id)

	queryJSON, resultsJSON, err := encodeSnapshot(saved)
	if err != nil {
		return err
	}

	query := saved.Query()
	var cheapest any
	if price, ok := saved.Cheapest(); ok {
		cheapest = price
	}

	stmt := `
		INSERT INTO searches (
			id, created_at, depart_date, origins, destinations,
			everywhere, sort_key, flight_count, cheapest,
			query_json, results_json
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(stmt,
		id,
		saved.CreatedAt(),
		query.DepartDate,
		strings.Join(query.Origins, ","),
		strings.Join(query.Destinations, ","),
		query.Everywhere,
		string(query.Sort),
		saved.Count(),
		cheapest,
		queryJSON,
		resultsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert search: %w", err)
	}

	return nil
}

// Get retrieves a saved search by ID.
func (r *SearchRepository) Get(id string) (*models.SavedSearch, error) {
	stmt := `
		SELECT id, created_at, query_json, results_json
		FROM searches
		WHERE id = ?
	`

	return scanSearch(r.db.QueryRow(stmt, id))
}

// Update replaces the result snapshot of an existing saved search.
func (r *SearchRepository) Update(saved *models.SavedSearch) error {
	if err := saved.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	queryJSON, resultsJSON, err := encodeSnapshot(saved)
	if err != nil {
		return err
	}

	var cheapest any
	if price, ok := saved.Cheapest(); ok {
		cheapest = price
	}

	stmt := `
		UPDATE searches
		SET flight_count = ?, cheapest = ?, query_json = ?, results_json = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(stmt, saved.Count(), cheapest, queryJSON, resultsJSON, saved.ID())
	if err != nil {
		return fmt.Errorf("failed to update search: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSearchNotFound, saved.ID())
	}

	return nil
}

// Delete removes a saved search by ID.
func (r *SearchRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM searches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete search: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSearchNotFound, id)
	}

	return nil
}

// List retrieves saved searches matching the given criteria, newest first.
// Supported keys: "everywhere" (bool), "depart_date" (string, wire format),
// and "limit" (int).
func (r *SearchRepository) List(criteria map[string]any) ([]*models.SavedSearch, error) {
	stmt := `
		SELECT id, created_at, query_json, results_json
		FROM searches
		WHERE 1 = 1
	`

	args := []any{}

	if everywhere, ok := criteria["everywhere"].(bool); ok {
		stmt += " AND everywhere = ?"
		args = append(args, everywhere)
	}

	if departDate, ok := criteria["depart_date"].(string); ok && departDate != "" {
		stmt += " AND depart_date = ?"
		args = append(args, departDate)
	}

	stmt += " ORDER BY created_at DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer rows.Close()

	var searches []*models.SavedSearch
	for rows.Next() {
		saved, err := scanSearch(rows)
		if err != nil {
			return nil, err
		}
		searches = append(searches, saved)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return searches, nil
}

// Clear deletes every saved search and returns how many were removed.
func (r *SearchRepository) Clear() (int, error) {
	result, err := r.db.Exec("DELETE FROM searches")
	if err != nil {
		return 0, fmt.Errorf("failed to clear searches: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(rows), nil
}

// encodeSnapshot marshals the query and result JSON columns.
func encodeSnapshot(saved *models.SavedSearch) (string, string, error) {
	queryJSON, err := json.Marshal(saved.Query())
	if err != nil {
		return "", "", fmt.Errorf("failed to encode query: %w", err)
	}

	snapshot := struct {
		Flights []models.Flight `json:"flights"`
		Stats   models.Stats    `json:"stats"`
		Count   int             `json:"count"`
	}{saved.Flights(), saved.Stats(), saved.Count()}

	resultsJSON, err := json.Marshal(snapshot)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode results: %w", err)
	}

	return string(queryJSON), string(resultsJSON), nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanSearch rebuilds a [models.SavedSearch] from its stored columns.
func scanSearch(row rowScanner) (*models.SavedSearch, error) {
	var (
		id          string
		createdAt   time.Time
		queryJSON   string
		resultsJSON string
	)

	err := row.Scan(&id, &createdAt, &queryJSON, &resultsJSON)
	if err == sql.ErrNoRows {
		return nil, shared.ErrSearchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan search: %w", err)
	}

	var query models.SearchQuery
	if err := json.Unmarshal([]byte(queryJSON), &query); err != nil {
		return nil, fmt.Errorf("failed to decode stored query: %w", err)
	}

	var snapshot struct {
		Flights []models.Flight `json:"flights"`
		Stats   models.Stats    `json:"stats"`
		Count   int             `json:"count"`
	}
	if err := json.Unmarshal([]byte(resultsJSON), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode stored results: %w", err)
	}

	saved := models.NewSavedSearch(query, snapshot.Flights, snapshot.Stats, snapshot.Count)
	saved.SetID(id)
	saved.SetCreatedAt(createdAt)
	saved.SetUpdatedAt(createdAt)

	return saved, nil
}
