package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func savedSearch(price float64) *models.SavedSearch {
	total := price + 50
	flights := []models.Flight{
		{
			City:       "London",
			Country:    "Regno Unito",
			DestCode:   "STN",
			OriginCode: "VCE",
			Price:      price,
			Departure:  "06:30",
			Arrival:    "07:55",
			Duration:   "2h 25min", DurationMin: 145,
			Airline: "Ryanair",
		},
		{
			City:       "London",
			Country:    "Regno Unito",
			DestCode:   "LGW",
			OriginCode: "VCE",
			Price:      price + 20,
			TotalPrice: &total,
			Departure:  "10:15",
			Arrival:    "11:40",
			Duration:   "2h 25min", DurationMin: 145,
			Airline: "easyJet",
		},
	}

	query := models.SearchQuery{
		Origins:      []string{"VCE"},
		Destinations: []string{"LON"},
		DepartDate:   "06/02/2026",
		MaxPrice:     200,
		Sort:         models.SortPrice,
	}

	return models.NewSavedSearch(query, flights, models.Stats{Origins: "VCE", Destinations: "STN, LGW"}, len(flights))
}

func TestSearchRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSearchRepository(db)
		saved := savedSearch(45)

		if err := repo.Create(saved); err != nil {
			t.Fatalf("failed to create search: %v", err)
		}

		if saved.ID() == "" {
			t.Error("search ID should be set after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSearchRepository(db)
		saved := savedSearch(45)

		if err := repo.Create(saved); err != nil {
			t.Fatalf("failed to create search: %v", err)
		}

		retrieved, err := repo.Get(saved.ID())
		if err != nil {
			t.Fatalf("failed to get search: %v", err)
		}

		if retrieved.ID() != saved.ID() {
			t.Errorf("expected ID %s, got %s", saved.ID(), retrieved.ID())
		}
		if retrieved.Count() != 2 {
			t.Errorf("expected 2 flights, got %d", retrieved.Count())
		}
		if retrieved.Query().RouteSummary() != "VCE > LON" {
			t.Errorf("unexpected route: %s", retrieved.Query().RouteSummary())
		}

		flights := retrieved.Flights()
		if flights[1].TotalPrice == nil || *flights[1].TotalPrice != 95 {
			t.Error("round-trip total price did not survive the snapshot")
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSearchRepository(db)
		saved := savedSearch(45)

		if err := repo.Create(saved); err != nil {
			t.Fatalf("failed to create search: %v", err)
		}

		flights := saved.Flights()[:1]
		saved.SetResults(flights, 1, models.Stats{Origins: "VCE", Destinations: "STN"})

		if err := repo.Update(saved); err != nil {
			t.Fatalf("failed to update search: %v", err)
		}

		retrieved, err := repo.Get(saved.ID())
		if err != nil {
			t.Fatalf("failed to get search: %v", err)
		}
		if retrieved.Count() != 1 {
			t.Errorf("expected updated count 1, got %d", retrieved.Count())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSearchRepository(db)
		saved := savedSearch(45)

		if err := repo.Create(saved); err != nil {
			t.Fatalf("failed to create search: %v", err)
		}

		if err := repo.Delete(saved.ID()); err != nil {
			t.Fatalf("failed to delete search: %v", err)
		}

		if _, err := repo.Get(saved.ID()); !errors.Is(err, shared.ErrSearchNotFound) {
			t.Errorf("expected ErrSearchNotFound after delete, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		t.Run("Newest First", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSearchRepository(db)
			for _, price := range []float64{45, 60, 80} {
				if err := repo.Create(savedSearch(price)); err != nil {
					t.Fatalf("failed to create search: %v", err)
				}
			}

			searches, err := repo.List(nil)
			if err != nil {
				t.Fatalf("failed to list searches: %v", err)
			}
			if len(searches) != 3 {
				t.Fatalf("expected 3 searches, got %d", len(searches))
			}
		})

		t.Run("With Limit", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSearchRepository(db)
			for _, price := range []float64{45, 60, 80} {
				if err := repo.Create(savedSearch(price)); err != nil {
					t.Fatalf("failed to create search: %v", err)
				}
			}

			searches, err := repo.List(map[string]any{"limit": 2})
			if err != nil {
				t.Fatalf("failed to list searches: %v", err)
			}
			if len(searches) != 2 {
				t.Errorf("expected 2 searches with limit, got %d", len(searches))
			}
		})

		t.Run("By Everywhere Flag", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSearchRepository(db)

			base := savedSearch(45)
			query := base.Query()
			query.Everywhere = true
			query.Destinations = nil
			everywhere := models.NewSavedSearch(query, base.Flights(), base.Stats(), base.Count())

			if err := repo.Create(everywhere); err != nil {
				t.Fatalf("failed to create everywhere search: %v", err)
			}
			if err := repo.Create(savedSearch(60)); err != nil {
				t.Fatalf("failed to create search: %v", err)
			}

			searches, err := repo.List(map[string]any{"everywhere": true})
			if err != nil {
				t.Fatalf("failed to list searches: %v", err)
			}
			if len(searches) != 1 {
				t.Fatalf("expected 1 everywhere search, got %d", len(searches))
			}
			if !searches[0].Query().Everywhere {
				t.Error("expected an everywhere query")
			}
		})
	})

	t.Run("Clear", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSearchRepository(db)
		for _, price := range []float64{45, 60} {
			if err := repo.Create(savedSearch(price)); err != nil {
				t.Fatalf("failed to create search: %v", err)
			}
		}

		removed, err := repo.Clear()
		if err != nil {
			t.Fatalf("failed to clear searches: %v", err)
		}
		if removed != 2 {
			t.Errorf("expected 2 removed, got %d", removed)
		}

		searches, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list searches: %v", err)
		}
		if len(searches) != 0 {
			t.Errorf("expected empty history after clear, got %d", len(searches))
		}
	})
}

func TestSearchRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSearchRepository(db)
			saved := models.NewSavedSearch(models.SearchQuery{}, nil, models.Stats{}, 0)

			if err := repo.Create(saved); err == nil {
				t.Fatal("expected validation error for empty query")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSearchRepository(db)

			if _, err := repo.Get("missing"); !errors.Is(err, shared.ErrSearchNotFound) {
				t.Errorf("expected ErrSearchNotFound, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSearchRepository(db)
			saved := savedSearch(45)
			saved.SetID("missing")

			if err := repo.Update(saved); !errors.Is(err, shared.ErrSearchNotFound) {
				t.Errorf("expected ErrSearchNotFound, got %v", err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewSearchRepository(db)

			if err := repo.Delete("missing"); !errors.Is(err, shared.ErrSearchNotFound) {
				t.Errorf("expected ErrSearchNotFound, got %v", err)
			}
		})
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db := setupTestDB(t)
		db.Close()

		repo := NewSearchRepository(db)

		if err := repo.Create(savedSearch(45)); err == nil {
			t.Error("expected error on closed database")
		}
		if _, err := repo.List(nil); err == nil {
			t.Error("expected error on closed database")
		}
	})
}
