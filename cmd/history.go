package main

import (
	"context"
	"fmt"

	"github.com/gzanee/skyscanner/internal/formatter"
	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/shared"
	"github.com/urfave/cli/v3"
)

// HistoryList prints saved searches, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, db, err := r.openRepository()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if limit := int(cmd.Int("limit")); limit > 0 {
		criteria["limit"] = limit
	}
	if cmd.Bool("everywhere") {
		criteria["everywhere"] = true
	}

	searches, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if cmd.Bool("json") {
		entries := make([]map[string]any, len(searches))
		for i, saved := range searches {
			entries[i] = historyEntry(saved)
		}
		return r.writeJSON(entries, true)
	}

	if len(searches) == 0 {
		r.writePlain("No saved searches.\n")
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Saved searches (%d)", len(searches)))
	for _, saved := range searches {
		line := fmt.Sprintf("%s  %s  %s  %d flights",
			saved.ID(), saved.CreatedAt().Format("02/01/2006 15:04"),
			saved.Query().RouteSummary(), saved.Count())
		if cheapest, ok := saved.Cheapest(); ok {
			line += fmt.Sprintf(", from %.0f€", cheapest)
		}
		r.writePlain("%s\n", line)
	}

	return nil
}

// HistoryShow prints one saved search in full, optionally opening its
// search page in the browser.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: search id", shared.ErrMissingArgument)
	}

	repo, db, err := r.openRepository()
	if err != nil {
		return err
	}
	defer db.Close()

	saved, err := repo.Get(id)
	if err != nil {
		return err
	}

	if cmd.Bool("open") {
		if err := r.openSearchPage(saved); err != nil {
			return err
		}
	}

	if cmd.Bool("json") {
		entry := historyEntry(saved)
		entry["flights"] = saved.Flights()
		entry["stats"] = saved.Stats()
		return r.writeJSON(entry, true)
	}

	text, err := formatter.Render(saved, formatter.FormatText)
	if err != nil {
		return err
	}
	_, err = r.output.Write(text)
	return err
}

// HistoryClear deletes every saved search.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	repo, db, err := r.openRepository()
	if err != nil {
		return err
	}
	defer db.Close()

	deleted, err := repo.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	r.writePlain("Deleted %d saved searches\n", deleted)
	return nil
}

// openSearchPage opens the public search URL for the saved search's
// cheapest result.
func (r *Runner) openSearchPage(saved *models.SavedSearch) error {
	flights := saved.Flights()
	if len(flights) == 0 {
		return fmt.Errorf("%w: saved search has no flights to open", shared.ErrInvalidInput)
	}

	date, err := shared.ParseDate(saved.Query().DepartDate)
	if err != nil {
		return err
	}

	url := shared.FlightURL(flights[0].OriginCode, flights[0].DestCode, date)
	r.logger.Info("opening search page", "url", url)
	return shared.OpenBrowser(url)
}

func historyEntry(saved *models.SavedSearch) map[string]any {
	return map[string]any{
		"id":         saved.ID(),
		"created_at": saved.CreatedAt(),
		"query":      saved.Query(),
		"count":      saved.Count(),
	}
}
