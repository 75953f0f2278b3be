package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gzanee/skyscanner/internal/formatter"
	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/search"
	"github.com/gzanee/skyscanner/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search runs a flight search from flags: a single request by default,
// the incremental stream with live progress under --stream.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if r.flights == nil {
		return fmt.Errorf("%w: flight service not initialized", shared.ErrServiceUnavailable)
	}

	query, err := r.searchQueryFromFlags(cmd)
	if err != nil {
		return err
	}

	var saved *models.SavedSearch
	if cmd.Bool("stream") {
		saved, err = r.runStreamSearch(ctx, query)
	} else {
		saved, err = r.runSearch(ctx, query)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("save") {
		repo, db, err := r.openRepository()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := repo.Create(saved); err != nil {
			return fmt.Errorf("failed to save search: %w", err)
		}
		r.logger.Info("search saved", "id", saved.ID())
	}

	if name := cmd.String("export"); name != "" {
		format, err := formatter.ParseFormat(name)
		if err != nil {
			return err
		}
		path, err := formatter.WriteExport(saved, format, cmd.String("output"))
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		r.logger.Info("results exported", "path", path)
	}

	return r.printSearch(cmd, saved)
}

// runSearch performs the one-shot request, bounded by the configured
// timeout.
func (r *Runner) runSearch(ctx context.Context, query models.SearchQuery) (*models.SavedSearch, error) {
	if seconds := r.config.API.TimeoutSeconds; seconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
		defer cancel()
	}

	r.logger.Info("searching", "route", query.RouteSummary())

	result, err := r.flights.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSearchFailed, err)
	}

	search.SortFlights(result.Flights, query.Sort)
	return models.NewSavedSearch(query, result.Flights, result.Stats, result.Count), nil
}

// runStreamSearch consumes the incremental stream inline, logging
// progress as it arrives. Partial results survive an early end of
// stream.
func (r *Runner) runStreamSearch(ctx context.Context, query models.SearchQuery) (*models.SavedSearch, error) {
	session := search.NewSession(r.logger)
	runCtx, gen := session.Start(ctx, query)

	s, err := r.flights.SearchStream(runCtx, query)
	if err != nil {
		session.Fail(gen, err)
		return nil, fmt.Errorf("%w: %v", shared.ErrSearchFailed, err)
	}
	defer s.Close()

	var lastMessage string
	err = session.Consume(gen, s.Events(), func(status search.Status) {
		if status.Message == "" || status.Message == lastMessage {
			return
		}
		lastMessage = status.Message
		if status.Total > 0 {
			r.logger.Info(status.Message, "progress", fmt.Sprintf("%d/%d", status.Current, status.Total), "found", status.Found)
		} else {
			r.logger.Info(status.Message)
		}
	})
	if errors.Is(err, shared.ErrStreamEnded) {
		r.logger.Warn("stream ended before completion, showing partial results")
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSearchFailed, err)
	}

	return session.Snapshot(), nil
}

// searchQueryFromFlags assembles and validates the query.
func (r *Runner) searchQueryFromFlags(cmd *cli.Command) (models.SearchQuery, error) {
	sortKey, err := models.ParseSortKey(cmd.String("sort"))
	if err != nil {
		return models.SearchQuery{}, err
	}

	maxPrice := cmd.Float("max-price")
	if maxPrice == 0 {
		maxPrice = r.config.Defaults.MaxPrice
	}

	query := models.SearchQuery{
		Origins:        cmd.StringSlice("from"),
		Destinations:   cmd.StringSlice("to"),
		Everywhere:     cmd.Bool("everywhere"),
		DepartDate:     cmd.String("date"),
		MaxPrice:       maxPrice,
		MinHour:        int(cmd.Int("min-hour")),
		MaxHour:        int(cmd.Int("max-hour")),
		MinArrivalHour: int(cmd.Int("min-arrival-hour")),
		MaxArrivalHour: int(cmd.Int("max-arrival-hour")),
		DirectOnly:     cmd.Bool("direct"),
		SameDay:        cmd.Bool("same-day"),
		Sort:           sortKey,
		TripType:       models.TripOneWay,
	}

	if returnDate := cmd.String("return-date"); returnDate != "" {
		query.TripType = models.TripRoundTrip
		query.ReturnDate = returnDate
		query.ReturnMaxHour = 24
		query.ReturnMaxArrivalHour = 24
	}

	if err := query.Validate(); err != nil {
		return models.SearchQuery{}, err
	}
	return query, nil
}

// printSearch renders the results as JSON or the plain text listing.
func (r *Runner) printSearch(cmd *cli.Command, saved *models.SavedSearch) error {
	flights := saved.Flights()
	if limit := int(cmd.Int("limit")); limit > 0 && limit < len(flights) {
		saved = models.NewSavedSearch(saved.Query(), flights[:limit], saved.Stats(), saved.Count())
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"query":   saved.Query(),
			"flights": saved.Flights(),
			"stats":   saved.Stats(),
			"count":   saved.Count(),
		}, true)
	}

	text, err := formatter.Render(saved, formatter.FormatText)
	if err != nil {
		return err
	}
	_, err = r.output.Write(text)
	return err
}
