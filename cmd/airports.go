package main

import (
	"context"
	"fmt"

	"github.com/gzanee/skyscanner/internal/shared"
	"github.com/urfave/cli/v3"
)

// Airports looks up airport, city, and country suggestions by name.
func (r *Runner) Airports(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	useJSON := cmd.Bool("json")

	if len([]rune(query)) < 2 {
		return fmt.Errorf("%w: query must be at least 2 characters", shared.ErrInvalidArgument)
	}
	if r.flights == nil {
		return fmt.Errorf("%w: flight service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Debug("looking up airports", "query", query)

	suggestions, err := r.flights.LookupAirports(ctx, query)
	if err != nil {
		return fmt.Errorf("airport lookup failed: %w", err)
	}

	if useJSON {
		return r.writeJSON(suggestions, true)
	}

	if len(suggestions) == 0 {
		r.writePlain("No matches for %q\n", query)
		return nil
	}

	r.writePlainHeader(fmt.Sprintf("Airports matching %q", query))
	for _, s := range suggestions {
		line := fmt.Sprintf("%-6s %s", s.SkyID, s.Title)
		if s.Subtitle != "" {
			line += fmt.Sprintf(" (%s)", s.Subtitle)
		}
		r.writePlain("%s\n", line)
	}

	return nil
}
