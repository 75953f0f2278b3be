package main

import (
	"context"
	"fmt"

	"github.com/gzanee/skyscanner/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Export re-exports a saved search to CSV, Markdown, or plain text.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	repo, db, err := r.openRepository()
	if err != nil {
		return err
	}
	defer db.Close()

	saved, err := repo.Get(cmd.String("id"))
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(saved, format, cmd.String("output"))
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	r.writePlain("✓ Exported %d flights to %s\n", saved.Count(), path)
	return nil
}
