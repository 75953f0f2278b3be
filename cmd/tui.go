package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gzanee/skyscanner/internal/models"
	"github.com/gzanee/skyscanner/internal/search"
	"github.com/gzanee/skyscanner/internal/shared"
	"github.com/gzanee/skyscanner/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive search client.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.flights == nil {
		return fmt.Errorf("%w: flight service not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := r.config.Logging.TUILogPath
	if logPath == "" {
		logPath = "./tmp/skyscan-tui.log"
	}
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	var save func(*models.SavedSearch) (string, error)
	if r.config.Storage.Path != "" {
		repo, db, err := r.openRepository()
		if err != nil {
			fileLogger.Warn("history unavailable", "error", err)
		} else {
			defer db.Close()
			save = func(saved *models.SavedSearch) (string, error) {
				if err := repo.Create(saved); err != nil {
					return "", err
				}
				return saved.ID(), nil
			}
		}
	}

	session := search.NewSession(fileLogger)
	model := ui.NewModel(ctx, r.flights, session, ui.Options{
		Defaults: r.config.Defaults,
		Debounce: time.Duration(r.config.UI.DebounceMs) * time.Millisecond,
		HourStep: r.config.UI.HourStep,
		Logger:   fileLogger,
		Save:     save,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
