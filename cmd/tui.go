package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/comix/internal/library"
	"github.com/desertthunder/comix/internal/shared"
	"github.com/desertthunder/comix/internal/ui"
	"github.com/urfave/cli/v3"
)

const defaultTUILog = "./tmp/comix-tui.log"

// TUI launches the interactive library board.
//
// Without a usable stored session the board runs signed out and keeps the library in memory.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	logPath := r.config.Logging.File
	if logPath == "" {
		logPath = defaultTUILog
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLogLevel(r.config.Logging.Level))
	r.SetLogger(fileLogger)

	events := ui.NewEvents()
	reconciler := library.NewReconciler(r.library,
		library.WithLogger(shared.WithLogger(fileLogger, "component", "library")),
		library.WithFailureHook(events.Failure),
	)

	session := library.Session{Ready: true}
	user := ""
	if r.sessions != nil {
		stored, err := r.sessions.Restore()
		switch {
		case err == nil:
			r.client.SetToken(stored.Token)
			session.Token = stored.Token
			user = displayName(stored.User)
		case errors.Is(err, shared.ErrNoSession):
			fileLogger.Info("no stored session, running signed out")
		default:
			fileLogger.Warn("discarded stored session", "error", err)
		}
	}
	reconciler.Bind(ctx, session)

	search := library.NewTrashSearch(ctx, r.library, reconciler.Store(), library.SearchOpts{
		Debounce: r.config.Search.Debounce(),
		Logger:   shared.WithLogger(fileLogger, "component", "search"),
	})

	model := ui.NewModel(ctx, ui.Deps{
		Reconciler:  reconciler,
		Search:      search,
		Recommender: r.recommend,
		Events:      events,
		User:        user,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
