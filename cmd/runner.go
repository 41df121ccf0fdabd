package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/comix/internal/library"
	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/repositories"
	"github.com/desertthunder/comix/internal/services"
	"github.com/desertthunder/comix/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer

	client     *services.Client
	auth       *services.AuthService
	library    *services.LibraryService
	recommend  *services.RecommendationService
	sessions   *repositories.SessionRepository
	reconciler *library.Reconciler

	mu       sync.Mutex
	failures []library.Failure
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	HTTPClient *http.Client
	// DB stores the sign-in session. Nil disables session persistence.
	DB *sql.DB
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	client := services.NewClient(services.ClientOpts{
		BaseURL:           opts.Config.Server.BaseURL,
		Timeout:           opts.Config.Server.Timeout(),
		RequestsPerSecond: opts.Config.Server.RequestsPerSecond,
		HTTPClient:        opts.HTTPClient,
		Logger:            shared.WithLogger(opts.Logger, "component", "api"),
	})

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		client:     client,
		auth:       services.NewAuthService(client),
		library:    services.NewLibraryService(client),
		recommend:  services.NewRecommendationService(client),
	}
	if opts.DB != nil {
		r.sessions = repositories.NewSessionRepository(opts.DB)
	}
	r.reconciler = library.NewReconciler(r.library,
		library.WithLogger(shared.WithLogger(opts.Logger, "component", "library")),
		library.WithFailureHook(r.recordFailure),
	)
	return r
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, libraryCommand, recommendCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// restoreSession loads the stored session, authenticates the client and binds the library to it.
//
// Binding a session loads all four lists.
func (r *Runner) restoreSession(ctx context.Context) (*repositories.StoredSession, error) {
	if r.sessions == nil {
		return nil, fmt.Errorf("%w: session storage is not available", shared.ErrNoSession)
	}

	session, err := r.sessions.Restore()
	if err != nil {
		return nil, err
	}

	r.client.SetToken(session.Token)
	r.reconciler.Bind(ctx, library.Session{Token: session.Token, Ready: true})
	return session, nil
}

// requireSession is [Runner.restoreSession] for commands that cannot run signed out.
//
// Lists that failed to load stay empty; the failures are logged and dropped.
func (r *Runner) requireSession(ctx context.Context) (*repositories.StoredSession, error) {
	session, err := r.restoreSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}
	if failure := r.takeFailure(); failure != nil {
		r.logger.Warn("library partially loaded", "error", failure)
	}
	return session, nil
}

// requireLibrary is [Runner.requireSession] for commands that show the whole library,
// where a list that failed to load is an error.
func (r *Runner) requireLibrary(ctx context.Context) (*repositories.StoredSession, error) {
	session, err := r.restoreSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
	}
	if failure := r.takeFailure(); failure != nil {
		return nil, failure
	}
	return session, nil
}

func (r *Runner) recordFailure(f library.Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
}

// takeFailure returns the first failure recorded since the last call, or nil.
func (r *Runner) takeFailure() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.failures) == 0 {
		return nil
	}
	first := r.failures[0]
	r.failures = nil
	return first
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeComics prints a numbered comic list.
func (r *Runner) writeComics(comics []models.Comic) {
	if len(comics) == 0 {
		r.writePlain("  (empty)\n")
		return
	}
	for i, c := range comics {
		id := "-"
		if c.Persisted() {
			id = fmt.Sprint(c.ID)
		}
		r.writePlain("%3d. [%s] %s\n", i+1, id, c)
	}
}
