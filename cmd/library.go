package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/comix/internal/formatter"
	"github.com/desertthunder/comix/internal/library"
	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/shared"
	"github.com/urfave/cli/v3"
)

// LibraryList prints the library lists.
func (r *Runner) LibraryList(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireLibrary(ctx); err != nil {
		return err
	}

	statuses := models.Statuses[:]
	if raw := cmd.String("status"); raw != "" {
		status, err := parseStatus(raw)
		if err != nil {
			return err
		}
		statuses = []models.Status{status}
	}

	lists := r.reconciler.Lists()
	if cmd.Bool("json") {
		out := make(map[models.Status][]models.Comic, len(statuses))
		for _, st := range statuses {
			out[st] = lists.Get(st)
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	for _, st := range statuses {
		comics := lists.Get(st)
		r.writePlainHeader(fmt.Sprintf("%s (%d)", st.Label(), len(comics)))
		r.writeComics(comics)
	}
	return nil
}

// LibraryAdd adds a comic to a list.
func (r *Runner) LibraryAdd(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(ctx); err != nil {
		return err
	}

	status, err := parseStatus(cmd.String("status"))
	if err != nil {
		return err
	}

	var id int64
	if raw := cmd.String("id"); raw != "" {
		if id, err = parseID(raw); err != nil {
			return err
		}
	}

	comic := models.Comic{
		ID:       id,
		Title:    strings.TrimSpace(cmd.String("title")),
		Author:   strings.TrimSpace(cmd.String("author")),
		Genre:    cmd.String("genre"),
		Year:     int(cmd.Int("year")),
		CoverURL: cmd.String("cover"),
	}
	if comic.Title == "" {
		return fmt.Errorf("%w: title is required", shared.ErrMissingArgument)
	}

	r.reconciler.AddComic(ctx, status, comic)
	if err := r.takeFailure(); err != nil {
		return err
	}

	if saved := r.reconciler.Get(status); len(saved) > 0 {
		comic = saved[0]
	}
	r.logger.Info("comic added", "id", comic.ID, "status", status)
	return r.writePlain("✓ Added %s to %s (id %d)\n", comic, status.Label(), comic.ID)
}

// LibraryMove moves a comic between lists.
func (r *Runner) LibraryMove(ctx context.Context, cmd *cli.Command) error {
	to, err := parseStatus(cmd.String("to"))
	if err != nil {
		return err
	}
	return r.move(ctx, cmd.StringArg("id"), cmd.String("from"), to)
}

// LibraryTrash moves a comic to the trash.
func (r *Runner) LibraryTrash(ctx context.Context, cmd *cli.Command) error {
	return r.move(ctx, cmd.StringArg("id"), cmd.String("from"), models.Trash)
}

// LibraryRestore moves a trashed comic back to favorites.
func (r *Runner) LibraryRestore(ctx context.Context, cmd *cli.Command) error {
	return r.move(ctx, cmd.StringArg("id"), string(models.Trash), models.Favorite)
}

func (r *Runner) move(ctx context.Context, rawID, rawFrom string, to models.Status) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if _, err := r.requireSession(ctx); err != nil {
		return err
	}

	from, comic, err := r.locate(id, rawFrom)
	if err != nil {
		return err
	}
	if from == to {
		return r.writePlain("%s is already in %s\n", comic, to.Label())
	}

	r.reconciler.MoveComic(ctx, id, from, to)
	if err := r.takeFailure(); err != nil {
		return err
	}

	r.logger.Info("comic moved", "id", id, "from", from, "to", to)
	return r.writePlain("✓ Moved %s from %s to %s\n", comic, from.Label(), to.Label())
}

// LibraryDelete permanently deletes a trashed comic.
func (r *Runner) LibraryDelete(ctx context.Context, cmd *cli.Command) error {
	id, err := parseID(cmd.StringArg("id"))
	if err != nil {
		return err
	}
	if _, err := r.requireSession(ctx); err != nil {
		return err
	}

	_, comic, err := r.locate(id, string(models.Trash))
	if err != nil {
		return err
	}

	r.reconciler.RemoveFromTrash(ctx, id)
	if err := r.takeFailure(); err != nil {
		return err
	}
	return r.writePlain("✓ Deleted %s\n", comic)
}

// LibrarySearch searches the trash on the server.
func (r *Runner) LibrarySearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}
	if _, err := r.requireSession(ctx); err != nil {
		return err
	}

	search := library.NewTrashSearch(ctx, r.library, r.reconciler.Store(), library.SearchOpts{
		Debounce: r.config.Search.Debounce(),
		Logger:   shared.WithLogger(r.logger, "component", "search"),
	})
	defer search.Close()

	search.SetQuery(query)
	search.Submit()

	state := search.State()
	if state.Failed {
		return fmt.Errorf("%w: trash search for %q failed", shared.ErrAPIRequest, query)
	}
	if cmd.Bool("json") {
		return r.writeJSON(state.Results, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Trash matching %q (%d)", query, len(state.Results)))
	r.writeComics(state.Results)
	return nil
}

// LibraryExport writes the library to a file in the chosen format.
func (r *Runner) LibraryExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	var only []models.Status
	for _, raw := range cmd.StringSlice("status") {
		status, err := parseStatus(raw)
		if err != nil {
			return err
		}
		only = append(only, status)
	}

	session, err := r.requireLibrary(ctx)
	if err != nil {
		return err
	}

	export := formatter.NewExport(displayName(session.User), r.reconciler.Lists(), only...)

	path := cmd.String("output")
	switch path {
	case "":
		path = "comix-library" + format.Extension()
	case "-":
		path = ""
	}

	written, err := formatter.WriteExport(export, format, path, r.output)
	if err != nil {
		return err
	}
	if written == "" {
		return nil
	}

	r.logger.Info("library exported", "path", written, "format", format, "comics", export.Total())
	return r.writePlain("✓ Exported %d comics to %s\n", export.Total(), written)
}

// locate finds comic id in rawFrom, or in any list when rawFrom is empty.
func (r *Runner) locate(id int64, rawFrom string) (models.Status, models.Comic, error) {
	key := models.IDKey(id)
	store := r.reconciler.Store()

	from, found := store.Locate(key)
	if rawFrom != "" {
		status, err := parseStatus(rawFrom)
		if err != nil {
			return "", models.Comic{}, err
		}
		from, found = status, true
	}

	if found {
		if comic, ok := store.Find(from, key); ok {
			return from, comic, nil
		}
	}
	if rawFrom != "" {
		return "", models.Comic{}, fmt.Errorf("%w: comic %d is not in %s", shared.ErrComicNotFound, id, from.Label())
	}
	return "", models.Comic{}, fmt.Errorf("%w: comic %d is not in your library", shared.ErrComicNotFound, id)
}

func parseStatus(raw string) (models.Status, error) {
	status, err := models.ParseStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidStatus, err)
	}
	return status, nil
}

func parseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: comic id is required", shared.ErrMissingArgument)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q is not a comic id", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}
