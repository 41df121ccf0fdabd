package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/comix/internal/models"
	"github.com/desertthunder/comix/internal/shared"
	"github.com/urfave/cli/v3"
)

// RecommendChat asks the assistant for comics matching a prompt.
func (r *Runner) RecommendChat(ctx context.Context, cmd *cli.Command) error {
	result, err := r.recommend.Chat(ctx, cmd.StringArg("prompt"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(result, cmd.Bool("pretty")); err != nil {
			return err
		}
		return r.addRecommendation(ctx, cmd, result.Recommendations)
	}

	r.writePlain("%s\n", result.Explanation)
	if len(result.Keywords) > 0 {
		r.writePlain("Keywords: %s\n", strings.Join(result.Keywords, ", "))
	}
	r.writePlain("\n")
	return r.showRecommendations(ctx, cmd, result.Recommendations)
}

// RecommendPopular lists the catalog's popular comics.
func (r *Runner) RecommendPopular(ctx context.Context, cmd *cli.Command) error {
	comics, err := r.recommend.Popular(ctx)
	if err != nil {
		return err
	}
	return r.showRecommendations(ctx, cmd, comics)
}

// RecommendPersonalized lists picks based on the signed-in user's library.
func (r *Runner) RecommendPersonalized(ctx context.Context, cmd *cli.Command) error {
	if _, err := r.requireSession(ctx); err != nil {
		return err
	}

	comics, err := r.recommend.Personalized(ctx)
	if err != nil {
		return err
	}
	return r.showRecommendations(ctx, cmd, comics)
}

func (r *Runner) showRecommendations(ctx context.Context, cmd *cli.Command, comics []models.Comic) error {
	if cmd.Bool("json") {
		if err := r.writeJSON(comics, cmd.Bool("pretty")); err != nil {
			return err
		}
	} else {
		r.writePlainHeader(fmt.Sprintf("Recommendations (%d)", len(comics)))
		r.writeComics(comics)
	}
	return r.addRecommendation(ctx, cmd, comics)
}

// addRecommendation saves the --pick'th comic to the --add list, if --add is set.
func (r *Runner) addRecommendation(ctx context.Context, cmd *cli.Command, comics []models.Comic) error {
	raw := cmd.String("add")
	if raw == "" {
		return nil
	}

	status, err := parseStatus(raw)
	if err != nil {
		return err
	}
	pick := int(cmd.Int("pick"))
	if pick < 1 || pick > len(comics) {
		return fmt.Errorf("%w: --pick must be between 1 and %d", shared.ErrInvalidArgument, len(comics))
	}

	if !r.reconciler.Session().Authenticated() {
		if _, err := r.requireSession(ctx); err != nil {
			return err
		}
	}

	comic := comics[pick-1]
	r.reconciler.AddComic(ctx, status, comic)
	if err := r.takeFailure(); err != nil {
		return err
	}
	return r.writePlain("✓ Added %s to %s\n", comic, status.Label())
}
