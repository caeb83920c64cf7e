package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/tunesx/internal/repositories"
	"github.com/desertthunder/tunesx/internal/shared"
	"github.com/urfave/cli/v3"
)

// RunsList prints the harvest run history stored in the database.
func (r *Runner) RunsList(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := repositories.NewRunRepository(db).List(cmd.Int("limit"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(runs, cmd.Bool("pretty"))
	}

	if len(runs) == 0 {
		return r.writePlain("No runs recorded in %s\n", config.Database.Path)
	}

	r.writePlainHeader(fmt.Sprintf("Runs (%d)", len(runs)))
	for _, run := range runs {
		finished := "-"
		if run.FinishedAt != nil {
			finished = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
		}
		tuneType := run.TuneType
		if tuneType == "" {
			tuneType = "all"
		}
		r.writePlain("%s  %s  %-9s type=%s saved=%d/%d skipped=%d took=%s\n",
			run.ID[:min(8, len(run.ID))],
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Status,
			tuneType,
			run.Saved,
			run.Target,
			run.Skipped,
			finished,
		)
	}
	return nil
}

// TunesShow prints a single tune from the database.
func (r *Runner) TunesShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.IntArg("id")
	if id <= 0 {
		return fmt.Errorf("%w: tune id must be a positive number", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	tune, err := repositories.NewTuneRepository(db).Get(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tune, cmd.Bool("pretty"))
	}

	r.writePlainHeader(tune.Name)
	r.writePlain("ID: %d\n", tune.ID)
	r.writePlain("Type: %s\n", tune.Type)
	r.writePlain("Key: %s\n", tune.Key)
	r.writePlain("Tunebooks: %d\n", tune.Tunebooks)
	if len(tune.Aliases) > 0 {
		r.writePlain("Aliases: %s\n", strings.Join(tune.Aliases, ", "))
	}
	if tune.ABC != "" {
		r.writePlainln("%s", tune.ABC)
	}
	return nil
}

// TunesList prints stored tunes ordered by popularity.
func (r *Runner) TunesList(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repositories.NewTuneRepository(db)
	tunes, err := repo.List(repositories.TuneCriteria{Type: cmd.String("type"), Limit: cmd.Int("limit")})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tunes, cmd.Bool("pretty"))
	}

	total, err := repo.Count()
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("Tunes (%d of %d)", len(tunes), total))
	for i, tune := range tunes {
		r.writePlain("%3d. %-40s %-10s %5d tunebooks  #%d\n", i+1, tune.Name, tune.Type, tune.Tunebooks, tune.ID)
	}
	return nil
}
