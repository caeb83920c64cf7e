package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunesx/internal/aliases"
	"github.com/desertthunder/tunesx/internal/models"
	"github.com/desertthunder/tunesx/internal/repositories"
	"github.com/desertthunder/tunesx/internal/shared"
	"github.com/desertthunder/tunesx/internal/tasks"
	"github.com/desertthunder/tunesx/internal/ui"
	"github.com/urfave/cli/v3"
)

const tuiLogPath = "./tmp/tunesx-tui.log"

// applyFetchFlags overrides config values with any fetch flags given on the command line.
func applyFetchFlags(config *shared.Config, cmd *cli.Command) error {
	if cmd.IsSet("target") {
		config.Harvest.Target = cmd.Int("target")
	}
	if cmd.IsSet("type") {
		config.Harvest.TuneType = cmd.String("type")
	}
	if cmd.IsSet("delay") {
		config.Harvest.Delay = shared.Duration{Duration: cmd.Duration("delay")}
	}
	if cmd.IsSet("per-page") {
		config.Harvest.PerPage = cmd.Int("per-page")
	}
	if cmd.IsSet("checkpoint-every") {
		config.Harvest.CheckpointEvery = cmd.Int("checkpoint-every")
	}
	if cmd.IsSet("output") {
		config.Harvest.Output = cmd.String("output")
	}
	if cmd.IsSet("threshold") {
		config.Filter.Threshold = cmd.Float("threshold")
	}
	if cmd.IsSet("db") {
		config.Database.Enabled = cmd.Bool("db")
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
	}
	return nil
}

// Fetch harvests the popular tunes and writes the filtered dataset.
//
// An interrupted harvest still writes what it collected and exits cleanly.
func (r *Runner) Fetch(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}
	configCopy := *config
	config = &configCopy
	if err := applyFetchFlags(config, cmd); err != nil {
		return err
	}

	useTUI := cmd.Bool("tui")
	logger := r.logger
	if useTUI {
		fileLogger, f, err := shared.NewFileLogger(tuiLogPath)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		defer f.Close()
		logger = fileLogger
	}

	source := r.tuneSource(config)

	var (
		sink      tasks.RecordSink
		runs      *repositories.RunRepository
		run       *models.Run
		runLogger = shared.WithLogger(logger, "source", source.Name())
	)

	if config.Database.Enabled {
		db, err := r.openDatabase(config)
		if err != nil {
			return err
		}
		defer db.Close()

		runs = repositories.NewRunRepository(db)
		run = &models.Run{
			TuneType: config.Harvest.TuneType,
			Target:   config.Harvest.Target,
			Output:   config.Harvest.Output,
		}
		if err := runs.Create(run); err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		sink = repositories.NewTuneSinkAdapter(repositories.NewTuneRepository(db), run.ID)
		runLogger = shared.WithLogger(runLogger, "run", run.ID)
	}

	harvester := tasks.NewHarvester(tasks.HarvesterOpts{
		Source:       source,
		Filter:       aliases.NewFilterer(config.Filter.Threshold),
		Checkpointer: tasks.NewJSONCheckpointer(config.Harvest.Output),
		Sink:         sink,
		Logger:       runLogger,
		Options:      tasks.HarvestOptsFromConfig(config.Harvest),
	})

	var result *tasks.HarvestResult
	if useTUI {
		result, err = r.harvestTUI(ctx, harvester)
	} else {
		result, err = r.harvestPlain(ctx, harvester)
	}

	if run != nil {
		finishRun(runs, run, result, err, logger)
	}

	if err != nil {
		if isInterrupt(err) && result != nil {
			if result.Checkpoints == 0 {
				r.logger.Warn("harvest interrupted before any tune was saved, dataset left untouched", "output", result.Output)
				return nil
			}
			r.logger.Warn("harvest interrupted, partial dataset written", "saved", result.Saved, "output", result.Output)
			return nil
		}
		return fmt.Errorf("harvest failed: %w", err)
	}
	return nil
}

func (r *Runner) harvestPlain(ctx context.Context, harvester *tasks.Harvester) (*tasks.HarvestResult, error) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.Checkpoint:
				r.writePlain("💾 %s\n", update.Message)
			case tasks.Finished:
				r.writePlain("\n%s\n", update.Message)
			}
		}
	}()

	result, err := harvester.Run(ctx, progressCh)
	close(progressCh)
	<-done

	if result != nil {
		r.writePlain("\n")
		r.writePlainHeader("Harvest Summary")
		r.writePlain("Listed: %d\n", result.Listed)
		r.writePlain("Saved: %d\n", result.Saved)
		r.writePlain("Skipped: %d\n", result.Skipped)
		r.writePlain("Output: %s\n", result.Output)
		r.writePlain("Elapsed: %s\n", result.Elapsed.Round(time.Second))
	}
	return result, err
}

func (r *Runner) harvestTUI(ctx context.Context, harvester *tasks.Harvester) (*tasks.HarvestResult, error) {
	model := ui.NewModel(ctx, harvester)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}
	return model.Wait()
}

// finishRun stores the outcome of a harvest in the run history. Failures are only logged.
func finishRun(runs *repositories.RunRepository, run *models.Run, result *tasks.HarvestResult, err error, logger *log.Logger) {
	switch {
	case err == nil:
		run.Status = models.RunCompleted
	case isInterrupt(err):
		run.Status = models.RunCancelled
	default:
		run.Status = models.RunFailed
	}

	if result != nil {
		run.Listed = result.Listed
		run.Saved = result.Saved
		run.Skipped = result.Skipped
		run.Output = result.Output
	}

	if err := runs.Finish(run); err != nil {
		logger.Warn("failed to record run result", "run", run.ID, "error", err)
	}
}

func isInterrupt(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
