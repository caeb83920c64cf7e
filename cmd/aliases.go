package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tunesx/internal/aliases"
	"github.com/desertthunder/tunesx/internal/formatter"
	"github.com/desertthunder/tunesx/internal/shared"
	"github.com/desertthunder/tunesx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// filterer builds an alias filter from --threshold or the [filter] config section.
func filterer(config *shared.Config, cmd *cli.Command) *aliases.Filterer {
	threshold := config.Filter.Threshold
	if cmd.IsSet("threshold") {
		threshold = cmd.Float("threshold")
	}
	return aliases.NewFilterer(threshold)
}

// AliasesCheck runs the alias filter on the given name and aliases and prints every decision.
func (r *Runner) AliasesCheck(ctx context.Context, cmd *cli.Command) error {
	name := cmd.String("name")
	candidates := cmd.StringArgs("aliases")
	if len(candidates) == 0 {
		return fmt.Errorf("%w: at least one alias is required", shared.ErrMissingArgument)
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	decisions := filterer(config, cmd).Explain(name, candidates)
	r.logger.Debug("checked aliases", "name", name, "count", len(decisions))

	if cmd.Bool("json") {
		return r.writeJSON(decisions, cmd.Bool("pretty"))
	}
	return r.writePlain("%s", formatter.FormatDecisions(name, decisions))
}

// AliasesRefilter re-applies the alias filter to an existing dataset.
//
// Input defaults to the configured output file and is rewritten in place unless --output is given.
func (r *Runner) AliasesRefilter(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	input := cmd.String("input")
	if input == "" {
		input = config.Harvest.Output
	}
	output := cmd.String("output")
	if output == "" {
		output = input
	}

	records, err := tasks.LoadRecords(input)
	if err != nil {
		return err
	}

	r.logger.Info("refiltering aliases", "input", input, "tunes", len(records))
	result := tasks.Refilter(records, filterer(config, cmd))

	if err := tasks.NewJSONCheckpointer(output).Save(result.Records); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}

	r.writePlain("✓ Refiltered %d tunes\n", len(result.Records))
	r.writePlain("  Changed: %d tunes\n", result.Changed)
	r.writePlain("  Removed: %d aliases\n", result.Removed)
	r.writePlain("  Output: %s\n", output)
	return nil
}
