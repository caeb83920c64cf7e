package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tunesx/internal/formatter"
	"github.com/desertthunder/tunesx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export renders a harvested dataset to CSV, Markdown or plain text.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	config, err := r.loadConfig(cmd)
	if err != nil {
		return err
	}

	input := cmd.String("input")
	if input == "" {
		input = config.Harvest.Output
	}

	records, err := tasks.LoadRecords(input)
	if err != nil {
		return err
	}

	r.logger.Info("exporting dataset", "input", input, "format", format, "tunes", len(records))

	path, err := formatter.WriteExport(records, format, cmd.String("output"), input)
	if err != nil {
		return fmt.Errorf("failed to export dataset: %w", err)
	}

	r.writePlain("✓ Exported %d tunes to %s\n", len(records), path)
	return nil
}
