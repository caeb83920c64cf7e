package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tunesx/internal/aliases"
	"github.com/desertthunder/tunesx/internal/models"
	"github.com/desertthunder/tunesx/internal/services"
	"github.com/desertthunder/tunesx/internal/shared"
)

const (
	DefaultTarget          = 1500
	DefaultPerPage         = 50
	DefaultDelay           = time.Second
	DefaultCheckpointEvery = 10
)

// HarvestOpts contains configuration for a harvest run.
type HarvestOpts struct {
	TuneType        string        // Optional tune type filter for the listing (jig, reel, ...)
	Target          int           // Number of popular tunes to collect
	PerPage         int           // Listing page size
	Delay           time.Duration // Pause after every listing page and every detail request
	CheckpointEvery int           // Saved records between checkpoints
}

// HarvestOptsFromConfig maps the [harvest] config section onto [HarvestOpts].
func HarvestOptsFromConfig(c shared.HarvestConfig) HarvestOpts {
	return HarvestOpts{
		TuneType:        c.TuneType,
		Target:          c.Target,
		PerPage:         c.PerPage,
		Delay:           c.Delay.Duration,
		CheckpointEvery: c.CheckpointEvery,
	}
}

// RecordSink receives every saved record in addition to the checkpoint file.
//
// Sink failures are logged and never stop the harvest.
type RecordSink interface {
	SaveRecord(record models.TuneRecord) error
}

// HarvestResult summarizes a harvest run.
type HarvestResult struct {
	Target      int
	Listed      int
	Saved       int
	Skipped     int
	Checkpoints int
	Output      string
	Records     []models.TuneRecord
	Elapsed     time.Duration
}

// Harvester fetches popular tunes and their details, filters aliases and checkpoints the result.
//
// It is strictly sequential: one request in flight, the record collection owned by Run.
type Harvester struct {
	source       services.TuneSource
	filter       *aliases.Filterer
	checkpointer Checkpointer
	sink         RecordSink
	logger       *log.Logger
	opts         HarvestOpts
	sleep        func(ctx context.Context, d time.Duration) error
}

// HarvesterOpts contains the collaborators of a [Harvester].
type HarvesterOpts struct {
	Source       services.TuneSource
	Filter       *aliases.Filterer
	Checkpointer Checkpointer
	Sink         RecordSink
	Logger       *log.Logger
	Options      HarvestOpts
}

// NewHarvester creates a Harvester, filling unset options with defaults.
func NewHarvester(o HarvesterOpts) *Harvester {
	if o.Filter == nil {
		o.Filter = aliases.NewFilterer(aliases.DefaultThreshold)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Options.PerPage <= 0 {
		o.Options.PerPage = DefaultPerPage
	}
	if o.Options.CheckpointEvery <= 0 {
		o.Options.CheckpointEvery = DefaultCheckpointEvery
	}
	if o.Options.Delay < 0 {
		o.Options.Delay = 0
	}

	return &Harvester{
		source:       o.Source,
		filter:       o.Filter,
		checkpointer: o.Checkpointer,
		sink:         o.Sink,
		logger:       o.Logger,
		opts:         o.Options,
		sleep:        sleepContext,
	}
}

// sleepContext pauses for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (h *Harvester) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// FetchPopular collects up to target summaries from the popularity ranking.
//
// Pagination stops at the target, on an empty page, or on the first failed page; a failed
// page is logged and whatever was collected is returned. The only error returned is a
// context error, again alongside the summaries collected so far.
func (h *Harvester) FetchPopular(ctx context.Context, target int, progress chan<- ProgressUpdate) ([]models.TuneSummary, error) {
	var tunes []models.TuneSummary
	if target <= 0 {
		return tunes, nil
	}

	for page := 1; len(tunes) < target; page++ {
		if err := ctx.Err(); err != nil {
			return tunes, err
		}

		h.logger.Info("fetching popular tunes", "page", page, "type", h.opts.TuneType)
		h.sendProgress(progress, listingPageUpdate(page, len(tunes), target))

		batch, err := h.source.SearchPopular(ctx, h.opts.TuneType, page, h.opts.PerPage)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return truncate(tunes, target), ctxErr
			}
			h.logger.Error("error fetching page", "page", page, "error", err)
			break
		}
		if len(batch) == 0 {
			h.logger.Debug("listing exhausted", "page", page)
			break
		}

		tunes = append(tunes, batch...)

		if err := h.sleep(ctx, h.opts.Delay); err != nil {
			return truncate(tunes, target), err
		}
	}

	return truncate(tunes, target), nil
}

func truncate(tunes []models.TuneSummary, target int) []models.TuneSummary {
	if len(tunes) > target {
		return tunes[:target]
	}
	return tunes
}

// FetchDetail retrieves one tune, converting any failure into absence.
func (h *Harvester) FetchDetail(ctx context.Context, id int) (*models.TuneDetail, bool) {
	h.logger.Debug("fetching details", "tune", id)

	detail, err := h.source.GetTune(ctx, id)
	if err != nil {
		h.logger.Error("error fetching tune", "tune", id, "error", err)
		return nil, false
	}
	return detail, true
}

// BuildRecord filters the detail's aliases against its name and assembles the output record.
func (h *Harvester) BuildRecord(id int, detail *models.TuneDetail) models.TuneRecord {
	return models.NewTuneRecord(id, detail, h.filter.Filter(detail.Name, detail.Aliases))
}

// Run performs the full harvest.
//
// Every CheckpointEvery saved records, and once after the loop, the whole collection is written.
// Per-tune failures only drop that tune. Checkpoint failures abort the run. A cancelled context
// stops the loop; the collected records are still written and the context error is returned.
// When nothing was collected before the interrupt, the output file is not touched.
func (h *Harvester) Run(ctx context.Context, progress chan<- ProgressUpdate) (*HarvestResult, error) {
	if h.source == nil {
		return nil, fmt.Errorf("%w: tune source not initialized", shared.ErrInvalidInput)
	}
	if h.checkpointer == nil {
		return nil, fmt.Errorf("%w: checkpointer not initialized", shared.ErrInvalidInput)
	}

	start := time.Now()
	result := &HarvestResult{
		Target: h.opts.Target,
		Output: h.checkpointer.Path(),
	}

	h.logger.Info("fetching top tunes", "target", h.opts.Target, "type", h.opts.TuneType)
	summaries, stopErr := h.FetchPopular(ctx, h.opts.Target, progress)
	result.Listed = len(summaries)

	records := make([]models.TuneRecord, 0, len(summaries))
	total := len(summaries)

	for i, summary := range summaries {
		if stopErr != nil {
			break
		}
		if err := ctx.Err(); err != nil {
			stopErr = err
			break
		}

		h.logger.Info("processing tune", "step", fmt.Sprintf("%d/%d", i+1, total), "name", summary.Name, "id", summary.ID)
		h.sendProgress(progress, processingUpdate(i+1, total, summary))

		if detail, ok := h.FetchDetail(ctx, summary.ID); ok {
			record := h.BuildRecord(summary.ID, detail)
			records = append(records, record)
			result.Saved++
			h.sendProgress(progress, savedUpdate(i+1, total, record))

			if h.sink != nil {
				if err := h.sink.SaveRecord(record); err != nil {
					h.logger.Warn("failed to mirror tune", "tune", record.ID, "error", err)
				}
			}

			if len(records)%h.opts.CheckpointEvery == 0 {
				if err := h.checkpoint(records, result, progress); err != nil {
					return h.finish(result, records, start), err
				}
			}
		} else {
			if err := ctx.Err(); err != nil {
				stopErr = err
				break
			}
			result.Skipped++
			h.sendProgress(progress, skippedUpdate(i+1, total, summary))
		}

		if err := h.sleep(ctx, h.opts.Delay); err != nil {
			stopErr = err
			break
		}
	}

	if len(records) == 0 && isInterrupt(stopErr) {
		h.finish(result, records, start)
		h.logger.Warn("harvest interrupted before any tune was saved, output left untouched", "output", result.Output)
		h.sendProgress(progress, finishedUpdate(result))
		return result, stopErr
	}

	if err := h.checkpoint(records, result, progress); err != nil {
		return h.finish(result, records, start), err
	}

	h.finish(result, records, start)
	h.logger.Info("finished", "saved", result.Saved, "skipped", result.Skipped, "output", result.Output, "elapsed", result.Elapsed.Round(time.Millisecond))
	h.sendProgress(progress, finishedUpdate(result))

	if stopErr != nil {
		if isInterrupt(stopErr) {
			h.logger.Warn("harvest interrupted", "saved", result.Saved)
		}
		return result, stopErr
	}
	return result, nil
}

func isInterrupt(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (h *Harvester) checkpoint(records []models.TuneRecord, result *HarvestResult, progress chan<- ProgressUpdate) error {
	if err := h.checkpointer.Save(records); err != nil {
		h.logger.Error("failed to write checkpoint", "path", h.checkpointer.Path(), "error", err)
		return err
	}
	result.Checkpoints++
	h.logger.Debug("checkpoint written", "path", h.checkpointer.Path(), "tunes", len(records))
	h.sendProgress(progress, checkpointUpdate(len(records), h.checkpointer.Path()))
	return nil
}

func (h *Harvester) finish(result *HarvestResult, records []models.TuneRecord, start time.Time) *HarvestResult {
	result.Records = records
	result.Elapsed = time.Since(start)
	return result
}

// RefilterResult reports how re-running the alias filter changed a dataset.
type RefilterResult struct {
	Records []models.TuneRecord
	Changed int
	Removed int
}

// Refilter re-applies the alias filter to every record of a dataset.
//
// Already filtered data comes back unchanged because filtering is idempotent.
func Refilter(records []models.TuneRecord, f *aliases.Filterer) *RefilterResult {
	if f == nil {
		f = aliases.NewFilterer(aliases.DefaultThreshold)
	}

	result := &RefilterResult{Records: make([]models.TuneRecord, len(records))}
	for i, record := range records {
		filtered := f.Filter(record.Name, record.Aliases)
		if len(filtered) != len(record.Aliases) {
			result.Changed++
			result.Removed += len(record.Aliases) - len(filtered)
		}
		record.Aliases = filtered
		result.Records[i] = record
	}
	return result
}
