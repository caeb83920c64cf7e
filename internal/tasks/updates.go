package tasks

import (
	"fmt"

	"github.com/desertthunder/tunesx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchListing Phase = iota
	FetchDetails
	Checkpoint
	Finished
)

func (p Phase) String() string {
	switch p {
	case FetchListing:
		return "fetch_listing"
	case FetchDetails:
		return "fetch_details"
	case Checkpoint:
		return "checkpoint"
	case Finished:
		return "finished"
	default:
		return ""
	}
}

func listingPageUpdate(page, collected, target int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchListing,
		Step:    collected,
		Total:   target,
		Message: fmt.Sprintf("Fetching popular tunes - page %d...", page),
	}
}

func processingUpdate(step, total int, summary models.TuneSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Processing tune: %s (ID: %d)", step, total, summary.Name, summary.ID),
	}
}

func savedUpdate(step, total int, record models.TuneRecord) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d aliases)", step, total, record.Name, len(record.Aliases)),
		Data:    record,
	}
}

func skippedUpdate(step, total int, summary models.TuneSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchDetails,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s (ID: %d) skipped", step, total, summary.Name, summary.ID),
	}
}

func checkpointUpdate(saved int, path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Checkpoint,
		Step:    saved,
		Total:   saved,
		Message: fmt.Sprintf("Saved %d tunes to %s", saved, path),
	}
}

func finishedUpdate(result *HarvestResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Finished,
		Step:    result.Saved,
		Total:   result.Listed,
		Message: fmt.Sprintf("Finished! Total tunes fetched: %d", result.Saved),
		Data:    result,
	}
}
