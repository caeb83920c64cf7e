// package models defines the data model for the tune harvester
package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/tunesx/internal/shared"
)

// TuneSummary is the minimal record returned by the popular-tunes listing.
//
// It only drives detail lookups and is discarded afterwards.
type TuneSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Setting is one notated version of a tune.
type Setting struct {
	ID  int    `json:"id"`
	ABC string `json:"abc"`
	Key string `json:"key"`
}

// TuneDetail is the full tune payload from the archive, with raw (unfiltered) aliases.
type TuneDetail struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Aliases   []string  `json:"aliases"`
	Tunebooks int       `json:"tunebooks"`
	Settings  []Setting `json:"settings"`
}

// FirstSetting returns the first setting of the tune, or false when it has none.
func (d *TuneDetail) FirstSetting() (Setting, bool) {
	if d == nil || len(d.Settings) == 0 {
		return Setting{}, false
	}
	return d.Settings[0], true
}

// TuneRecord is the unit persisted to the output dataset.
type TuneRecord struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	ABC       string   `json:"abc"`
	Key       string   `json:"key"`
	Tunebooks int      `json:"tunebooks"`
	Aliases   []string `json:"aliases"`
}

// NewTuneRecord assembles a [TuneRecord] from a detail payload and its already filtered aliases.
//
// The id comes from the listing summary, not the detail body.
// ABC and key are taken from the first setting and default to empty strings.
func NewTuneRecord(id int, detail *TuneDetail, aliases []string) TuneRecord {
	if aliases == nil {
		aliases = []string{}
	}

	record := TuneRecord{
		ID:        id,
		Name:      detail.Name,
		Type:      detail.Type,
		Tunebooks: detail.Tunebooks,
		Aliases:   aliases,
	}

	if setting, ok := detail.FirstSetting(); ok {
		record.ABC = setting.ABC
		record.Key = setting.Key
	}
	return record
}

// RunStatus describes where a harvest run ended up.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
	RunFailed    RunStatus = "failed"
)

// Run records a single harvest invocation.
type Run struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	TuneType   string     `json:"tune_type"`
	Target     int        `json:"target"`
	Listed     int        `json:"listed"`
	Saved      int        `json:"saved"`
	Skipped    int        `json:"skipped"`
	Output     string     `json:"output"`
	Status     RunStatus  `json:"status"`
}

// Validate checks the fields required before a run can be stored.
func (r *Run) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: run id is required", shared.ErrInvalidInput)
	}
	if r.Target < 0 {
		return fmt.Errorf("%w: target must not be negative", shared.ErrInvalidInput)
	}
	switch r.Status {
	case RunRunning, RunCompleted, RunCancelled, RunFailed:
	default:
		return fmt.Errorf("%w: unknown run status %q", shared.ErrInvalidInput, r.Status)
	}
	return nil
}
