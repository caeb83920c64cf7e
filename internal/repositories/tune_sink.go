package repositories

import (
	"fmt"

	"github.com/desertthunder/tunesx/internal/models"
)

// TuneSinkAdapter implements tasks.RecordSink using TuneRepository.
//
// Every record saved by a harvest is upserted and tagged with the run id.
type TuneSinkAdapter struct {
	repo  *TuneRepository
	runID string
}

// NewTuneSinkAdapter creates a new TuneSinkAdapter for the given run
func NewTuneSinkAdapter(repo *TuneRepository, runID string) *TuneSinkAdapter {
	return &TuneSinkAdapter{repo: repo, runID: runID}
}

// SaveRecord mirrors one harvested record into the database.
func (a *TuneSinkAdapter) SaveRecord(record models.TuneRecord) error {
	if err := a.repo.Upsert(record, a.runID); err != nil {
		return fmt.Errorf("failed to mirror tune %d: %w", record.ID, err)
	}
	return nil
}
