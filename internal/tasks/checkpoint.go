package tasks

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/desertthunder/tunesx/internal/models"
	"github.com/desertthunder/tunesx/internal/shared"
)

// Checkpointer persists the whole record collection, replacing any previous write.
type Checkpointer interface {
	Save(records []models.TuneRecord) error
	Path() string
}

// JSONCheckpointer writes the dataset as a 4-space indented JSON array.
//
// Each save atomically replaces the file so a crash mid-write leaves the previous checkpoint intact.
type JSONCheckpointer struct {
	path string
}

// NewJSONCheckpointer creates a checkpointer for the file at path.
func NewJSONCheckpointer(path string) *JSONCheckpointer {
	return &JSONCheckpointer{path: path}
}

// Path returns the output file path.
func (c *JSONCheckpointer) Path() string {
	return c.path
}

// Save serializes records and replaces the output file.
func (c *JSONCheckpointer) Save(records []models.TuneRecord) error {
	if records == nil {
		records = []models.TuneRecord{}
	}

	data, err := shared.MarshalJSON(records, true)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal records: %v", shared.ErrCheckpoint, err)
	}

	if err := shared.WriteFileAtomic(c.path, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrCheckpoint, err)
	}
	return nil
}

// LoadRecords reads a dataset previously written by a [JSONCheckpointer].
func LoadRecords(path string) ([]models.TuneRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var records []models.TuneRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: dataset %s: %v", shared.ErrDecode, path, err)
	}

	for i := range records {
		if records[i].Aliases == nil {
			records[i].Aliases = []string{}
		}
	}
	return records, nil
}

var _ Checkpointer = (*JSONCheckpointer)(nil)
