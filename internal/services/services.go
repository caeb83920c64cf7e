// package services defines interface TuneSource for reading tunes from a remote archive
//
// thesession.org
package services

import (
	"context"

	"github.com/desertthunder/tunesx/internal/models"
)

// TuneSource defines the read operations the harvester needs from a tune archive.
type TuneSource interface {
	// SearchPopular returns one page of tunes ranked by popularity.
	// An empty tuneType searches across all tune types.
	SearchPopular(ctx context.Context, tuneType string, page, perPage int) ([]models.TuneSummary, error)

	// GetTune retrieves the full detail payload of a single tune.
	GetTune(ctx context.Context, id int) (*models.TuneDetail, error)

	// Name returns the name of the archive (e.g., "The Session")
	Name() string
}
