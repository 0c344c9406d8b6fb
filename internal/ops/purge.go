package ops

import (
	"database/sql"

	"github.com/pohangstory/storyteller/internal/db"
	"github.com/pohangstory/storyteller/internal/errors"
)

// PurgeInput contains parameters for the Purge operation.
type PurgeInput struct {
	Trip          *string // optional: restrict to one trip
	OlderThanDays *int    // optional: only purge items deleted at least N days ago
}

// PurgeOutput contains the result of the Purge operation.
type PurgeOutput struct {
	Purged int `json:"purged"`
}

// Purge permanently removes soft-deleted items.
func Purge(database *sql.DB, input PurgeInput) (*PurgeOutput, error) {
	input.Trip = cleanOptionalString(input.Trip)
	if input.OlderThanDays != nil && *input.OlderThanDays < 0 {
		return nil, errors.NewInvalidRequest("older_than_days must not be negative")
	}

	purged, err := db.PurgeItems(database, input.Trip, input.OlderThanDays)
	if err != nil {
		return nil, err
	}

	return &PurgeOutput{Purged: purged}, nil
}
