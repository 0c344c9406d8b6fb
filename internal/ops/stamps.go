package ops

import (
	"database/sql"

	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/db"
)

// StampsInput contains parameters for the Stamps operation.
type StampsInput struct {
	Trip string // default: "default"
}

// StampsOutput contains the result of the Stamps operation.
type StampsOutput struct {
	Trip   string           `json:"trip"`
	Stamps []*content.Stamp `json:"stamps"`
	Total  int              `json:"total"`
	Synced int              `json:"synced"`
}

// Stamps lists a trip's collected stamps in collection order.
func Stamps(database *sql.DB, input StampsInput) (*StampsOutput, error) {
	tripRaw, tripNorm, err := normalizeTrip(input.Trip)
	if err != nil {
		return nil, err
	}

	stamps, err := db.ListStamps(database, tripNorm)
	if err != nil {
		return nil, err
	}

	total, synced, err := db.StampCounts(database, tripNorm)
	if err != nil {
		return nil, err
	}

	return &StampsOutput{
		Trip:   tripRaw,
		Stamps: stamps,
		Total:  total,
		Synced: synced,
	}, nil
}
