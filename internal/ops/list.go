package ops

import (
	"database/sql"

	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/db"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Trip           string // default: "default"
	Limit          int    // default: 20, max: 100
	Offset         int
	IncludeDeleted bool
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []content.Summary `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// List returns item summaries for a trip, most recently updated first.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	_, tripNorm, err := normalizeTrip(input.Trip)
	if err != nil {
		return nil, err
	}

	limit := clampLimit(input.Limit, DefaultListLimit, MaxListLimit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	items, total, err := db.ListByTrip(database, tripNorm, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}
