package ops

import (
	"database/sql"
	"strings"

	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/db"
	"github.com/pohangstory/storyteller/internal/errors"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Trip           string // default: "default"
	Query          string // required
	Limit          int    // default: 20, max: 100
	Offset         int
	IncludeDeleted bool
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Items      []content.Summary `json:"items"`
	Pagination Pagination        `json:"pagination"`
}

// Search finds items whose title, caption, location, or tags contain
// the query text.
func Search(database *sql.DB, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}

	_, tripNorm, err := normalizeTrip(input.Trip)
	if err != nil {
		return nil, err
	}

	limit := clampLimit(input.Limit, DefaultListLimit, MaxListLimit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	items, total, err := db.SearchItems(database, tripNorm, query, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}
