package ops

import (
	"database/sql"
	"strings"

	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/db"
	"github.com/pohangstory/storyteller/internal/errors"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string // required
	IncludeDeleted bool
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	Item *content.Item `json:"item"`
}

// Fetch retrieves a single item by id.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	item, err := db.GetItemByID(database, id, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	return &FetchOutput{Item: item}, nil
}
