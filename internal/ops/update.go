package ops

import (
	"database/sql"
	"strings"

	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/db"
	"github.com/pohangstory/storyteller/internal/errors"
)

// UpdateInput contains parameters for the Update operation.
// Nil editable fields are left unchanged.
type UpdateInput struct {
	ID string // required

	Title           *string
	Caption         *string
	ContentRef      *string
	Location        *string
	TakenAt         *int64
	Tags            *[]string
	Lat             *float64
	Lng             *float64
	DurationSeconds *int
	FileSizeBytes   *int64
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	ID string `json:"id"`
}

// Update modifies an existing item. The item's id, trip, and kind are
// immutable.
func Update(database *sql.DB, cfg *config.Config, input UpdateInput) (*UpdateOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	if input.Title == nil && input.Caption == nil && input.ContentRef == nil &&
		input.Location == nil && input.TakenAt == nil && input.Tags == nil &&
		input.Lat == nil && input.Lng == nil &&
		input.DurationSeconds == nil && input.FileSizeBytes == nil {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	item, err := db.GetItemByID(database, id, false)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.NewInvalidRequest("title must not be empty")
		}
		item.Title = title
	}

	if input.Caption != nil {
		caption := cleanOptionalString(input.Caption)
		if caption != nil {
			if err := content.ValidateCaption(*caption, cfg.CaptionMaxChars); err != nil {
				return nil, err
			}
			item.Caption = caption
			item.CaptionChars = content.CountChars(*caption)
		} else {
			// Empty string clears the caption.
			item.Caption = nil
			item.CaptionChars = 0
		}
	}

	if input.ContentRef != nil {
		item.ContentRef = cleanOptionalString(input.ContentRef)
	}
	if input.Location != nil {
		item.Location = cleanOptionalString(input.Location)
	}
	if input.TakenAt != nil {
		item.TakenAt = input.TakenAt
	}
	if input.Tags != nil {
		item.Tags = *input.Tags
	}

	// Coordinates change together.
	if input.Lat != nil || input.Lng != nil {
		if err := content.ValidateCoordinates(input.Lat, input.Lng); err != nil {
			return nil, err
		}
		item.Lat = input.Lat
		item.Lng = input.Lng
	}

	if input.DurationSeconds != nil {
		if *input.DurationSeconds < 0 {
			return nil, errors.NewInvalidRequest("duration_seconds must not be negative")
		}
		item.DurationSeconds = input.DurationSeconds
	}
	if input.FileSizeBytes != nil {
		item.FileSizeBytes = input.FileSizeBytes
	}

	if err := db.UpdateItemByID(database, item); err != nil {
		return nil, err
	}

	return &UpdateOutput{ID: item.ID}, nil
}
