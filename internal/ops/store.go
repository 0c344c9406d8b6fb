package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/db"
	"github.com/pohangstory/storyteller/internal/errors"
)

// StoreInput contains parameters for the Store operation.
type StoreInput struct {
	Trip            string // default: "default"
	Kind            string // required: stamp, photo, video, text
	Title           string // required
	Caption         *string
	ContentRef      *string
	Location        *string
	TakenAt         *int64 // Unix timestamp
	Tags            []string
	Lat             *float64
	Lng             *float64
	DurationSeconds *int
	FileSizeBytes   *int64
}

// StoreOutput contains the result of the Store operation.
type StoreOutput struct {
	ID   string `json:"id"`
	Trip string `json:"trip"`
}

// Store creates a new content item.
func Store(ctx context.Context, database *sql.DB, cfg *config.Config, input StoreInput) (*StoreOutput, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	if err := content.ValidateKind(input.Kind); err != nil {
		return nil, err
	}

	tripRaw, tripNorm, err := normalizeTrip(input.Trip)
	if err != nil {
		return nil, err
	}

	input.Caption = cleanOptionalString(input.Caption)
	input.ContentRef = cleanOptionalString(input.ContentRef)
	input.Location = cleanOptionalString(input.Location)

	captionChars := 0
	if input.Caption != nil {
		if err := content.ValidateCaption(*input.Caption, cfg.CaptionMaxChars); err != nil {
			return nil, err
		}
		captionChars = content.CountChars(*input.Caption)
	}

	if err := content.ValidateCoordinates(input.Lat, input.Lng); err != nil {
		return nil, err
	}
	if input.DurationSeconds != nil && *input.DurationSeconds < 0 {
		return nil, errors.NewInvalidRequest("duration_seconds must not be negative")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	item := &content.Item{
		ID:              id,
		TripRaw:         tripRaw,
		TripNorm:        tripNorm,
		Kind:            input.Kind,
		Title:           strings.TrimSpace(input.Title),
		Caption:         input.Caption,
		CaptionChars:    captionChars,
		ContentRef:      input.ContentRef,
		Location:        input.Location,
		TakenAt:         input.TakenAt,
		Tags:            input.Tags,
		Lat:             input.Lat,
		Lng:             input.Lng,
		DurationSeconds: input.DurationSeconds,
		FileSizeBytes:   input.FileSizeBytes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := db.InsertItem(database, item); err != nil {
		return nil, err
	}

	return &StoreOutput{ID: id, Trip: tripRaw}, nil
}
