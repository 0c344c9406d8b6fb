package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/db"
	"github.com/pohangstory/storyteller/internal/errors"
)

// CollectInput contains parameters for the Collect operation.
type CollectInput struct {
	Trip      string  // default: "default"
	QRPayload string  // required: "pohang-stamp:<place-id>[:<place-name>]"
	Location  *string // optional literal location for album grouping
}

// CollectOutput contains the result of the Collect operation.
type CollectOutput struct {
	StampID     string `json:"stamp_id"`
	ItemID      string `json:"item_id"`
	PlaceID     string `json:"place_id"`
	CollectedAt int64  `json:"collected_at"`
	Synced      bool   `json:"synced"`
}

// Collect parses a QR stamp payload and records the stamp, once per
// (trip, place). A companion content item is stored so the stamp shows
// up in albums. Sync to the server is best-effort: collection succeeds
// locally even when the endpoint is down.
func Collect(ctx context.Context, database *sql.DB, cfg *config.Config, input CollectInput) (*CollectOutput, error) {
	code, err := content.ParseStampCode(input.QRPayload)
	if err != nil {
		return nil, err
	}

	tripRaw, tripNorm, err := normalizeTrip(input.Trip)
	if err != nil {
		return nil, err
	}

	input.Location = cleanOptionalString(input.Location)

	stampID, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	var placeName *string
	if code.PlaceName != "" {
		placeName = &code.PlaceName
	}

	stamp := &content.Stamp{
		ID:          stampID,
		TripRaw:     tripRaw,
		TripNorm:    tripNorm,
		PlaceID:     code.PlaceID,
		PlaceName:   placeName,
		Location:    input.Location,
		CollectedAt: now,
	}

	// Mirror the stamp as a content item so classification sees it.
	title := code.PlaceID
	if placeName != nil {
		title = *placeName
	}
	itemID, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	item := &content.Item{
		ID:        itemID,
		TripRaw:   tripRaw,
		TripNorm:  tripNorm,
		Kind:      content.KindStamp,
		Title:     title,
		Location:  input.Location,
		TakenAt:   &now,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Stamp and mirror item are written atomically.
	if err := db.CollectStamp(database, stamp, item); err != nil {
		return nil, err
	}

	// Best-effort: push this stamp plus any backlog. Failures are logged
	// inside SyncStamps and never fail the collection.
	synced := false
	if cfg.SyncEndpoint != "" {
		synced = SyncStamps(ctx, database, cfg, tripNorm)
	}

	return &CollectOutput{
		StampID:     stampID,
		ItemID:      itemID,
		PlaceID:     code.PlaceID,
		CollectedAt: now,
		Synced:      synced,
	}, nil
}
