package content

import (
	"strings"

	"github.com/pohangstory/storyteller/internal/errors"
)

// Stamp represents a QR stamp collected at a physical location.
// At most one stamp exists per (trip, place) pair.
type Stamp struct {
	// ID is a ULID that uniquely identifies this stamp
	ID string

	// TripRaw is the original trip string as provided by the user
	TripRaw string

	// TripNorm is the normalized trip
	TripNorm string

	// PlaceID identifies the physical location, taken from the QR payload
	PlaceID string

	// PlaceName is the human-readable place name (nullable)
	PlaceName *string

	// Location is the literal place string used for album grouping (nullable)
	Location *string

	// CollectedAt is the Unix timestamp of collection
	CollectedAt int64

	// Synced reports whether the best-effort server sync has succeeded
	Synced bool

	// SyncedAt is the Unix timestamp of the successful sync (nullable)
	SyncedAt *int64
}

// stampScheme is the QR payload prefix printed at stamp locations.
const stampScheme = "pohang-stamp:"

// StampCode is a parsed QR stamp payload.
type StampCode struct {
	PlaceID   string
	PlaceName string // optional second segment
}

// ParseStampCode parses a QR payload of the form
// "pohang-stamp:<place-id>" or "pohang-stamp:<place-id>:<place-name>".
// Place ids are trimmed; empty ids are invalid.
func ParseStampCode(payload string) (*StampCode, error) {
	raw := strings.TrimSpace(payload)
	if !strings.HasPrefix(raw, stampScheme) {
		return nil, errors.NewInvalidRequest("stamp code must start with pohang-stamp:")
	}

	rest := strings.TrimPrefix(raw, stampScheme)
	placeID, placeName, _ := strings.Cut(rest, ":")
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, errors.NewInvalidRequest("stamp code is missing a place id")
	}

	return &StampCode{
		PlaceID:   placeID,
		PlaceName: strings.TrimSpace(placeName),
	}, nil
}
