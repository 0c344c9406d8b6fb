package content

import (
	"time"

	"github.com/pohangstory/storyteller/internal/album"
)

// Item represents a stored piece of travel content: a QR stamp, photo,
// video, or text note collected during a trip.
type Item struct {
	// ID is a ULID that uniquely identifies this item
	ID string

	// TripRaw is the original trip string as provided by the user
	TripRaw string

	// TripNorm is the normalized trip (lowercased, trimmed, collapsed spaces)
	TripNorm string

	// Kind is the content type: stamp, photo, video, or text
	Kind string

	// Title is a human-readable label; classification matches keywords against it
	Title string

	// Caption is an optional markdown note attached to the item (nullable)
	Caption *string

	// CaptionChars is the caption character count (runes, not bytes)
	CaptionChars int

	// ContentRef is an opaque URL/locator for the underlying media (nullable)
	ContentRef *string

	// Location is the literal place string used for location grouping (nullable)
	Location *string

	// TakenAt is the Unix timestamp when the content was captured (nullable)
	TakenAt *int64

	// Tags is a list of free-text labels (stored as JSON in DB)
	Tags []string

	// Lat/Lng are optional coordinates (both nullable, set together)
	Lat *float64
	Lng *float64

	// DurationSeconds is the length of video content (nullable)
	DurationSeconds *int

	// FileSizeBytes is the stored size of the content (nullable)
	FileSizeBytes *int64

	// CreatedAt is the Unix timestamp when the item was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the item was last updated
	UpdatedAt int64

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64
}

// Valid item kinds.
const (
	KindStamp = "stamp"
	KindPhoto = "photo"
	KindVideo = "video"
	KindText  = "text"
)

// Kinds lists the valid item kinds.
var Kinds = []string{KindStamp, KindPhoto, KindVideo, KindText}

// ValidKind reports whether kind is a member of the closed kind set.
func ValidKind(kind string) bool {
	for _, k := range Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// ToAlbumItem converts a stored item into the classifier's input shape.
// Taken-at timestamps convert to time.Time in UTC; the classifier
// re-buckets them in its own location.
func (i *Item) ToAlbumItem() album.Item {
	out := album.Item{
		ID:    i.ID,
		Kind:  album.Kind(i.Kind),
		Title: i.Title,
	}
	if i.ContentRef != nil {
		out.ContentRef = *i.ContentRef
	}
	if i.Location != nil {
		out.Metadata.Location = *i.Location
	}
	if i.TakenAt != nil {
		t := time.Unix(*i.TakenAt, 0).UTC()
		out.Metadata.Timestamp = &t
	}
	out.Metadata.Tags = i.Tags
	if i.Lat != nil && i.Lng != nil {
		out.Metadata.Coordinates = &album.Coordinates{Lat: *i.Lat, Lng: *i.Lng}
	}
	if i.DurationSeconds != nil {
		out.Metadata.DurationSeconds = *i.DurationSeconds
	}
	if i.FileSizeBytes != nil {
		out.Metadata.FileSizeBytes = *i.FileSizeBytes
	}
	return out
}

// ToAlbumItems converts a batch of stored items.
func ToAlbumItems(items []*Item) []album.Item {
	out := make([]album.Item, 0, len(items))
	for _, i := range items {
		out = append(out, i.ToAlbumItem())
	}
	return out
}
