package content

// Summary represents an item's metadata without the caption text.
// Used for browse operations (list, search) to reduce data transfer.
type Summary struct {
	// ID is a ULID that uniquely identifies this item
	ID string `json:"id"`

	// Trip is the original trip string as provided by the user
	Trip string `json:"trip"`

	// TripNorm is the normalized trip
	TripNorm string `json:"trip_norm"`

	// Kind is the content type
	Kind string `json:"kind"`

	// Title is the display label
	Title string `json:"title"`

	// CaptionChars is the caption character count (runes, not bytes)
	CaptionChars int `json:"caption_chars"`

	// ContentRef is the opaque media locator (nullable)
	ContentRef *string `json:"content_ref,omitempty"`

	// Location is the literal place string (nullable)
	Location *string `json:"location,omitempty"`

	// TakenAt is the capture Unix timestamp (nullable)
	TakenAt *int64 `json:"taken_at,omitempty"`

	// Tags is a list of free-text labels
	Tags []string `json:"tags,omitempty"`

	// CreatedAt is the Unix timestamp when the item was created
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp when the item was last updated
	UpdatedAt int64 `json:"updated_at"`

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// ToSummary converts an Item to a Summary by stripping the caption.
func (i *Item) ToSummary() Summary {
	return Summary{
		ID:           i.ID,
		Trip:         i.TripRaw,
		TripNorm:     i.TripNorm,
		Kind:         i.Kind,
		Title:        i.Title,
		CaptionChars: i.CaptionChars,
		ContentRef:   i.ContentRef,
		Location:     i.Location,
		TakenAt:      i.TakenAt,
		Tags:         i.Tags,
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
		DeletedAt:    i.DeletedAt,
	}
}
