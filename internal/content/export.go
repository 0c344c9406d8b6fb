package content

// ExportRecord represents an item record in JSONL export format.
// It is also used for parsing export files during import.
type ExportRecord struct {
	// Header detection field - true only for header line
	StorytellerExport bool `json:"_storyteller_export,omitempty"`

	// Header fields (only present in header line)
	SchemaVersion string `json:"schema_version,omitempty"`
	ExportedAt    int64  `json:"exported_at,omitempty"`

	// Item fields
	ID              string   `json:"id"`
	TripRaw         string   `json:"trip_raw"`
	TripNorm        string   `json:"trip_norm"` // IGNORED on import, recomputed
	Kind            string   `json:"kind"`
	Title           string   `json:"title"`
	Caption         *string  `json:"caption"`
	CaptionChars    int      `json:"caption_chars"` // IGNORED on import, recomputed
	ContentRef      *string  `json:"content_ref"`
	Location        *string  `json:"location"`
	TakenAt         *int64   `json:"taken_at"`
	Tags            []string `json:"tags"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	DurationSeconds *int     `json:"duration_seconds"`
	FileSizeBytes   *int64   `json:"file_size_bytes"`
	CreatedAt       int64    `json:"created_at"`
	UpdatedAt       int64    `json:"updated_at"`
	DeletedAt       *int64   `json:"deleted_at"`
}

// ToItem converts an ExportRecord to an Item, recomputing derived fields.
func (r *ExportRecord) ToItem() *Item {
	i := &Item{
		ID:              r.ID,
		TripRaw:         r.TripRaw,
		TripNorm:        Normalize(r.TripRaw), // Recompute
		Kind:            r.Kind,
		Title:           r.Title,
		Caption:         r.Caption,
		ContentRef:      r.ContentRef,
		Location:        r.Location,
		TakenAt:         r.TakenAt,
		Tags:            r.Tags,
		Lat:             r.Lat,
		Lng:             r.Lng,
		DurationSeconds: r.DurationSeconds,
		FileSizeBytes:   r.FileSizeBytes,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
		DeletedAt:       r.DeletedAt,
	}

	if r.Caption != nil {
		i.CaptionChars = CountChars(*r.Caption) // Recompute
	}

	return i
}

// ItemToExportRecord converts an Item to an ExportRecord for export.
func ItemToExportRecord(i *Item) *ExportRecord {
	return &ExportRecord{
		ID:              i.ID,
		TripRaw:         i.TripRaw,
		TripNorm:        i.TripNorm,
		Kind:            i.Kind,
		Title:           i.Title,
		Caption:         i.Caption,
		CaptionChars:    i.CaptionChars,
		ContentRef:      i.ContentRef,
		Location:        i.Location,
		TakenAt:         i.TakenAt,
		Tags:            i.Tags,
		Lat:             i.Lat,
		Lng:             i.Lng,
		DurationSeconds: i.DurationSeconds,
		FileSizeBytes:   i.FileSizeBytes,
		CreatedAt:       i.CreatedAt,
		UpdatedAt:       i.UpdatedAt,
		DeletedAt:       i.DeletedAt,
	}
}
