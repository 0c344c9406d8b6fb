// Package album groups travel content items into themed albums.
// Every strategy is a pure function of its input slice plus the
// classifier's injected clock and lookup tables: no I/O, no mutation
// of inputs, and no error paths. Missing metadata routes an item to a
// documented default bucket instead of failing.
package album

import "time"

// Theme is one of the five fixed content categories.
type Theme string

const (
	ThemeNature  Theme = "nature"
	ThemeHistory Theme = "history"
	ThemeFood    Theme = "food"
	ThemeCulture Theme = "culture"
	ThemeGeneral Theme = "general"
)

// Kind identifies the type of a content item.
type Kind string

const (
	KindStamp Kind = "stamp"
	KindPhoto Kind = "photo"
	KindVideo Kind = "video"
	KindText  Kind = "text"
)

// Coordinates is a latitude/longitude pair. Carried through for callers;
// no strategy interprets it.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Metadata is the optional bag of item attributes the strategies read.
type Metadata struct {
	// Location is a literal place string. Empty means unknown.
	Location string `json:"location,omitempty"`

	// Timestamp is when the content was captured (nil if unknown).
	Timestamp *time.Time `json:"timestamp,omitempty"`

	// Tags are free-text labels attached by the user.
	Tags []string `json:"tags,omitempty"`

	// Coordinates is an optional lat/lng pair.
	Coordinates *Coordinates `json:"coordinates,omitempty"`

	// DurationSeconds is the length of video content.
	DurationSeconds int `json:"duration_seconds,omitempty"`

	// FileSizeBytes is the stored size of the content.
	FileSizeBytes int64 `json:"file_size_bytes,omitempty"`
}

// Item is a single piece of user content to be classified.
// Items are only read; a classified item is shared between the caller's
// slice and any albums that reference it.
type Item struct {
	// ID is an externally assigned, immutable identifier.
	ID string `json:"id"`

	// Kind is the content type (stamp, photo, video, text).
	Kind Kind `json:"kind"`

	// Title is a free-text label; some strategies match keywords against it.
	Title string `json:"title"`

	// ContentRef is an opaque URL or locator, never interpreted here.
	ContentRef string `json:"content_ref,omitempty"`

	// Metadata holds the optional classification attributes.
	Metadata Metadata `json:"metadata,omitempty"`
}

// Album is a generated, named group of items sharing a computed attribute.
type Album struct {
	// ID derives deterministically from the grouping key
	// (e.g. "date-2025-01-27", "theme-food").
	ID string `json:"id"`

	// Title is a display name generated from the lookup tables or the date.
	Title string `json:"title"`

	// Description is generated alongside the title.
	Description string `json:"description"`

	// Theme is the album's category, defaulting to general.
	Theme Theme `json:"theme"`

	// Items holds the members: chronological for date grouping,
	// input order otherwise.
	Items []Item `json:"items"`

	// GeneratedAt is the classifier clock reading for this run.
	GeneratedAt time.Time `json:"generated_at"`

	// ClassificationReason names the strategy and key that produced
	// this album.
	ClassificationReason string `json:"classification_reason"`
}

// Strategy names accepted by callers that select a strategy by string.
const (
	StrategyDate      = "date"
	StrategyLocation  = "location"
	StrategyTheme     = "theme"
	StrategyTimeOfDay = "timeofday"
	StrategyActivity  = "activity"
	StrategyEmotion   = "emotion"
	StrategySmart     = "smart"
)

// Strategies lists all valid strategy names.
var Strategies = []string{
	StrategyDate,
	StrategyLocation,
	StrategyTheme,
	StrategyTimeOfDay,
	StrategyActivity,
	StrategyEmotion,
	StrategySmart,
}

// ValidStrategy reports whether name is a known strategy.
func ValidStrategy(name string) bool {
	for _, s := range Strategies {
		if s == name {
			return true
		}
	}
	return false
}
