package album

// The time-of-day, activity, and emotion strategies share one shape:
// a per-item single-label decision, then one album per non-empty
// bucket with display text from the label table.

// ByTimeOfDay groups items by hour-range buckets (morning, afternoon,
// evening, night; items without timestamps land in the default bucket).
func (c *Classifier) ByTimeOfDay(items []Item) []Album {
	return c.byLabel(items, "timeofday", "time of day", c.TimeOfDayOf)
}

// ByActivity groups items by first-match activity keywords.
func (c *Classifier) ByActivity(items []Item) []Album {
	return c.byLabel(items, "activity", "activity", c.ActivityOf)
}

// ByEmotion groups items by first-match emotion keywords.
func (c *Classifier) ByEmotion(items []Item) []Album {
	return c.byLabel(items, "emotion", "emotion", c.EmotionOf)
}

// byLabel implements the shared bucket-grouping shape. idPrefix feeds
// the album id; reason names the strategy in ClassificationReason.
func (c *Classifier) byLabel(items []Item, idPrefix, reason string, labelOf func(Item) string) []Album {
	t := c.tables()
	generatedAt := c.now()

	keys, groups := groupBy(items, labelOf)

	albums := make([]Album, 0, len(keys))
	for _, label := range keys {
		text := t.labelText(label)
		albums = append(albums, Album{
			ID:                   idPrefix + "-" + SanitizeID(label),
			Title:                text.Title,
			Description:          text.Description,
			Theme:                ThemeGeneral,
			Items:                groups[label],
			GeneratedAt:          generatedAt,
			ClassificationReason: reason + ": " + label,
		})
	}
	return albums
}
