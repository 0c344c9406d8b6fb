package album

import (
	"strings"
	"time"
)

// Classifier runs the grouping strategies. The zero value uses the
// production tables, the real clock, and the local timezone; tests set
// the fields to get deterministic runs.
type Classifier struct {
	// Tables overrides the lookup tables (nil means DefaultTables).
	Tables *Tables

	// Now overrides the clock used for GeneratedAt (nil means time.Now).
	Now func() time.Time

	// Location is the timezone for day and hour bucketing (nil means
	// time.Local, which matches the behavior of the original client).
	Location *time.Location
}

func (c *Classifier) tables() *Tables {
	if c.Tables != nil {
		return c.Tables
	}
	return DefaultTables()
}

func (c *Classifier) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Classifier) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.Local
}

// ThemeOf computes the single theme label for an item: ordered keyword
// rules checked against the lowercased title, lowercased location, and
// tags. First match wins; no match means general.
func (c *Classifier) ThemeOf(item Item) Theme {
	t := c.tables()
	title := strings.ToLower(item.Title)
	location := strings.ToLower(item.Metadata.Location)

	for _, rule := range t.ThemeRules {
		for _, kw := range rule.Keywords {
			lower := strings.ToLower(kw)
			if strings.Contains(title, lower) || strings.Contains(location, lower) {
				return rule.Theme
			}
			for _, tag := range item.Metadata.Tags {
				if strings.Contains(strings.ToLower(tag), lower) {
					return rule.Theme
				}
			}
		}
	}
	return ThemeGeneral
}

// TimeOfDayOf computes the time-of-day label for an item. Items without
// a timestamp get the default label; hours outside every configured
// range get the night label.
func (c *Classifier) TimeOfDayOf(item Item) string {
	t := c.tables()
	if item.Metadata.Timestamp == nil {
		return t.DefaultTimeOfDay
	}
	hour := item.Metadata.Timestamp.In(c.location()).Hour()
	for _, r := range t.TimeOfDay {
		if hour >= r.Start && hour < r.End {
			return r.Label
		}
	}
	return t.NightLabel
}

// ActivityOf computes the activity label for an item via first-match
// keyword rules over title, location, and tags.
func (c *Classifier) ActivityOf(item Item) string {
	t := c.tables()
	if label, ok := matchLabel(t.ActivityRules, item); ok {
		return label
	}
	return t.DefaultActivity
}

// EmotionOf computes the emotion label for an item via first-match
// keyword rules over title, location, and tags.
func (c *Classifier) EmotionOf(item Item) string {
	t := c.tables()
	if label, ok := matchLabel(t.EmotionRules, item); ok {
		return label
	}
	return t.DefaultEmotion
}

// matchLabel evaluates ordered keyword rules against an item's title,
// location, and tags.
func matchLabel(rules []LabelRule, item Item) (string, bool) {
	title := strings.ToLower(item.Title)
	location := strings.ToLower(item.Metadata.Location)

	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			lower := strings.ToLower(kw)
			if strings.Contains(title, lower) || strings.Contains(location, lower) {
				return rule.Label, true
			}
			for _, tag := range item.Metadata.Tags {
				if strings.Contains(strings.ToLower(tag), lower) {
					return rule.Label, true
				}
			}
		}
	}
	return "", false
}

// themeForHour maps a representative hour to a date album's theme.
func (c *Classifier) themeForHour(hour int) Theme {
	for _, r := range c.tables().HourThemes {
		if hour >= r.Start && hour < r.End {
			return r.Theme
		}
	}
	return ThemeGeneral
}

// groupBy partitions items by a per-item key, preserving first-seen key
// order and input order within each group.
func groupBy(items []Item, keyOf func(Item) string) ([]string, map[string][]Item) {
	keys := make([]string, 0)
	groups := make(map[string][]Item)
	for _, item := range items {
		key := keyOf(item)
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], item)
	}
	return keys, groups
}
