package album

import (
	"fmt"
	"strings"
)

// ByLocation groups items by the literal location string, case- and
// whitespace-sensitive, with the unknown-location sentinel for items
// that have none. The album theme comes from substring keyword checks
// against the location string itself; the grouping key never depends
// on the keyword tables.
func (c *Classifier) ByLocation(items []Item) []Album {
	t := c.tables()
	generatedAt := c.now()

	keys, groups := groupBy(items, func(item Item) string {
		if item.Metadata.Location == "" {
			return t.UnknownLocation
		}
		return item.Metadata.Location
	})

	albums := make([]Album, 0, len(keys))
	for _, location := range keys {
		members := groups[location]
		albums = append(albums, Album{
			ID:                   "location-" + SanitizeID(location),
			Title:                location,
			Description:          fmt.Sprintf("%s에서의 기록 %d개", location, len(members)),
			Theme:                c.themeForLocation(location),
			Items:                members,
			GeneratedAt:          generatedAt,
			ClassificationReason: "location: " + location,
		})
	}
	return albums
}

// themeForLocation assigns a theme by substring containment against the
// ordered theme keyword rules. First match wins, default general.
func (c *Classifier) themeForLocation(location string) Theme {
	lower := strings.ToLower(location)
	for _, rule := range c.tables().ThemeRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return rule.Theme
			}
		}
	}
	return ThemeGeneral
}
