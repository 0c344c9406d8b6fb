package album

import (
	"fmt"
	"sort"
	"time"
)

// ByDate groups items by calendar day in the classifier's timezone.
// Items without a timestamp are dropped from this strategy. Albums are
// emitted in ascending day order with items sorted ascending by
// timestamp; the album theme derives from the earliest item's hour.
func (c *Classifier) ByDate(items []Item) []Album {
	loc := c.location()
	generatedAt := c.now()

	keys, groups := groupBy(withTimestamps(items), func(item Item) string {
		return item.Metadata.Timestamp.In(loc).Format("2006-01-02")
	})
	sort.Strings(keys)

	albums := make([]Album, 0, len(keys))
	for _, day := range keys {
		members := append([]Item(nil), groups[day]...)
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Metadata.Timestamp.Before(*members[j].Metadata.Timestamp)
		})

		first := members[0].Metadata.Timestamp.In(loc)
		albums = append(albums, Album{
			ID:                   "date-" + day,
			Title:                formatKoreanDate(first),
			Description:          fmt.Sprintf("%s의 기록 %d개", formatKoreanDate(first), len(members)),
			Theme:                c.themeForHour(first.Hour()),
			Items:                members,
			GeneratedAt:          generatedAt,
			ClassificationReason: "date: " + day,
		})
	}
	return albums
}

// withTimestamps filters to items that carry a timestamp.
func withTimestamps(items []Item) []Item {
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Metadata.Timestamp != nil {
			kept = append(kept, item)
		}
	}
	return kept
}

// formatKoreanDate renders a date as "2025년 1월 27일".
func formatKoreanDate(t time.Time) string {
	return fmt.Sprintf("%d년 %d월 %d일", t.Year(), int(t.Month()), t.Day())
}
