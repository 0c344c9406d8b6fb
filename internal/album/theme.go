package album

import "fmt"

// themeTitles are the display names for the theme albums.
var themeTitles = map[Theme]string{
	ThemeNature:  "자연 속 포항",
	ThemeHistory: "역사 속 포항",
	ThemeFood:    "포항의 맛",
	ThemeCulture: "문화와 예술",
	ThemeGeneral: "포항 이야기",
}

// ByTheme labels each item with a single theme via ThemeOf, then emits
// one album per theme actually observed, in first-seen order. Empty
// themes produce no album.
func (c *Classifier) ByTheme(items []Item) []Album {
	generatedAt := c.now()

	keys, groups := groupBy(items, func(item Item) string {
		return string(c.ThemeOf(item))
	})

	albums := make([]Album, 0, len(keys))
	for _, key := range keys {
		theme := Theme(key)
		members := groups[key]
		title, ok := themeTitles[theme]
		if !ok {
			title = key
		}
		albums = append(albums, Album{
			ID:                   "theme-" + key,
			Title:                title,
			Description:          fmt.Sprintf("%s 테마의 기록 %d개", title, len(members)),
			Theme:                theme,
			Items:                members,
			GeneratedAt:          generatedAt,
			ClassificationReason: "theme: " + key,
		})
	}
	return albums
}
