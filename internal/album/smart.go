package album

// Smart concatenates the time-of-day, activity, and emotion strategies
// over the same input. There is no deduplication or reconciliation: an
// item appears in up to three albums, one per strategy, and the only
// provenance is each album's ClassificationReason.
func (c *Classifier) Smart(items []Item) []Album {
	albums := make([]Album, 0)
	albums = append(albums, c.ByTimeOfDay(items)...)
	albums = append(albums, c.ByActivity(items)...)
	albums = append(albums, c.ByEmotion(items)...)
	return albums
}

// ByStrategy dispatches to the named strategy. Unknown names return an
// empty album list; callers validate with ValidStrategy first.
func (c *Classifier) ByStrategy(name string, items []Item) []Album {
	switch name {
	case StrategyDate:
		return c.ByDate(items)
	case StrategyLocation:
		return c.ByLocation(items)
	case StrategyTheme:
		return c.ByTheme(items)
	case StrategyTimeOfDay:
		return c.ByTimeOfDay(items)
	case StrategyActivity:
		return c.ByActivity(items)
	case StrategyEmotion:
		return c.ByEmotion(items)
	case StrategySmart:
		return c.Smart(items)
	default:
		return []Album{}
	}
}
