package album

import "testing"

func TestSmart_ConcatenatesWithoutDedup(t *testing.T) {
	c := fixedClassifier()

	items := []Item{
		{ID: "a", Title: "호미곶 해돋이", Metadata: Metadata{Timestamp: ts(2025, 1, 27, 7, 0)}},
		{ID: "b", Title: "행복한 저녁", Metadata: Metadata{Timestamp: ts(2025, 1, 27, 19, 0)}},
		{ID: "c", Title: "메모"},
	}

	smart := c.Smart(items)
	sum := countItems(c.ByTimeOfDay(items)) + countItems(c.ByActivity(items)) + countItems(c.ByEmotion(items))

	if got := countItems(smart); got != sum {
		t.Errorf("smart item count = %d, want %d (sum of constituents)", got, sum)
	}
	// Every item appears once per constituent strategy.
	if got := countItems(smart); got != 3*len(items) {
		t.Errorf("smart item count = %d, want %d", got, 3*len(items))
	}
}

func TestSmart_ReasonNamesStrategy(t *testing.T) {
	c := fixedClassifier()

	albums := c.Smart([]Item{{ID: "a", Title: "호미곶 해돋이"}})
	reasons := map[string]bool{}
	for _, a := range albums {
		reasons[a.ClassificationReason] = true
	}

	for _, want := range []string{"time of day: anytime", "activity: sunrise", "emotion: memory"} {
		if !reasons[want] {
			t.Errorf("missing album with reason %q (got %v)", want, reasons)
		}
	}
}

func TestSmart_EmptyInput(t *testing.T) {
	c := fixedClassifier()
	if got := c.Smart([]Item{}); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestByStrategy_Dispatch(t *testing.T) {
	c := fixedClassifier()
	items := []Item{{ID: "a", Title: "호미곶 일출", Metadata: Metadata{Timestamp: ts(2025, 1, 27, 7, 0), Location: "호미곶"}}}

	tests := []struct {
		strategy string
		wantID   string
	}{
		{strategy: StrategyDate, wantID: "date-2025-01-27"},
		{strategy: StrategyLocation, wantID: "location-호미곶"},
		{strategy: StrategyTheme, wantID: "theme-nature"},
		{strategy: StrategyTimeOfDay, wantID: "timeofday-morning"},
		{strategy: StrategyActivity, wantID: "activity-sunrise"},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			albums := c.ByStrategy(tt.strategy, items)
			if len(albums) == 0 {
				t.Fatalf("ByStrategy(%q) returned no albums", tt.strategy)
			}
			if albums[0].ID != tt.wantID {
				t.Errorf("ID = %q, want %q", albums[0].ID, tt.wantID)
			}
		})
	}

	if got := c.ByStrategy("vibes", items); len(got) != 0 {
		t.Errorf("unknown strategy produced %d albums, want 0", len(got))
	}
}

func countItems(albums []Album) int {
	n := 0
	for _, a := range albums {
		n += len(a.Items)
	}
	return n
}
