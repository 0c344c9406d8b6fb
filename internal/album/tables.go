package album

// ThemeRule maps a keyword list to a theme. Rules are evaluated in
// slice order and the first match wins.
type ThemeRule struct {
	Theme    Theme
	Keywords []string
}

// LabelRule maps a keyword list to a bucket label for the activity and
// emotion strategies. Evaluated in slice order, first match wins.
type LabelRule struct {
	Label    string
	Keywords []string
}

// HourTheme assigns a theme to the hour range [Start, End).
type HourTheme struct {
	Start int
	End   int
	Theme Theme
}

// HourLabel assigns a time-of-day label to the hour range [Start, End).
type HourLabel struct {
	Start int
	End   int
	Label string
}

// LabelText is the display title and description for a bucket label.
type LabelText struct {
	Title       string
	Description string
}

// Tables holds every lookup table the strategies consult. Tests
// substitute fixtures; production code uses DefaultTables.
type Tables struct {
	// ThemeRules drive ByTheme and the location-album theme, in
	// priority order.
	ThemeRules []ThemeRule

	// HourThemes map a date album's representative hour to its theme.
	HourThemes []HourTheme

	// TimeOfDay maps hours to time-of-day labels. Hours outside every
	// range get NightLabel; items without a timestamp get DefaultTimeOfDay.
	TimeOfDay []HourLabel

	// ActivityRules and EmotionRules are first-match keyword labelers.
	ActivityRules []LabelRule
	EmotionRules  []LabelRule

	// Labels maps a bucket label to its display text. Labels missing
	// from the map fall back to the label itself with DefaultDescription.
	Labels map[string]LabelText

	// NightLabel is the time-of-day label for hours outside every range.
	NightLabel string

	// DefaultTimeOfDay, DefaultActivity and DefaultEmotion are the
	// labels for items that match no rule (or lack a timestamp).
	DefaultTimeOfDay string
	DefaultActivity  string
	DefaultEmotion   string

	// UnknownLocation is the grouping sentinel for items without a
	// location string.
	UnknownLocation string

	// DefaultDescription is used when a label has no Labels entry.
	DefaultDescription string
}

// DefaultTables returns the production lookup tables. Keywords are the
// Korean terms Pohang visitors actually use in titles and tags.
func DefaultTables() *Tables {
	return &Tables{
		ThemeRules: []ThemeRule{
			{Theme: ThemeNature, Keywords: []string{
				"바다", "해변", "해수욕장", "산", "공원", "일출", "일몰", "자연", "숲", "등대",
			}},
			{Theme: ThemeHistory, Keywords: []string{
				"박물관", "유적", "역사", "사적", "전통", "서원", "고택",
			}},
			{Theme: ThemeFood, Keywords: []string{
				"맛집", "식당", "카페", "음식", "시장", "물회", "과메기", "회",
			}},
			{Theme: ThemeCulture, Keywords: []string{
				"공연", "전시", "축제", "문화", "예술", "미술관", "거리",
			}},
		},
		HourThemes: []HourTheme{
			{Start: 6, End: 12, Theme: ThemeNature},
			{Start: 12, End: 18, Theme: ThemeCulture},
			{Start: 18, End: 22, Theme: ThemeFood},
		},
		TimeOfDay: []HourLabel{
			{Start: 6, End: 12, Label: "morning"},
			{Start: 12, End: 18, Label: "afternoon"},
			{Start: 18, End: 22, Label: "evening"},
		},
		ActivityRules: []LabelRule{
			{Label: "sunrise", Keywords: []string{"일출", "해돋이", "호미곶"}},
			{Label: "beach", Keywords: []string{"해변", "바다", "해수욕장", "물놀이"}},
			{Label: "walk", Keywords: []string{"산책", "둘레길", "걷기", "트레킹"}},
			{Label: "market", Keywords: []string{"시장", "장터", "먹거리", "죽도"}},
			{Label: "festival", Keywords: []string{"축제", "불꽃", "공연"}},
		},
		EmotionRules: []LabelRule{
			{Label: "joy", Keywords: []string{"행복", "즐거", "신나", "웃음"}},
			{Label: "peace", Keywords: []string{"평화", "고요", "잔잔", "힐링"}},
			{Label: "excitement", Keywords: []string{"설렘", "두근", "기대"}},
			{Label: "wonder", Keywords: []string{"감동", "장관", "아름", "멋진"}},
		},
		Labels: map[string]LabelText{
			"morning":    {Title: "아침의 기록", Description: "하루를 여는 아침 시간의 순간들"},
			"afternoon":  {Title: "오후의 기록", Description: "햇살 가득한 오후의 순간들"},
			"evening":    {Title: "저녁의 기록", Description: "노을과 함께한 저녁의 순간들"},
			"night":      {Title: "밤의 기록", Description: "밤하늘 아래의 순간들"},
			"anytime":    {Title: "시간 미상", Description: "시간 정보가 없는 기록들"},
			"sunrise":    {Title: "일출 여행", Description: "해가 떠오르는 순간을 담은 기록"},
			"beach":      {Title: "바다와 해변", Description: "포항 바다에서 보낸 시간"},
			"walk":       {Title: "느린 산책", Description: "걸으며 만난 풍경들"},
			"market":     {Title: "시장 구경", Description: "시장의 활기를 담은 기록"},
			"festival":   {Title: "축제의 순간", Description: "축제와 공연의 기록"},
			"travel":     {Title: "여행의 기록", Description: "포항에서의 일상적인 순간들"},
			"joy":        {Title: "행복한 순간", Description: "웃음이 담긴 기록"},
			"peace":      {Title: "평화로운 순간", Description: "마음이 잔잔해지는 기록"},
			"excitement": {Title: "설레는 순간", Description: "두근거림이 담긴 기록"},
			"wonder":     {Title: "감동의 순간", Description: "장관 앞에서의 기록"},
			"memory":     {Title: "추억", Description: "분류되지 않은 소중한 기록"},
		},
		NightLabel:         "night",
		DefaultTimeOfDay:   "anytime",
		DefaultActivity:    "travel",
		DefaultEmotion:     "memory",
		UnknownLocation:    "알 수 없는 위치",
		DefaultDescription: "포항에서의 기록",
	}
}

// labelText resolves a label's display text, falling back to the label
// itself when the table has no entry.
func (t *Tables) labelText(label string) LabelText {
	if text, ok := t.Labels[label]; ok {
		return text
	}
	return LabelText{Title: label, Description: t.DefaultDescription}
}
