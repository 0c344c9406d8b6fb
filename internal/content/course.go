package content

// Course represents a recommended travel course through Pohang.
// Courses are seeded locally and re-ranked either by a remote
// recommendation service or by the local popularity counter.
type Course struct {
	// ID is a stable slug (e.g. "sunrise-coast")
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// Description is a short markdown blurb
	Description string `json:"description"`

	// Theme is the course's dominant theme (nature, history, food, culture, general)
	Theme string `json:"theme"`

	// Places is the ordered list of place ids along the course
	Places []string `json:"places"`

	// Popularity counts how often the course was recommended or opened
	Popularity int `json:"popularity"`
}

// SeedCourses returns the built-in course set inserted on first run.
// The place ids match the QR stamp payloads installed at each location.
func SeedCourses() []Course {
	return []Course{
		{
			ID:          "sunrise-coast",
			Name:        "호미곶 일출 코스",
			Description: "새벽 호미곶 일출에서 시작해 해안도로를 따라 걷는 코스",
			Theme:       "nature",
			Places:      []string{"homigot-sunrise", "daebo-port", "guryongpo-beach"},
		},
		{
			ID:          "market-taste",
			Name:        "죽도시장 맛 기행",
			Description: "죽도시장 물회와 과메기를 중심으로 한 먹거리 코스",
			Theme:       "food",
			Places:      []string{"jukdo-market", "mulhoe-alley", "yeongildae-cafe"},
		},
		{
			ID:          "guryongpo-history",
			Name:        "구룡포 근대문화 거리",
			Description: "구룡포 근대문화역사거리와 일본인 가옥거리 산책",
			Theme:       "history",
			Places:      []string{"guryongpo-street", "guryongpo-museum"},
		},
		{
			ID:          "culture-night",
			Name:        "영일대 문화의 밤",
			Description: "영일대 해상누각과 불빛 축제, 거리 공연 코스",
			Theme:       "culture",
			Places:      []string{"yeongildae", "space-walk", "pohang-canal"},
		},
	}
}
