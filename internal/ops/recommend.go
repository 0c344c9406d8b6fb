package ops

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/db"
	"github.com/pohangstory/storyteller/internal/errors"
)

// DefaultRecommendTimeout bounds the remote recommendation call when
// the config does not set one.
const DefaultRecommendTimeout = 5 * time.Second

// Recommendation sources.
const (
	RecommendSourceRemote = "remote"
	RecommendSourceLocal  = "local"
)

// RecommendInput contains parameters for the Recommend operation.
type RecommendInput struct {
	Theme string // optional filter: nature, history, food, culture, general
	Limit int    // default: 5, max: 20
}

// RecommendOutput contains the result of the Recommend operation.
type RecommendOutput struct {
	Courses []content.Course `json:"courses"`
	Source  string           `json:"source"`
}

// Recommend returns recommended courses. When a remote recommendation
// endpoint is configured it is consulted first; if the call fails or
// times out, the local popularity ordering is used instead and the
// output reports which source answered.
func Recommend(ctx context.Context, database *sql.DB, cfg *config.Config, input RecommendInput) (*RecommendOutput, error) {
	if input.Theme != "" && !validTheme(input.Theme) {
		return nil, errors.NewInvalidRequest("theme must be one of: nature, history, food, culture, general")
	}
	limit := clampLimit(input.Limit, DefaultCourseLimit, MaxCourseLimit)

	if cfg != nil && cfg.RecommendEndpoint != "" {
		courses, err := fetchRemoteCourses(ctx, cfg, input.Theme, limit)
		if err == nil {
			return &RecommendOutput{Courses: courses, Source: RecommendSourceRemote}, nil
		}
		log.Printf("course recommend: remote call failed, falling back to local ranking: %v", err)
	}

	courses, err := db.ListCoursesByPopularity(database, input.Theme, limit)
	if err != nil {
		return nil, err
	}

	return &RecommendOutput{Courses: courses, Source: RecommendSourceLocal}, nil
}

// OpenCourse bumps a course's popularity counter and returns it. Called
// when the user opens a recommended course.
func OpenCourse(database *sql.DB, id string) (*content.Course, error) {
	if id == "" {
		return nil, errors.NewInvalidRequest("course id is required")
	}
	if err := db.BumpCoursePopularity(database, id); err != nil {
		return nil, err
	}
	return db.GetCourse(database, id)
}

// fetchRemoteCourses queries the configured recommendation service.
func fetchRemoteCourses(ctx context.Context, cfg *config.Config, theme string, limit int) ([]content.Course, error) {
	timeout := DefaultRecommendTimeout
	if cfg.RecommendTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.RecommendTimeoutSeconds) * time.Second
	}

	endpoint, err := url.Parse(cfg.RecommendEndpoint)
	if err != nil {
		return nil, err
	}
	q := endpoint.Query()
	if theme != "" {
		q.Set("theme", theme)
	}
	q.Set("limit", strconv.Itoa(limit))
	endpoint.RawQuery = q.Encode()

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{status: resp.StatusCode}
	}

	var body struct {
		Courses []content.Course `json:"courses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	return body.Courses, nil
}

func validTheme(theme string) bool {
	switch theme {
	case "nature", "history", "food", "culture", "general":
		return true
	}
	return false
}
