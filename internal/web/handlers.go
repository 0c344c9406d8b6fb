package web

import (
	"database/sql"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/pohangstory/storyteller/internal/album"
	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/errors"
	"github.com/pohangstory/storyteller/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db         *sql.DB
	cfg        *config.Config
	renderer   *Renderer
	classifier *album.Classifier
}

// NewHandlers creates the handler set with a default classifier.
func NewHandlers(db *sql.DB, cfg *config.Config, renderer *Renderer) *Handlers {
	return &Handlers{
		db:         db,
		cfg:        cfg,
		renderer:   renderer,
		classifier: &album.Classifier{},
	}
}

// HandleAlbums handles GET /albums — classify a trip's items into albums.
func (h *Handlers) HandleAlbums(w http.ResponseWriter, r *http.Request) {
	trip := r.URL.Query().Get("trip")
	strategy := r.URL.Query().Get("strategy")
	if strategy == "" {
		strategy = album.StrategySmart
	}

	result, err := ops.Classify(h.db, h.classifier, ops.ClassifyInput{
		Trip:     trip,
		Strategy: strategy,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "albums", AlbumsPageData{
		PageData: PageData{
			Title:   "Albums",
			Version: h.renderer.version,
			Nav:     "albums",
		},
		Trip:     result.Trip,
		Strategy: result.Strategy,
		Albums:   result.Albums,
	})
}

// HandleItems handles GET /items — list a trip's items, or search them
// when the q parameter is set.
func (h *Handlers) HandleItems(w http.ResponseWriter, r *http.Request) {
	trip := r.URL.Query().Get("trip")
	query := r.URL.Query().Get("q")
	deleted := parseBoolParam(r, "include_deleted")
	limit := parseIntParam(r, "limit", ops.DefaultListLimit)
	offset := parseIntParam(r, "offset", 0)

	data := ItemsPageData{
		PageData: PageData{
			Title:   "Items",
			Version: h.renderer.version,
			Nav:     "items",
		},
		Trip:    trip,
		Query:   query,
		Deleted: deleted,
	}

	if query != "" {
		result, err := ops.Search(h.db, ops.SearchInput{
			Trip:           trip,
			Query:          query,
			Limit:          limit,
			Offset:         offset,
			IncludeDeleted: deleted,
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Items = result.Items
		data.Pagination = result.Pagination
	} else {
		result, err := ops.List(h.db, ops.ListInput{
			Trip:           trip,
			Limit:          limit,
			Offset:         offset,
			IncludeDeleted: deleted,
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Items = result.Items
		data.Pagination = result.Pagination
	}

	h.renderer.renderPage(w, "items", data)
}

// HandleDetail handles GET /items/{id} — view a single item.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("item ID is required"))
		return
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{
		ID:             id,
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	item := result.Item
	var rendered template.HTML
	if item.Caption != nil {
		rendered = renderMarkdown(*item.Caption)
	}

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   item.Title,
			Version: h.renderer.version,
			Nav:     "items",
		},
		Item:            item,
		RenderedCaption: rendered,
	})
}

// HandleDelete handles POST /items/{id}/delete — soft-delete an item,
// triggered by the form on the detail page.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("item ID is required"))
		return
	}

	result, err := ops.Delete(h.db, ops.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": result.Deleted,
			"id":      result.ID,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/items", http.StatusFound)
}

// HandlePurge handles POST /items/purge — permanently delete soft-deleted items.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	input := ops.PurgeInput{
		Trip: ptrString(r.FormValue("trip")),
	}

	if days := r.FormValue("older_than_days"); days != "" {
		d, err := strconv.Atoi(days)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("older_than_days must be an integer"))
			return
		}
		input.OlderThanDays = &d
	}

	result, err := ops.Purge(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	message := fmt.Sprintf("Purged %d item(s)", result.Purged)

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"purged":  result.Purged,
			"message": message,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/items?include_deleted=true", http.StatusFound)
}

// HandleStamps handles GET /stamps — show a trip's collected stamps.
func (h *Handlers) HandleStamps(w http.ResponseWriter, r *http.Request) {
	trip := r.URL.Query().Get("trip")

	result, err := ops.Stamps(h.db, ops.StampsInput{Trip: trip})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "stamps", StampsPageData{
		PageData: PageData{
			Title:   "Stamps",
			Version: h.renderer.version,
			Nav:     "stamps",
		},
		Trip:   result.Trip,
		Stamps: result.Stamps,
		Total:  result.Total,
		Synced: result.Synced,
	})
}

// HandleCourses handles GET /courses — recommended travel courses.
func (h *Handlers) HandleCourses(w http.ResponseWriter, r *http.Request) {
	theme := r.URL.Query().Get("theme")

	result, err := ops.Recommend(r.Context(), h.db, h.cfg, ops.RecommendInput{
		Theme: theme,
		Limit: parseIntParam(r, "limit", ops.DefaultCourseLimit),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "courses", CoursesPageData{
		PageData: PageData{
			Title:   "Courses",
			Version: h.renderer.version,
			Nav:     "courses",
		},
		Theme:   theme,
		Courses: result.Courses,
		Source:  result.Source,
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}

// ptrString returns a pointer to s if non-empty, nil otherwise.
func ptrString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
