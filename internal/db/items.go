package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/errors"
)

// itemColumns is the canonical column list for item scans.
const itemColumns = `id, trip_raw, trip_norm, kind, title, caption, caption_chars,
	content_ref, location, taken_at, tags_json, lat, lng,
	duration_seconds, file_size_bytes, created_at, updated_at, deleted_at`

// execer is the subset of *sql.DB and *sql.Tx the insert helpers need,
// so they can run standalone or inside a transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// InsertItem stores a new item in the database.
func InsertItem(db execer, i *content.Item) error {
	tagsJSON, err := marshalTags(i.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO items (
			id, trip_raw, trip_norm, kind, title, caption, caption_chars,
			content_ref, location, taken_at, tags_json, lat, lng,
			duration_seconds, file_size_bytes, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err = db.Exec(query,
		i.ID, i.TripRaw, i.TripNorm, i.Kind, i.Title,
		toNullString(i.Caption), i.CaptionChars,
		toNullString(i.ContentRef), toNullString(i.Location), toNullInt64(i.TakenAt),
		tagsJSON, toNullFloat64(i.Lat), toNullFloat64(i.Lng),
		toNullInt(i.DurationSeconds), toNullInt64(i.FileSizeBytes),
		i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// ReplaceItem inserts an item, overwriting any existing row with the
// same id. Used by import in replace mode; the incoming record's
// timestamps and deletion state win.
func ReplaceItem(db *sql.DB, i *content.Item) error {
	tagsJSON, err := marshalTags(i.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT OR REPLACE INTO items (
			id, trip_raw, trip_norm, kind, title, caption, caption_chars,
			content_ref, location, taken_at, tags_json, lat, lng,
			duration_seconds, file_size_bytes, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(query,
		i.ID, i.TripRaw, i.TripNorm, i.Kind, i.Title,
		toNullString(i.Caption), i.CaptionChars,
		toNullString(i.ContentRef), toNullString(i.Location), toNullInt64(i.TakenAt),
		tagsJSON, toNullFloat64(i.Lat), toNullFloat64(i.Lng),
		toNullInt(i.DurationSeconds), toNullInt64(i.FileSizeBytes),
		i.CreatedAt, i.UpdatedAt, toNullInt64(i.DeletedAt),
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetItemByID retrieves an item by its ULID.
// If includeDeleted is false, soft-deleted items are excluded.
func GetItemByID(db *sql.DB, id string, includeDeleted bool) (*content.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	row := db.QueryRow(query, id)
	i, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return i, nil
}

// UpdateItemByID updates mutable fields of an existing item.
// Sets updated_at to current timestamp.
// Does NOT change: id, trip, kind
func UpdateItemByID(db *sql.DB, i *content.Item) error {
	tagsJSON, err := marshalTags(i.Tags)
	if err != nil {
		return err
	}

	now := time.Now().Unix()

	query := `
		UPDATE items
		SET title = ?, caption = ?, caption_chars = ?, content_ref = ?,
			location = ?, taken_at = ?, tags_json = ?, lat = ?, lng = ?,
			duration_seconds = ?, file_size_bytes = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query,
		i.Title, toNullString(i.Caption), i.CaptionChars, toNullString(i.ContentRef),
		toNullString(i.Location), toNullInt64(i.TakenAt), tagsJSON,
		toNullFloat64(i.Lat), toNullFloat64(i.Lng),
		toNullInt(i.DurationSeconds), toNullInt64(i.FileSizeBytes), now,
		i.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(i.ID)
	}

	i.UpdatedAt = now

	return nil
}

// SoftDeleteItem marks an item as deleted by setting deleted_at.
func SoftDeleteItem(db *sql.DB, id string) error {
	now := time.Now().Unix()

	query := `
		UPDATE items
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query, now, id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// ListByTrip returns item summaries for a trip ordered by updated_at
// descending, plus the total matching count for pagination.
func ListByTrip(db *sql.DB, tripNorm string, limit, offset int, includeDeleted bool) ([]content.Summary, int, error) {
	where := "WHERE trip_norm = ?"
	if !includeDeleted {
		where += " AND deleted_at IS NULL"
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM items "+where, tripNorm).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + itemColumns + ` FROM items ` + where + `
		ORDER BY updated_at DESC LIMIT ? OFFSET ?`

	rows, err := db.Query(query, tripNorm, limit, offset)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	summaries, err := collectSummaries(rows)
	if err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}

// SearchItems performs a LIKE search over title, caption, location, and
// tags within a trip. The query is matched case-sensitively by SQLite's
// default LIKE semantics for non-ASCII text.
func SearchItems(db *sql.DB, tripNorm, queryText string, limit, offset int, includeDeleted bool) ([]content.Summary, int, error) {
	where := `WHERE trip_norm = ? AND (
		title LIKE ? ESCAPE '\' OR
		caption LIKE ? ESCAPE '\' OR
		location LIKE ? ESCAPE '\' OR
		tags_json LIKE ? ESCAPE '\'
	)`
	if !includeDeleted {
		where += " AND deleted_at IS NULL"
	}

	pattern := "%" + escapeLike(queryText) + "%"
	args := []any{tripNorm, pattern, pattern, pattern, pattern}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM items "+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `SELECT ` + itemColumns + ` FROM items ` + where + `
		ORDER BY updated_at DESC LIMIT ? OFFSET ?`

	rows, err := db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	summaries, err := collectSummaries(rows)
	if err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}

// ListActiveItems returns all active items for a trip ordered by
// taken_at (nulls last), then created_at. Used by classification.
func ListActiveItems(db *sql.DB, tripNorm string) ([]*content.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE trip_norm = ? AND deleted_at IS NULL
		ORDER BY (taken_at IS NULL), taken_at, created_at`

	rows, err := db.Query(query, tripNorm)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	items := make([]*content.Item, 0)
	for rows.Next() {
		i, err := ScanItemFromRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return items, nil
}

// StreamItemsForExport returns rows for export streaming. The caller
// must Close the rows and scan with ScanItemFromRows.
func StreamItemsForExport(ctx context.Context, db *sql.DB, trip *string, includeDeleted bool) (*sql.Rows, error) {
	query := `SELECT ` + itemColumns + ` FROM items`
	var args []any

	var clauses []string
	if trip != nil && *trip != "" {
		clauses = append(clauses, "trip_norm = ?")
		args = append(args, content.Normalize(*trip))
	}
	if !includeDeleted {
		clauses = append(clauses, "deleted_at IS NULL")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// PurgeItems permanently deletes soft-deleted items, optionally
// restricted to a trip and a minimum age in days. Returns the number
// of rows removed.
func PurgeItems(db *sql.DB, trip *string, olderThanDays *int) (int, error) {
	query := "DELETE FROM items WHERE deleted_at IS NOT NULL"
	var args []any

	if trip != nil && *trip != "" {
		query += " AND trip_norm = ?"
		args = append(args, content.Normalize(*trip))
	}
	if olderThanDays != nil {
		cutoff := time.Now().AddDate(0, 0, -*olderThanDays).Unix()
		query += " AND deleted_at <= ?"
		args = append(args, cutoff)
	}

	result, err := db.Exec(query, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	return int(purged), nil
}

// ScanItemFromRows scans the current row of a multi-row result set.
func ScanItemFromRows(rows *sql.Rows) (*content.Item, error) {
	return scanItemFields(rows.Scan)
}

// scanItem scans a single row into an Item struct.
func scanItem(row *sql.Row) (*content.Item, error) {
	return scanItemFields(row.Scan)
}

// scanItemFields drives a Scan function over the canonical column list.
func scanItemFields(scan func(dest ...any) error) (*content.Item, error) {
	var (
		i               content.Item
		caption         sql.NullString
		contentRef      sql.NullString
		location        sql.NullString
		takenAt         sql.NullInt64
		tagsJSON        sql.NullString
		lat             sql.NullFloat64
		lng             sql.NullFloat64
		durationSeconds sql.NullInt64
		fileSizeBytes   sql.NullInt64
		deletedAt       sql.NullInt64
	)

	err := scan(
		&i.ID, &i.TripRaw, &i.TripNorm, &i.Kind, &i.Title, &caption, &i.CaptionChars,
		&contentRef, &location, &takenAt, &tagsJSON, &lat, &lng,
		&durationSeconds, &fileSizeBytes, &i.CreatedAt, &i.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	i.Caption = fromNullString(caption)
	i.ContentRef = fromNullString(contentRef)
	i.Location = fromNullString(location)
	if takenAt.Valid {
		i.TakenAt = &takenAt.Int64
	}
	if lat.Valid {
		i.Lat = &lat.Float64
	}
	if lng.Valid {
		i.Lng = &lng.Float64
	}
	if durationSeconds.Valid {
		v := int(durationSeconds.Int64)
		i.DurationSeconds = &v
	}
	if fileSizeBytes.Valid {
		i.FileSizeBytes = &fileSizeBytes.Int64
	}
	if deletedAt.Valid {
		i.DeletedAt = &deletedAt.Int64
	}

	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &i.Tags); err != nil {
			return nil, err
		}
	}

	return &i, nil
}

// collectSummaries scans all rows into summaries.
func collectSummaries(rows *sql.Rows) ([]content.Summary, error) {
	summaries := make([]content.Summary, 0)
	for rows.Next() {
		i, err := ScanItemFromRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		summaries = append(summaries, i.ToSummary())
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return summaries, nil
}

// marshalTags converts a tag slice to a nullable JSON string.
func marshalTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, errors.NewInternal(err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// escapeLike escapes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// toNullInt64 converts a *int64 to sql.NullInt64.
func toNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// toNullInt converts a *int to sql.NullInt64.
func toNullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// toNullFloat64 converts a *float64 to sql.NullFloat64.
func toNullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
