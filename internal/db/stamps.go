package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/errors"
)

const stampColumns = `id, trip_raw, trip_norm, place_id, place_name, location,
	collected_at, synced, synced_at`

// InsertStamp records a newly collected stamp. The unique index on
// (trip_norm, place_id) makes re-collecting the same place a conflict,
// which is surfaced as ALREADY_COLLECTED.
func InsertStamp(db execer, s *content.Stamp) error {
	query := `
		INSERT INTO stamps (
			id, trip_raw, trip_norm, place_id, place_name, location,
			collected_at, synced, synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		s.ID, s.TripRaw, s.TripNorm, s.PlaceID,
		toNullString(s.PlaceName), toNullString(s.Location),
		s.CollectedAt, boolToInt(s.Synced), toNullInt64(s.SyncedAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewAlreadyCollected(s.TripRaw, s.PlaceID)
		}
		return errors.NewInternal(err)
	}

	return nil
}

// CollectStamp records a stamp together with its mirror item in a
// single transaction. Either both rows land or neither does, so a
// failed item insert cannot strand a stamp without its companion.
func CollectStamp(db *sql.DB, s *content.Stamp, mirror *content.Item) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}

	if err := InsertStamp(tx, s); err != nil {
		tx.Rollback()
		return err
	}
	if err := InsertItem(tx, mirror); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetStampByPlace returns the stamp for a (trip, place) pair, if any.
func GetStampByPlace(db *sql.DB, tripNorm, placeID string) (*content.Stamp, error) {
	query := `SELECT ` + stampColumns + ` FROM stamps
		WHERE trip_norm = ? AND place_id = ?`

	row := db.QueryRow(query, tripNorm, placeID)
	s, err := scanStamp(row.Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(placeID)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return s, nil
}

// ListStamps returns all stamps for a trip ordered by collection time.
func ListStamps(db *sql.DB, tripNorm string) ([]*content.Stamp, error) {
	query := `SELECT ` + stampColumns + ` FROM stamps
		WHERE trip_norm = ? ORDER BY collected_at`

	rows, err := db.Query(query, tripNorm)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return collectStamps(rows)
}

// ListUnsyncedStamps returns stamps that have not been pushed to the
// sync endpoint yet, oldest first.
func ListUnsyncedStamps(db *sql.DB, tripNorm string) ([]*content.Stamp, error) {
	query := `SELECT ` + stampColumns + ` FROM stamps
		WHERE trip_norm = ? AND synced = 0 ORDER BY collected_at`

	rows, err := db.Query(query, tripNorm)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return collectStamps(rows)
}

// MarkStampSynced flips a stamp to synced with the current timestamp.
func MarkStampSynced(db *sql.DB, id string) error {
	now := time.Now().Unix()

	result, err := db.Exec(
		"UPDATE stamps SET synced = 1, synced_at = ? WHERE id = ? AND synced = 0",
		now, id,
	)
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

// StampCounts returns the total and synced stamp counts for a trip.
func StampCounts(db *sql.DB, tripNorm string) (total, synced int, err error) {
	query := `SELECT COUNT(*), COALESCE(SUM(synced), 0) FROM stamps WHERE trip_norm = ?`
	if err := db.QueryRow(query, tripNorm).Scan(&total, &synced); err != nil {
		return 0, 0, errors.NewInternal(err)
	}
	return total, synced, nil
}

// scanStamp drives a Scan function over the canonical stamp columns.
func scanStamp(scan func(dest ...any) error) (*content.Stamp, error) {
	var (
		s         content.Stamp
		placeName sql.NullString
		location  sql.NullString
		synced    int
		syncedAt  sql.NullInt64
	)

	err := scan(
		&s.ID, &s.TripRaw, &s.TripNorm, &s.PlaceID, &placeName, &location,
		&s.CollectedAt, &synced, &syncedAt,
	)
	if err != nil {
		return nil, err
	}

	s.PlaceName = fromNullString(placeName)
	s.Location = fromNullString(location)
	s.Synced = synced != 0
	if syncedAt.Valid {
		s.SyncedAt = &syncedAt.Int64
	}

	return &s, nil
}

func collectStamps(rows *sql.Rows) ([]*content.Stamp, error) {
	stamps := make([]*content.Stamp, 0)
	for rows.Next() {
		s, err := scanStamp(rows.Scan)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		stamps = append(stamps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return stamps, nil
}

// isUniqueConstraintError detects SQLite unique constraint violations.
// modernc.org/sqlite wraps them with the constraint message text.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
