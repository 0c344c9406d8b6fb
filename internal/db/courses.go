package db

import (
	"database/sql"
	"encoding/json"

	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/errors"
)

// EnsureCourses inserts the built-in course set, skipping rows that
// already exist so popularity counters survive restarts.
func EnsureCourses(db *sql.DB) error {
	for _, c := range content.SeedCourses() {
		placesJSON, err := json.Marshal(c.Places)
		if err != nil {
			return errors.NewInternal(err)
		}

		_, err = db.Exec(`
			INSERT OR IGNORE INTO courses (id, name, description, theme, places_json, popularity)
			VALUES (?, ?, ?, ?, ?, ?)
		`, c.ID, c.Name, c.Description, c.Theme, string(placesJSON), c.Popularity)
		if err != nil {
			return errors.NewInternal(err)
		}
	}
	return nil
}

// GetCourse returns a single course by id.
func GetCourse(db *sql.DB, id string) (*content.Course, error) {
	row := db.QueryRow(
		"SELECT id, name, description, theme, places_json, popularity FROM courses WHERE id = ?",
		id,
	)

	c, err := scanCourse(row.Scan)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return c, nil
}

// ListCoursesByPopularity returns courses ordered by popularity
// descending, optionally filtered to a theme. Ties break on id so the
// order is stable.
func ListCoursesByPopularity(db *sql.DB, theme string, limit int) ([]content.Course, error) {
	query := "SELECT id, name, description, theme, places_json, popularity FROM courses"
	var args []any

	if theme != "" {
		query += " WHERE theme = ?"
		args = append(args, theme)
	}
	query += " ORDER BY popularity DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	courses := make([]content.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows.Scan)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		courses = append(courses, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return courses, nil
}

// BumpCoursePopularity increments a course's popularity counter.
func BumpCoursePopularity(db *sql.DB, id string) error {
	result, err := db.Exec("UPDATE courses SET popularity = popularity + 1 WHERE id = ?", id)
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

func scanCourse(scan func(dest ...any) error) (*content.Course, error) {
	var (
		c          content.Course
		placesJSON string
	)

	if err := scan(&c.ID, &c.Name, &c.Description, &c.Theme, &placesJSON, &c.Popularity); err != nil {
		return nil, err
	}

	if placesJSON != "" {
		if err := json.Unmarshal([]byte(placesJSON), &c.Places); err != nil {
			return nil, err
		}
	}

	return &c, nil
}
