package ops

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/db"
	"github.com/pohangstory/storyteller/internal/errors"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on id collision (atomic)
	ImportModeReplace ImportMode = "replace" // overwrite on id collision
	ImportModeSkip    ImportMode = "skip"    // skip colliding records
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError represents an error that occurred during import.
type ImportError struct {
	Line    int    `json:"line,omitempty"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import reads items from a JSONL export file.
func Import(database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace && input.Mode != ImportModeSkip {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, skip")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openNoFollow(input.Path)
	if err != nil {
		if _, ok := err.(*errors.StoryError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	records, parseErrors := parseExportFile(file)

	// For mode:error, fail on any parse errors
	if input.Mode == ImportModeError && len(parseErrors) > 0 {
		return &ImportOutput{Errors: parseErrors}, nil
	}

	switch input.Mode {
	case ImportModeError:
		return importModeError(database, records)
	case ImportModeReplace:
		return importModeReplace(database, records, parseErrors)
	default:
		return importModeSkip(database, records, parseErrors)
	}
}

// parseExportFile parses a JSONL export file into records.
func parseExportFile(file io.Reader) ([]content.ExportRecord, []ImportError) {
	var records []content.ExportRecord
	var parseErrors []ImportError

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		var record content.ExportRecord
		if err := json.Unmarshal(line, &record); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		// Skip header line
		if record.StorytellerExport {
			continue
		}

		if record.ID == "" {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "INVALID_RECORD",
				Message: "missing id field",
			})
			continue
		}
		if !content.ValidKind(record.Kind) {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				ID:      record.ID,
				Code:    "INVALID_RECORD",
				Message: fmt.Sprintf("unknown kind %q", record.Kind),
			})
			continue
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return records, parseErrors
}

// importModeError imports all records atomically, aborting on any collision.
func importModeError(database *sql.DB, records []content.ExportRecord) (*ImportOutput, error) {
	// Collision check up front so nothing is written on failure.
	for _, record := range records {
		existing, err := db.GetItemByID(database, record.ID, true)
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return &ImportOutput{
				Errors: []ImportError{{
					ID:      record.ID,
					Code:    "ID_COLLISION",
					Message: fmt.Sprintf("item with id %q already exists", record.ID),
				}},
			}, nil
		}
	}

	imported := 0
	for _, record := range records {
		if err := db.InsertItem(database, record.ToItem()); err != nil {
			return nil, err
		}
		imported++
	}

	return &ImportOutput{Imported: imported}, nil
}

// importModeReplace imports records, overwriting existing items on id collision.
func importModeReplace(database *sql.DB, records []content.ExportRecord, parseErrors []ImportError) (*ImportOutput, error) {
	imported := 0
	skipped := len(parseErrors)
	importErrors := append([]ImportError(nil), parseErrors...)

	for _, record := range records {
		if err := db.ReplaceItem(database, record.ToItem()); err != nil {
			return nil, err
		}
		imported++
	}

	return &ImportOutput{
		Imported: imported,
		Skipped:  skipped,
		Errors:   importErrors,
	}, nil
}

// importModeSkip imports records, skipping any whose id already exists.
func importModeSkip(database *sql.DB, records []content.ExportRecord, parseErrors []ImportError) (*ImportOutput, error) {
	imported := 0
	skipped := len(parseErrors)
	importErrors := append([]ImportError(nil), parseErrors...)

	for _, record := range records {
		existing, err := db.GetItemByID(database, record.ID, true)
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			skipped++
			continue
		}

		if err := db.InsertItem(database, record.ToItem()); err != nil {
			return nil, err
		}
		imported++
	}

	return &ImportOutput{
		Imported: imported,
		Skipped:  skipped,
		Errors:   importErrors,
	}, nil
}
