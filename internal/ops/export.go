package ops

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/db"
	"github.com/pohangstory/storyteller/internal/errors"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path           string  // optional, default: ~/.storyteller/exports/<trip>-<timestamp>.jsonl
	Trip           *string // optional filter by trip
	IncludeDeleted bool
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader represents the header line in a JSONL export file.
type ExportHeader struct {
	StorytellerExport bool   `json:"_storyteller_export"`
	SchemaVersion     string `json:"schema_version"`
	ExportedAt        int64  `json:"exported_at"`
}

// Export writes items to a JSONL file: one header line followed by one
// record per item. The body is staged under a temporary name and only
// renamed into place once fully written and synced, so a failed export
// never clobbers an existing file.
func Export(ctx context.Context, database *sql.DB, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := time.Now()
	exportedAt := now.Unix()

	input.Trip = cleanOptionalString(input.Trip)

	exportPath := input.Path
	if exportPath == "" {
		p, err := defaultExportPath(input.Trip, now)
		if err != nil {
			return nil, err
		}
		exportPath = p
	}

	// Generated defaults get the same vetting as user input; trip names
	// flow into them.
	if err := ValidatePath(exportPath, PathCheckWrite, cfg); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	file, tempPath, err := stageExport(exportPath)
	if err != nil {
		return nil, err
	}
	discard := func() {
		file.Close()
		os.Remove(tempPath)
	}

	count, err := writeExportBody(ctx, file, database, input, exportedAt)
	if err != nil {
		discard()
		return nil, err
	}
	if err := file.Sync(); err != nil {
		discard()
		return nil, errors.NewInternal(err)
	}
	// Closed before the rename; Windows cannot rename an open file.
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}

	if err := publishExport(tempPath, exportPath); err != nil {
		os.Remove(tempPath)
		return nil, err
	}

	return &ExportOutput{
		Path:       exportPath,
		Count:      count,
		ExportedAt: exportedAt,
	}, nil
}

// stageExport creates the temporary staging file next to the final
// destination, with a random suffix so concurrent exports cannot
// collide.
func stageExport(path string) (*os.File, string, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return nil, "", errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}

	tempPath := fmt.Sprintf("%s.%s.tmp", path, hex.EncodeToString(suffix))
	file, err := createNoFollow(tempPath)
	if err != nil {
		return nil, "", errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}
	return file, tempPath, nil
}

// writeExportBody emits the header line and then streams every matching
// item as one JSONL record, honoring cancellation between rows.
func writeExportBody(ctx context.Context, w io.Writer, database *sql.DB, input ExportInput, exportedAt int64) (int, error) {
	header := ExportHeader{
		StorytellerExport: true,
		SchemaVersion:     "1.0",
		ExportedAt:        exportedAt,
	}
	if err := writeJSONLine(w, header); err != nil {
		return 0, err
	}

	rows, err := db.StreamItemsForExport(ctx, database, input.Trip, input.IncludeDeleted)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		if ctx.Err() != nil {
			return 0, errors.NewCancelled("export")
		}

		item, err := db.ScanItemFromRows(rows)
		if err != nil {
			return 0, errors.NewInternal(err)
		}
		if err := writeJSONLine(w, content.ItemToExportRecord(item)); err != nil {
			return 0, err
		}
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, errors.NewInternal(err)
	}

	return count, nil
}

// writeJSONLine writes one value as a JSON line.
func writeJSONLine(w io.Writer, v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return errors.NewInternal(err)
	}
	if _, err := w.Write(append(line, '\n')); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// publishExport moves the staged file into place. The destination is
// re-checked for a symlink right before the rename because os.Rename
// follows one.
func publishExport(tempPath, finalPath string) error {
	if info, err := os.Lstat(finalPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		// os.Rename refuses to replace an existing file on Windows. Fail
		// and keep the original rather than fall back to delete+rename,
		// which could lose it.
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(finalPath); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows yet (choose a new path or delete the existing file)")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}
	return nil
}

// defaultExportPath builds ~/.storyteller/exports/<trip>-<timestamp>.jsonl,
// or all-<timestamp>.jsonl when no trip filter is set. The trip name is
// normalized and sanitized first; it is user input ending up in a path.
func defaultExportPath(trip *string, now time.Time) (string, error) {
	exportsDir, err := DefaultExportsDir()
	if err != nil {
		return "", err
	}

	name := "all"
	if trip != nil && *trip != "" {
		name = SanitizeForFilename(content.Normalize(*trip))
	}

	filename := fmt.Sprintf("%s-%s.jsonl", name, now.Format("2006-01-02T150405"))
	return filepath.Join(exportsDir, filename), nil
}
