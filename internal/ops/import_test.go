package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pohangstory/storyteller/internal/errors"
)

func writeImportFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestImport_ModeError_AbortsOnCollision(t *testing.T) {
	database := setupTestDB(t)
	dir := t.TempDir()
	cfg := exportConfig(dir)

	existing := mustStore(t, database, StoreInput{Kind: "text", Title: "기존 메모"})

	body := `{"_storyteller_export":true,"schema_version":"1.0"}
{"id":"` + existing + `","trip_raw":"default","kind":"text","title":"충돌"}
`
	path := writeImportFile(t, dir, "collide.jsonl", body)

	out, err := Import(database, cfg, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Imported != 0 {
		t.Errorf("Imported = %d, want 0", out.Imported)
	}
	if len(out.Errors) != 1 || out.Errors[0].Code != "ID_COLLISION" {
		t.Errorf("Errors = %+v, want ID_COLLISION", out.Errors)
	}
}

func TestImport_ModeReplace_Overwrites(t *testing.T) {
	database := setupTestDB(t)
	dir := t.TempDir()
	cfg := exportConfig(dir)

	existing := mustStore(t, database, StoreInput{Kind: "text", Title: "옛 제목"})

	body := `{"id":"` + existing + `","trip_raw":"default","kind":"text","title":"새 제목","created_at":1,"updated_at":2}
`
	path := writeImportFile(t, dir, "replace.jsonl", body)

	out, err := Import(database, cfg, ImportInput{Path: path, Mode: ImportModeReplace})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Imported != 1 {
		t.Errorf("Imported = %d, want 1", out.Imported)
	}

	fetched, err := Fetch(database, FetchInput{ID: existing})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Item.Title != "새 제목" {
		t.Errorf("Title = %q, want replaced", fetched.Item.Title)
	}
}

func TestImport_ModeSkip_SkipsCollisions(t *testing.T) {
	database := setupTestDB(t)
	dir := t.TempDir()
	cfg := exportConfig(dir)

	existing := mustStore(t, database, StoreInput{Kind: "text", Title: "기존"})

	body := `{"id":"` + existing + `","trip_raw":"default","kind":"text","title":"충돌"}
{"id":"01NEWITEM","trip_raw":"default","kind":"text","title":"신규","created_at":1,"updated_at":1}
`
	path := writeImportFile(t, dir, "skip.jsonl", body)

	out, err := Import(database, cfg, ImportInput{Path: path, Mode: ImportModeSkip})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Imported != 1 || out.Skipped != 1 {
		t.Errorf("Imported/Skipped = %d/%d, want 1/1", out.Imported, out.Skipped)
	}

	// The existing item is untouched.
	fetched, err := Fetch(database, FetchInput{ID: existing})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Item.Title != "기존" {
		t.Errorf("Title = %q, want original", fetched.Item.Title)
	}
}

func TestImport_InvalidRecords(t *testing.T) {
	database := setupTestDB(t)
	dir := t.TempDir()
	cfg := exportConfig(dir)

	body := `{not json}
{"id":"","trip_raw":"default","kind":"text","title":"no id"}
{"id":"01BADKIND","trip_raw":"default","kind":"audio","title":"bad kind"}
`
	path := writeImportFile(t, dir, "bad.jsonl", body)

	// mode:error fails fast without importing.
	out, err := Import(database, cfg, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if out.Imported != 0 || len(out.Errors) != 3 {
		t.Errorf("Imported = %d, Errors = %d; want 0 and 3", out.Imported, len(out.Errors))
	}
}

func TestImport_PathValidation(t *testing.T) {
	database := setupTestDB(t)
	dir := t.TempDir()
	cfg := exportConfig(dir)

	// Wrong extension.
	path := writeImportFile(t, dir, "data.txt", "{}")
	if _, err := Import(database, cfg, ImportInput{Path: path}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("wrong extension err = %v, want INVALID_REQUEST", err)
	}

	// Missing file.
	missing := filepath.Join(dir, "missing.jsonl")
	if _, err := Import(database, cfg, ImportInput{Path: missing}); !errors.Is(err, errors.ErrFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestPurge_RemovesOnlySoftDeleted(t *testing.T) {
	database := setupTestDB(t)

	keep := mustStore(t, database, StoreInput{Kind: "text", Title: "남김"})
	gone := mustStore(t, database, StoreInput{Kind: "text", Title: "지움"})
	if _, err := Delete(database, DeleteInput{ID: gone}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	out, err := Purge(database, PurgeInput{})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Purged != 1 {
		t.Errorf("Purged = %d, want 1", out.Purged)
	}

	if _, err := Fetch(database, FetchInput{ID: gone, IncludeDeleted: true}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("purged item still present: %v", err)
	}
	if _, err := Fetch(database, FetchInput{ID: keep}); err != nil {
		t.Errorf("active item removed by purge: %v", err)
	}
}

func TestPurge_OlderThanDays(t *testing.T) {
	database := setupTestDB(t)

	id := mustStore(t, database, StoreInput{Kind: "text", Title: "방금 지움"})
	if _, err := Delete(database, DeleteInput{ID: id}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// Deleted just now, so a 7-day threshold keeps it.
	days := 7
	out, err := Purge(database, PurgeInput{OlderThanDays: &days})
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if out.Purged != 0 {
		t.Errorf("Purged = %d, want 0", out.Purged)
	}
}
