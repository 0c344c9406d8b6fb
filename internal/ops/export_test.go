package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/content"
)

func exportConfig(dir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.AllowedPaths = []string{dir}
	return cfg
}

func TestExport_WritesHeaderAndRecords(t *testing.T) {
	database := setupTestDB(t)
	exportDir := t.TempDir()
	cfg := exportConfig(exportDir)

	mustStore(t, database, StoreInput{Trip: "Winter Trip", Kind: "photo", Title: "호미곶"})
	mustStore(t, database, StoreInput{Trip: "Winter Trip", Kind: "text", Title: "메모"})

	path := filepath.Join(exportDir, "winter.jsonl")
	out, err := Export(context.Background(), database, cfg, ExportInput{Path: path})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.Count != 2 {
		t.Errorf("Count = %d, want 2", out.Count)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	if !scanner.Scan() {
		t.Fatal("export file is empty")
	}

	var header ExportHeader
	if err := json.Unmarshal(scanner.Bytes(), &header); err != nil {
		t.Fatalf("header parse: %v", err)
	}
	if !header.StorytellerExport || header.SchemaVersion != "1.0" {
		t.Errorf("header = %+v", header)
	}

	lines := 0
	for scanner.Scan() {
		var record content.ExportRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("record parse: %v", err)
		}
		if record.ID == "" {
			t.Error("record missing id")
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("record lines = %d, want 2", lines)
	}
}

func TestExport_TripFilter(t *testing.T) {
	database := setupTestDB(t)
	exportDir := t.TempDir()
	cfg := exportConfig(exportDir)

	mustStore(t, database, StoreInput{Trip: "Trip One", Kind: "text", Title: "하나"})
	mustStore(t, database, StoreInput{Trip: "Trip Two", Kind: "text", Title: "둘"})

	path := filepath.Join(exportDir, "one.jsonl")
	out, err := Export(context.Background(), database, cfg, ExportInput{
		Path: path,
		Trip: stringPtr("Trip One"),
	})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.Count != 1 {
		t.Errorf("Count = %d, want 1", out.Count)
	}
}

func TestExport_IncludeDeleted(t *testing.T) {
	database := setupTestDB(t)
	exportDir := t.TempDir()
	cfg := exportConfig(exportDir)

	id := mustStore(t, database, StoreInput{Kind: "text", Title: "지운 메모"})
	if _, err := Delete(database, DeleteInput{ID: id}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	path := filepath.Join(exportDir, "active.jsonl")
	out, err := Export(context.Background(), database, cfg, ExportInput{Path: path})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.Count != 0 {
		t.Errorf("active Count = %d, want 0", out.Count)
	}

	path = filepath.Join(exportDir, "all.jsonl")
	out, err = Export(context.Background(), database, cfg, ExportInput{Path: path, IncludeDeleted: true})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.Count != 1 {
		t.Errorf("include_deleted Count = %d, want 1", out.Count)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	source := setupTestDB(t)
	target := setupTestDB(t)
	exportDir := t.TempDir()
	cfg := exportConfig(exportDir)

	caption := "# 일출\n\n멋진 아침"
	mustStore(t, source, StoreInput{
		Trip:    "Winter Trip",
		Kind:    "photo",
		Title:   "호미곶 일출",
		Caption: &caption,
		Tags:    []string{"일출"},
	})

	path := filepath.Join(exportDir, "trip.jsonl")
	if _, err := Export(context.Background(), source, cfg, ExportInput{Path: path}); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	imported, err := Import(target, cfg, ImportInput{Path: path})
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if imported.Imported != 1 {
		t.Errorf("Imported = %d, want 1", imported.Imported)
	}

	out, err := List(target, ListInput{Trip: "winter trip"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Pagination.Total != 1 {
		t.Errorf("Total = %d, want 1", out.Pagination.Total)
	}
}
