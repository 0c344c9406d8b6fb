package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/db"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests

	return database, cfg
}

// runApp runs the CLI app with the given args, capturing stdout.
func runApp(t *testing.T, database *sql.DB, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	app := newCLIApp(database, cfg)
	runErr := app.Run(append([]string{"storyteller"}, args...))

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read captured stdout: %v", err)
	}
	return buf.String(), runErr
}

// TestParseTags tests the parseTags helper function.
func TestParseTags(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single tag",
			input:    "foo",
			expected: []string{"foo"},
		},
		{
			name:     "multiple tags",
			input:    "foo,bar,baz",
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "tags with spaces",
			input:    " foo , bar , baz ",
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "empty tags filtered",
			input:    "foo,,bar,",
			expected: []string{"foo", "bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseTags(tt.input)
			if len(result) != len(tt.expected) {
				t.Errorf("expected %d tags, got %d", len(tt.expected), len(result))
				return
			}
			for i, tag := range result {
				if tag != tt.expected[i] {
					t.Errorf("expected tag[%d]=%q, got %q", i, tt.expected[i], tag)
				}
			}
		})
	}
}

// TestParseDuration tests the parseDuration helper function.
func TestParseDuration(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    int
		expectError bool
	}{
		{
			name:     "valid days",
			input:    "7d",
			expected: 7,
		},
		{
			name:     "zero days",
			input:    "0d",
			expected: 0,
		},
		{
			name:        "negative days",
			input:       "-7d",
			expectError: true,
		},
		{
			name:        "no suffix",
			input:       "7",
			expectError: true,
		},
		{
			name:        "wrong suffix",
			input:       "7h",
			expectError: true,
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseDuration(tt.input)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

// TestCLIAdd tests the add command.
func TestCLIAdd(t *testing.T) {
	database, cfg := setupTestDB(t)

	output, err := runApp(t, database, cfg,
		"add", "--kind=photo", "--location=호미곶", "--tags=일출,자연", "호미곶 일출")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	var result struct {
		ID   string `json:"id"`
		Trip string `json:"trip"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("parse add output: %v", err)
	}
	if result.ID == "" {
		t.Error("expected non-empty id")
	}
	if result.Trip != "default" {
		t.Errorf("trip = %q, want default", result.Trip)
	}
}

// TestCLIAdd_MissingTitle tests that add without a title fails.
func TestCLIAdd_MissingTitle(t *testing.T) {
	database, cfg := setupTestDB(t)

	_, err := runApp(t, database, cfg, "add")
	if err == nil {
		t.Fatal("expected error for missing title")
	}
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

// TestCLIAdd_InvalidKind tests that an unknown kind is rejected.
func TestCLIAdd_InvalidKind(t *testing.T) {
	database, cfg := setupTestDB(t)

	_, err := runApp(t, database, cfg, "add", "--kind=audio", "some title")
	if err == nil {
		t.Fatal("expected error for invalid kind")
	}
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

// TestCLIFetch tests the fetch command.
func TestCLIFetch(t *testing.T) {
	database, cfg := setupTestDB(t)

	output, err := runApp(t, database, cfg, "add", "--kind=text", "메모")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	var added struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(output), &added); err != nil {
		t.Fatalf("parse add output: %v", err)
	}

	output, err = runApp(t, database, cfg, "fetch", added.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(output, "메모") {
		t.Error("expected item title in fetch output")
	}
}

// TestCLIFetch_NotFound tests fetch of a missing item.
func TestCLIFetch_NotFound(t *testing.T) {
	database, cfg := setupTestDB(t)

	_, err := runApp(t, database, cfg, "fetch", "NONEXISTENT")
	if err == nil {
		t.Fatal("expected error for missing item")
	}
	if !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

// TestCLIListAndDelete tests the list and delete commands.
func TestCLIListAndDelete(t *testing.T) {
	database, cfg := setupTestDB(t)

	output, err := runApp(t, database, cfg, "add", "--kind=photo", "물회")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	var added struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(output), &added); err != nil {
		t.Fatalf("parse add output: %v", err)
	}

	output, err = runApp(t, database, cfg, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(output, "물회") {
		t.Error("expected item in list output")
	}

	if _, err = runApp(t, database, cfg, "delete", added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	output, err = runApp(t, database, cfg, "list")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if strings.Contains(output, "물회") {
		t.Error("deleted item should not appear in list output")
	}
}

// TestCLIUpdate tests the update command.
func TestCLIUpdate(t *testing.T) {
	database, cfg := setupTestDB(t)

	output, err := runApp(t, database, cfg, "add", "--kind=text", "old title")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	var added struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(output), &added); err != nil {
		t.Fatalf("parse add output: %v", err)
	}

	if _, err = runApp(t, database, cfg, "update", "--title=new title", added.ID); err != nil {
		t.Fatalf("update: %v", err)
	}

	output, err = runApp(t, database, cfg, "fetch", added.ID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !strings.Contains(output, "new title") {
		t.Error("expected updated title in fetch output")
	}
}

// TestCLISearch tests the search command.
func TestCLISearch(t *testing.T) {
	database, cfg := setupTestDB(t)

	if _, err := runApp(t, database, cfg, "add", "--kind=photo", "죽도시장 회"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := runApp(t, database, cfg, "add", "--kind=photo", "영일대 야경"); err != nil {
		t.Fatalf("add: %v", err)
	}

	output, err := runApp(t, database, cfg, "search", "죽도시장")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(output, "죽도시장 회") {
		t.Error("expected matching item in search output")
	}
	if strings.Contains(output, "영일대 야경") {
		t.Error("did not expect non-matching item in search output")
	}
}

// TestCLIClassify tests the classify command.
func TestCLIClassify(t *testing.T) {
	database, cfg := setupTestDB(t)

	if _, err := runApp(t, database, cfg, "add", "--kind=photo", "--location=구룡포", "대게"); err != nil {
		t.Fatalf("add: %v", err)
	}

	output, err := runApp(t, database, cfg, "classify", "location")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.Contains(output, "구룡포") {
		t.Error("expected location album in classify output")
	}

	if _, err := runApp(t, database, cfg, "classify", "vibes"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

// TestCLIStampLifecycle tests stamp collection and listing.
func TestCLIStampLifecycle(t *testing.T) {
	database, cfg := setupTestDB(t)

	output, err := runApp(t, database, cfg, "stamp", "pohang-stamp:homigot-sunrise:호미곶 해맞이광장")
	if err != nil {
		t.Fatalf("stamp: %v", err)
	}
	if !strings.Contains(output, "homigot-sunrise") {
		t.Error("expected place id in stamp output")
	}

	// Second collection of the same place conflicts
	if _, err := runApp(t, database, cfg, "stamp", "pohang-stamp:homigot-sunrise"); err == nil {
		t.Fatal("expected error for duplicate stamp")
	}

	output, err = runApp(t, database, cfg, "stamps")
	if err != nil {
		t.Fatalf("stamps: %v", err)
	}
	var stamps struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal([]byte(output), &stamps); err != nil {
		t.Fatalf("parse stamps output: %v", err)
	}
	if stamps.Total != 1 {
		t.Errorf("total = %d, want 1", stamps.Total)
	}
}

// TestCLIRecommend tests the recommend command.
func TestCLIRecommend(t *testing.T) {
	database, cfg := setupTestDB(t)

	output, err := runApp(t, database, cfg, "recommend", "--theme=food")
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}

	var result struct {
		Source  string `json:"source"`
		Courses []struct {
			Theme string `json:"theme"`
		} `json:"courses"`
	}
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("parse recommend output: %v", err)
	}
	if result.Source != "local" {
		t.Errorf("source = %q, want local", result.Source)
	}
	for _, c := range result.Courses {
		if c.Theme != "food" {
			t.Errorf("course theme = %q, want food", c.Theme)
		}
	}
}

// TestCLIExportImport tests the export/import roundtrip.
func TestCLIExportImport(t *testing.T) {
	database, cfg := setupTestDB(t)

	if _, err := runApp(t, database, cfg, "add", "--kind=photo", "roundtrip item"); err != nil {
		t.Fatalf("add: %v", err)
	}

	exportPath := filepath.Join(t.TempDir(), "trip.jsonl")
	output, err := runApp(t, database, cfg, "export", "--path", exportPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var exported struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(output), &exported); err != nil {
		t.Fatalf("parse export output: %v", err)
	}
	if exported.Count != 1 {
		t.Errorf("count = %d, want 1", exported.Count)
	}

	// Import into a fresh database
	database2, cfg2 := setupTestDB(t)
	output, err = runApp(t, database2, cfg2, "import", "--path", exportPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(output, "\"imported\": 1") {
		t.Errorf("import output = %s, want imported 1", output)
	}

	output, err = runApp(t, database2, cfg2, "list")
	if err != nil {
		t.Fatalf("list after import: %v", err)
	}
	if !strings.Contains(output, "roundtrip item") {
		t.Error("expected imported item in list output")
	}
}

// TestCLIPurge tests the purge command.
func TestCLIPurge(t *testing.T) {
	database, cfg := setupTestDB(t)

	output, err := runApp(t, database, cfg, "add", "--kind=text", "to purge")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	var added struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(output), &added); err != nil {
		t.Fatalf("parse add output: %v", err)
	}

	if _, err := runApp(t, database, cfg, "delete", added.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	output, err = runApp(t, database, cfg, "purge")
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	var purged struct {
		Purged int `json:"purged"`
	}
	if err := json.Unmarshal([]byte(output), &purged); err != nil {
		t.Fatalf("parse purge output: %v", err)
	}
	if purged.Purged != 1 {
		t.Errorf("purged = %d, want 1", purged.Purged)
	}

	// Item is now permanently gone, even with include-deleted
	if _, err := runApp(t, database, cfg, "fetch", "--include-deleted", added.ID); err == nil {
		t.Fatal("expected NOT_FOUND after purge")
	}
}

// TestCLIPurge_InvalidOlderThan tests purge duration validation.
func TestCLIPurge_InvalidOlderThan(t *testing.T) {
	database, cfg := setupTestDB(t)

	_, err := runApp(t, database, cfg, "purge", "--older-than", "seven")
	if err == nil {
		t.Fatal("expected error for bad duration")
	}
	if !strings.Contains(err.Error(), "INVALID_REQUEST") {
		t.Errorf("error = %v, want INVALID_REQUEST", err)
	}
}

// TestIsCLIMode tests mode detection from os.Args.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		args     []string
		expected bool
	}{
		{[]string{"storyteller"}, false},
		{[]string{"storyteller", "list"}, true},
		{[]string{"storyteller", "stamp"}, true},
		{[]string{"storyteller", "serve"}, true},
		{[]string{"storyteller", "--help"}, true},
		{[]string{"storyteller", "-v"}, true},
		{[]string{"storyteller", "bogus"}, false},
	}

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	for _, tt := range tests {
		os.Args = tt.args
		if got := isCLIMode(); got != tt.expected {
			t.Errorf("isCLIMode(%v) = %v, want %v", tt.args, got, tt.expected)
		}
	}
}
