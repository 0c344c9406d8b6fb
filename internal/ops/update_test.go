package ops

import (
	"testing"

	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/errors"
)

func TestUpdate_PartialFields(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	id := mustStore(t, database, StoreInput{
		Kind:     "photo",
		Title:    "원래 제목",
		Location: stringPtr("호미곶"),
	})

	_, err := Update(database, cfg, UpdateInput{
		ID:    id,
		Title: stringPtr("새 제목"),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := Fetch(database, FetchInput{ID: id})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Item.Title != "새 제목" {
		t.Errorf("Title = %q", fetched.Item.Title)
	}
	// Untouched field survives.
	if fetched.Item.Location == nil || *fetched.Item.Location != "호미곶" {
		t.Error("Location should be unchanged")
	}
}

func TestUpdate_ClearCaption(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	id := mustStore(t, database, StoreInput{
		Kind:    "text",
		Title:   "메모",
		Caption: stringPtr("지워질 캡션"),
	})

	_, err := Update(database, cfg, UpdateInput{ID: id, Caption: stringPtr("")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := Fetch(database, FetchInput{ID: id})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Item.Caption != nil {
		t.Error("Caption should be cleared")
	}
	if fetched.Item.CaptionChars != 0 {
		t.Errorf("CaptionChars = %d, want 0", fetched.Item.CaptionChars)
	}
}

func TestUpdate_Validation(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	id := mustStore(t, database, StoreInput{Kind: "photo", Title: "사진"})

	// No editable fields.
	if _, err := Update(database, cfg, UpdateInput{ID: id}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("no fields err = %v, want INVALID_REQUEST", err)
	}

	// Empty title.
	if _, err := Update(database, cfg, UpdateInput{ID: id, Title: stringPtr("  ")}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty title err = %v, want INVALID_REQUEST", err)
	}

	// Lone coordinate.
	lat := 36.0
	if _, err := Update(database, cfg, UpdateInput{ID: id, Lat: &lat}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("lone lat err = %v, want INVALID_REQUEST", err)
	}

	// Missing item.
	if _, err := Update(database, cfg, UpdateInput{ID: "nope", Title: stringPtr("x")}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing item err = %v, want NOT_FOUND", err)
	}
}

func TestUpdate_DeletedItemNotFound(t *testing.T) {
	database := setupTestDB(t)
	cfg := config.DefaultConfig()

	id := mustStore(t, database, StoreInput{Kind: "text", Title: "메모"})
	if _, err := Delete(database, DeleteInput{ID: id}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := Update(database, cfg, UpdateInput{ID: id, Title: stringPtr("x")}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
