package ops

import (
	"testing"
)

func TestList_PaginationMetadata(t *testing.T) {
	database := setupTestDB(t)

	for i := 0; i < 25; i++ {
		mustStore(t, database, StoreInput{Kind: "text", Title: "메모"})
	}

	out, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != DefaultListLimit {
		t.Errorf("len = %d, want %d", len(out.Items), DefaultListLimit)
	}
	if out.Pagination.Total != 25 {
		t.Errorf("Total = %d, want 25", out.Pagination.Total)
	}
	if !out.Pagination.HasMore {
		t.Error("HasMore = false, want true")
	}

	out, err = List(database, ListInput{Offset: 20})
	if err != nil {
		t.Fatalf("List(offset) failed: %v", err)
	}
	if len(out.Items) != 5 {
		t.Errorf("second page len = %d, want 5", len(out.Items))
	}
	if out.Pagination.HasMore {
		t.Error("HasMore = true on last page")
	}
}

func TestList_TripScoping(t *testing.T) {
	database := setupTestDB(t)

	mustStore(t, database, StoreInput{Trip: "Trip One", Kind: "text", Title: "하나"})
	mustStore(t, database, StoreInput{Trip: "trip  one", Kind: "text", Title: "둘"})
	mustStore(t, database, StoreInput{Trip: "Trip Two", Kind: "text", Title: "셋"})

	// Normalized trips collapse to the same bucket.
	out, err := List(database, ListInput{Trip: "TRIP ONE"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Pagination.Total != 2 {
		t.Errorf("Total = %d, want 2", out.Pagination.Total)
	}
}

func TestList_ExcludesDeleted(t *testing.T) {
	database := setupTestDB(t)

	keep := mustStore(t, database, StoreInput{Kind: "text", Title: "남김"})
	gone := mustStore(t, database, StoreInput{Kind: "text", Title: "지움"})
	if _, err := Delete(database, DeleteInput{ID: gone}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	out, err := List(database, ListInput{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Pagination.Total != 1 || out.Items[0].ID != keep {
		t.Errorf("items = %+v, want only %s", out.Items, keep)
	}

	out, err = List(database, ListInput{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("List(include_deleted) failed: %v", err)
	}
	if out.Pagination.Total != 2 {
		t.Errorf("include_deleted Total = %d, want 2", out.Pagination.Total)
	}
}
