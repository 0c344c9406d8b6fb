package ops

import (
	"testing"
	"time"

	"github.com/pohangstory/storyteller/internal/album"
	"github.com/pohangstory/storyteller/internal/errors"
)

func TestClassify_ByDate(t *testing.T) {
	database := setupTestDB(t)

	day1 := time.Date(2025, 1, 27, 7, 30, 0, 0, time.UTC).Unix()
	day2 := time.Date(2025, 1, 28, 12, 0, 0, 0, time.UTC).Unix()

	mustStore(t, database, StoreInput{Kind: "photo", Title: "일출", TakenAt: &day1})
	mustStore(t, database, StoreInput{Kind: "photo", Title: "점심", TakenAt: &day2})
	mustStore(t, database, StoreInput{Kind: "text", Title: "타임스탬프 없는 메모"})

	out, err := Classify(database, nil, ClassifyInput{Strategy: "date"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if len(out.Albums) != 2 {
		t.Fatalf("albums = %d, want 2 (timestamp-less item dropped)", len(out.Albums))
	}
	if out.Albums[0].ID != "date-2025-01-27" {
		t.Errorf("first album = %q", out.Albums[0].ID)
	}
}

func TestClassify_SmartKeepsDuplicates(t *testing.T) {
	database := setupTestDB(t)

	ts := time.Date(2025, 1, 27, 9, 0, 0, 0, time.UTC).Unix()
	mustStore(t, database, StoreInput{Kind: "photo", Title: "아침 산책", TakenAt: &ts})

	out, err := Classify(database, nil, ClassifyInput{Strategy: "smart"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	// The one item appears once per constituent grouping.
	seen := 0
	for _, a := range out.Albums {
		seen += len(a.Items)
	}
	if seen != 3 {
		t.Errorf("total memberships = %d, want 3 (timeofday + activity + emotion)", seen)
	}
}

func TestClassify_InvalidStrategy(t *testing.T) {
	database := setupTestDB(t)

	_, err := Classify(database, nil, ClassifyInput{Strategy: "magic"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestClassify_ExcludesDeletedItems(t *testing.T) {
	database := setupTestDB(t)

	keep := mustStore(t, database, StoreInput{Kind: "photo", Title: "남는 사진", Location: stringPtr("호미곶")})
	gone := mustStore(t, database, StoreInput{Kind: "photo", Title: "지운 사진", Location: stringPtr("호미곶")})
	if _, err := Delete(database, DeleteInput{ID: gone}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	out, err := Classify(database, nil, ClassifyInput{Strategy: "location"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if len(out.Albums) != 1 || len(out.Albums[0].Items) != 1 {
		t.Fatalf("albums = %+v, want single album with single item", out.Albums)
	}
	if out.Albums[0].Items[0].ID != keep {
		t.Errorf("member = %s, want %s", out.Albums[0].Items[0].ID, keep)
	}
}

func TestClassify_CustomClassifierTimezone(t *testing.T) {
	database := setupTestDB(t)

	// 23:00 UTC on the 26th is 08:00 KST on the 27th.
	ts := time.Date(2025, 1, 26, 23, 0, 0, 0, time.UTC).Unix()
	mustStore(t, database, StoreInput{Kind: "photo", Title: "아침", TakenAt: &ts})

	kst := time.FixedZone("KST", 9*60*60)
	classifier := &album.Classifier{Location: kst}

	out, err := Classify(database, classifier, ClassifyInput{Strategy: "date"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if len(out.Albums) != 1 || out.Albums[0].ID != "date-2025-01-27" {
		t.Errorf("albums = %+v, want date-2025-01-27 in KST", out.Albums)
	}
}

func TestClassify_EmptyTrip(t *testing.T) {
	database := setupTestDB(t)

	out, err := Classify(database, nil, ClassifyInput{Strategy: "theme"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if len(out.Albums) != 0 {
		t.Errorf("albums = %d, want 0 for empty trip", len(out.Albums))
	}
}
