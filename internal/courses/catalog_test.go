package courses

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "courses.csv")
	csv := "course_id,title,tags,level,android_url,ios_url,diamonds\n" +
		"10,Smart Groceries,groceries savings,beginner,https://a.example,https://i.example,30\n" +
		"11,Eat Well Cheap,eating out,beginner,https://a.example,https://i.example,40\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat) != 2 {
		t.Fatalf("want 2 courses, got %d", len(cat))
	}
	if cat[0].ID != "10" || cat[0].Title != "Smart Groceries" || cat[0].Diamonds != "30" {
		t.Fatalf("unexpected first course: %+v", cat[0])
	}
	if !cat[1].MatchesTag("Eating Out") {
		t.Fatalf("tag match should be case-insensitive")
	}
}

func TestLoad_MissingFileUsesFallback(t *testing.T) {
	cat, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cat) != 1 {
		t.Fatalf("fallback should hold one course, got %d", len(cat))
	}
	if cat[0].Title != "Budgeting Basics" {
		t.Fatalf("unexpected fallback course: %+v", cat[0])
	}
	if !cat[0].MatchesTag("savings") {
		t.Fatalf("fallback course should carry the savings tag")
	}
}

func TestByID(t *testing.T) {
	cat := Catalog{{ID: "1", Title: "A"}, {ID: "2", Title: "B"}}
	if c, ok := cat.ByID("2"); !ok || c.Title != "B" {
		t.Fatalf("ByID(2): got %+v ok=%v", c, ok)
	}
	if _, ok := cat.ByID("missing"); ok {
		t.Fatalf("ByID(missing) should report not found")
	}
}
