package storage

import (
	"path/filepath"
	"testing"

	"github.com/folio-cv/folio/internal/publication"
)

// setupTestDB creates a test database rebuilt from a JSONL file of testPubs.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir := t.TempDir()
	jsonlPath := filepath.Join(tmpDir, "publications.jsonl")
	if err := WriteAll(jsonlPath, testPubs()); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}

	db, err := OpenDB(filepath.Join(tmpDir, "publications.db"))
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	n, err := db.RebuildFromJSONL(jsonlPath)
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	if n != 3 {
		t.Fatalf("RebuildFromJSONL() = %d, want 3", n)
	}
	return db
}

func TestDB_GetByID(t *testing.T) {
	db := setupTestDB(t)

	p, err := db.GetByID("prja2")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if p == nil {
		t.Fatal("GetByID() returned nil")
	}
	if p.Type != publication.Journal || p.Details != "51(10), 1314-1335" || len(p.Tags) != 2 {
		t.Errorf("GetByID() = %+v", p)
	}

	missing, err := db.GetByID("nope")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetByID(missing) = %+v, want nil", missing)
	}
}

func TestDB_ListAll(t *testing.T) {
	db := setupTestDB(t)

	pubs, err := db.ListAll(0)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(pubs) != 3 {
		t.Fatalf("ListAll() returned %d, want 3", len(pubs))
	}
	// Newest first; the qualified year sorts as 0.
	wantIDs := []string{"prja2", "bc1", "wip1"}
	for i, want := range wantIDs {
		if pubs[i].ID != want {
			t.Errorf("ListAll()[%d] = %q, want %q", i, pubs[i].ID, want)
		}
	}

	limited, err := db.ListAll(1)
	if err != nil {
		t.Fatalf("ListAll(1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("ListAll(1) returned %d", len(limited))
	}
}

func TestDB_ListByType(t *testing.T) {
	db := setupTestDB(t)

	pubs, err := db.ListByType(publication.BookChapter)
	if err != nil {
		t.Fatalf("ListByType() error = %v", err)
	}
	if len(pubs) != 1 || pubs[0].ID != "bc1" {
		t.Errorf("ListByType() = %+v", pubs)
	}
}

func TestDB_Search(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"poverty", []string{"prja2"}},
		{"Singh", []string{"prja2", "bc1", "wip1"}},
		{"entrepreneurship", []string{"prja2"}},
		{"IGI-Global", nil},
		{"Management Education", []string{"bc1"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			pubs, err := db.Search(tt.query, 10)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(pubs) != len(tt.want) {
				t.Fatalf("Search(%q) returned %d results, want %d", tt.query, len(pubs), len(tt.want))
			}
			for i, want := range tt.want {
				if pubs[i].ID != want {
					t.Errorf("Search(%q)[%d] = %q, want %q", tt.query, i, pubs[i].ID, want)
				}
			}
		})
	}
}

func TestDB_Counts(t *testing.T) {
	db := setupTestDB(t)

	n, err := db.Count()
	if err != nil || n != 3 {
		t.Errorf("Count() = %d, %v", n, err)
	}

	counts, err := db.CountByType()
	if err != nil {
		t.Fatalf("CountByType() error = %v", err)
	}
	if counts[publication.Journal] != 1 || counts[publication.InProgress] != 1 {
		t.Errorf("CountByType() = %v", counts)
	}
}

func TestDB_RebuildReplaces(t *testing.T) {
	db := setupTestDB(t)

	path := filepath.Join(t.TempDir(), "publications.jsonl")
	if err := WriteAll(path, testPubs()[:1]); err != nil {
		t.Fatal(err)
	}
	if _, err := db.RebuildFromJSONL(path); err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	if n, _ := db.Count(); n != 1 {
		t.Errorf("Count() after rebuild = %d, want 1", n)
	}
	if pubs, _ := db.Search("Punjab", 10); len(pubs) != 0 {
		t.Errorf("stale FTS rows after rebuild: %+v", pubs)
	}
}

func TestPrepareFTSQuery(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"poverty", "poverty"},
		{"  ", ""},
		{"IGI-Global", `"IGI-Global"`},
		{`say "hi"`, `"say ""hi"""`},
	}
	for _, tt := range tests {
		if got := prepareFTSQuery(tt.in); got != tt.want {
			t.Errorf("prepareFTSQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
