package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/thithuypham/folio/internal/catalog"
	"github.com/thithuypham/folio/internal/publication"
)

// setupTestDB opens a fresh database rebuilt from the valid fixture.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	n, err := db.RebuildFromJSONL(fixture("valid.jsonl"))
	if err != nil {
		t.Fatalf("Failed to rebuild DB: %v", err)
	}
	if n != 11 {
		t.Fatalf("RebuildFromJSONL() = %d, want 11", n)
	}
	return db
}

func ids(pubs []publication.Publication) []string {
	out := make([]string, len(pubs))
	for i, p := range pubs {
		out[i] = p.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRebuildFromJSONL_Idempotent(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.RebuildFromJSONL(fixture("valid.jsonl")); err != nil {
		t.Fatalf("second RebuildFromJSONL() error = %v", err)
	}
	count, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 11 {
		t.Errorf("Count() = %d, want 11", count)
	}
}

func TestRebuildFromJSONL_InvalidCatalog(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.RebuildFromJSONL(fixture("duplicate_id.jsonl"))
	var verr *publication.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("RebuildFromJSONL() error = %v, want *ValidationError", err)
	}

	// A failed rebuild leaves the previous contents in place.
	count, err := db.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 11 {
		t.Errorf("Count() = %d, want 11", count)
	}
}

func TestRebuildFromJSONL_Empty(t *testing.T) {
	db := setupTestDB(t)

	n, err := db.RebuildFromJSONL(fixture("empty.jsonl"))
	if err != nil {
		t.Fatalf("RebuildFromJSONL() error = %v", err)
	}
	if n != 0 {
		t.Errorf("RebuildFromJSONL() = %d, want 0", n)
	}
	all, err := db.ListAll(0)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Errorf("ListAll() = %v, want empty non-nil slice", all)
	}
}

func TestGetByID(t *testing.T) {
	db := setupTestDB(t)

	p, err := db.GetByID("pham2023model")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if p == nil {
		t.Fatal("GetByID() returned nil")
	}
	if p.Volume != "12592" || p.Organization != "SPIE" || p.Publisher != "" {
		t.Errorf("GetByID() = %+v", p)
	}
	if p.Links[publication.LinkCode] != publication.Placeholder {
		t.Errorf("code link = %q, want placeholder", p.Links[publication.LinkCode])
	}
	if len(p.Authors) != 3 {
		t.Errorf("Authors = %v", p.Authors)
	}

	missing, err := db.GetByID("nope")
	if err != nil {
		t.Fatalf("GetByID(nope) error = %v", err)
	}
	if missing != nil {
		t.Errorf("GetByID(nope) = %+v, want nil", missing)
	}
}

func TestListAll(t *testing.T) {
	db := setupTestDB(t)

	all, err := db.ListAll(0)
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	src, err := ReadAll(fixture("valid.jsonl"))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !equalIDs(ids(all), ids(src)) {
		t.Errorf("ListAll() order = %v, want file order %v", ids(all), ids(src))
	}

	limited, err := db.ListAll(3)
	if err != nil {
		t.Fatalf("ListAll(3) error = %v", err)
	}
	if len(limited) != 3 {
		t.Errorf("ListAll(3) returned %d", len(limited))
	}
}

func TestQuery_MatchesCatalogFilter(t *testing.T) {
	db := setupTestDB(t)
	src, err := ReadAll(fixture("valid.jsonl"))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	years := append([]string{catalog.All}, catalog.DistinctYears(src)...)
	types := append([]string{catalog.All}, catalog.DistinctTypes(src)...)
	years = append(years, "1999")

	for _, y := range years {
		for _, typ := range types {
			got, err := db.Query(QueryFilters{Year: y, Type: typ})
			if err != nil {
				t.Fatalf("Query(%s, %s) error = %v", y, typ, err)
			}
			want := catalog.Flatten(catalog.GroupByYear(catalog.Filter(src, y, typ)))
			if !equalIDs(ids(got), ids(want)) {
				t.Errorf("Query(%s, %s) = %v, want %v", y, typ, ids(got), ids(want))
			}
		}
	}
}

func TestQuery(t *testing.T) {
	db := setupTestDB(t)

	tests := []struct {
		name    string
		filters QueryFilters
		want    []string
	}{
		{
			name:    "keyword",
			filters: QueryFilters{Keyword: "underwater"},
			want:    []string{"pham2025physics", "pham2025dual", "thuy2023icip", "thuy2023apsipa", "pham2023model"},
		},
		{
			name:    "keyword and type",
			filters: QueryFilters{Keyword: "underwater", Type: "journal"},
			want:    []string{"pham2025physics", "pham2025dual"},
		},
		{
			name:    "keyword with punctuation",
			filters: QueryFilters{Keyword: "Vietnamese punctuation"},
			want:    []string{"pham2020vietnamese"},
		},
		{
			name:    "author prefix",
			filters: QueryFilters{Author: "Jaem"},
			want:    []string{"park2024image", "park2023multiple"},
		},
		{
			name:    "venue substring matches short venue",
			filters: QueryFilters{Venue: "jvci"},
			want:    []string{"pham2025dual", "park2023multiple"},
		},
		{
			name:    "year and venue",
			filters: QueryFilters{Year: "2023", Venue: "Journal of Visual"},
			want:    []string{"park2023multiple"},
		},
		{
			name:    "venue percent is literal",
			filters: QueryFilters{Venue: "%"},
			want:    []string{},
		},
		{
			name:    "venue with underscore",
			filters: QueryFilters{Venue: "SoMeT_20"},
			want:    []string{"fujita2020atgw"},
		},
		{
			name:    "venue underscore is literal",
			filters: QueryFilters{Venue: "J_CI"},
			want:    []string{},
		},
		{
			name:    "limit",
			filters: QueryFilters{Type: "conference", Limit: 2},
			want:    []string{"thuy2023icip", "thuy2023apsipa"},
		},
		{
			name:    "no match",
			filters: QueryFilters{Keyword: "blockchain"},
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Query(tt.filters)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if !equalIDs(ids(got), tt.want) {
				t.Errorf("Query() = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"JVCI", "JVCI"},
		{"100%", `100\%`},
		{"J_CI", `J\_CI`},
		{`a\b`, `a\\b`},
	}
	for _, tt := range tests {
		if got := escapeLike(tt.in); got != tt.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCountByType(t *testing.T) {
	db := setupTestDB(t)

	counts, err := db.CountByType()
	if err != nil {
		t.Fatalf("CountByType() error = %v", err)
	}
	if counts["journal"] != 4 || counts["conference"] != 7 {
		t.Errorf("CountByType() = %v, want journal=4 conference=7", counts)
	}
}

func TestPrepareFTSQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  ", ""},
		{"underwater", `"underwater"`},
		{"deep unfolding", `"deep" "unfolding"`},
		{`say "hi"`, `"say" """hi"""`},
		{"SoMeT_20", `"SoMeT_20"`},
	}

	for _, tt := range tests {
		if got := prepareFTSQuery(tt.in); got != tt.want {
			t.Errorf("prepareFTSQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
