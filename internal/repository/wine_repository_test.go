package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleCatalog = `[
  {"title":"Chateau A 2015","price":10,"points":91,"variety":"Merlot","region_1":"Bordeaux","region_2":"","winery":"Chateau A","description":"plum"},
  {"title":"Ridge B","price":"20.50","points":"88","variety":"Zinfandel","region_1":"","region_2":"Sonoma","winery":"Ridge"},
  {"id":"native-key","title":"Nameless","price":null,"points":85,"variety":"Riesling","winery":"Mosel Co"}
]`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wines.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestParseCatalogToleratesLooseFields(t *testing.T) {
	wines, err := ParseCatalog([]byte(sampleCatalog))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	if len(wines) != 3 {
		t.Fatalf("expected 3 wines, got %d", len(wines))
	}
	for i, w := range wines {
		if w.ID != i {
			t.Fatalf("wine %d has id %d", i, w.ID)
		}
	}
	if wines[1].Points != 88 || wines[1].Price == nil || wines[1].Price.String() != "20.50" {
		t.Fatalf("string encoded fields not decoded: %+v", wines[1])
	}
	if wines[2].Price != nil {
		t.Fatalf("null price should stay absent")
	}
	if wines[2].Key != "native-key" {
		t.Fatalf("native key not preserved: %s", wines[2].Key)
	}
	if wines[0].Key == "" || wines[0].Key == wines[1].Key {
		t.Fatalf("derived keys should be non-empty and distinct: %q %q", wines[0].Key, wines[1].Key)
	}
}

func TestParseCatalogWrappedObject(t *testing.T) {
	wines, err := ParseCatalog([]byte(`{"wines":[{"title":"X"}]}`))
	if err != nil || len(wines) != 1 {
		t.Fatalf("expected 1 wine, got %d err=%v", len(wines), err)
	}
	if _, err := ParseCatalog([]byte(`{"title":"X"}`)); !errors.Is(err, ErrCatalogMalformed) {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestDerivedKeyStableAcrossReorder(t *testing.T) {
	first, _ := ParseCatalog([]byte(`[{"title":"A","winery":"W"},{"title":"B","winery":"W"}]`))
	second, _ := ParseCatalog([]byte(`[{"title":"B","winery":"W"},{"title":"A","winery":"W"}]`))
	if first[0].Key != second[1].Key || first[1].Key != second[0].Key {
		t.Fatalf("derived keys should not depend on position")
	}
}

func TestLoadFailOpen(t *testing.T) {
	repo := NewJSONWineRepository(filepath.Join(t.TempDir(), "missing.json"))
	if got := repo.All(); len(got) != 0 {
		t.Fatalf("missing file should load empty catalog, got %d", len(got))
	}

	broken := writeCatalog(t, "{not json")
	repo = NewJSONWineRepository(broken)
	if got := repo.Load(); got == nil || len(got) != 0 {
		t.Fatalf("malformed file should yield empty non-nil slice")
	}
}

func TestGetByID(t *testing.T) {
	repo := NewJSONWineRepository(writeCatalog(t, sampleCatalog))

	cases := []struct {
		id    string
		found bool
		title string
	}{
		{"0", true, "Chateau A 2015"},
		{" 1 ", true, "Ridge B"},
		{"3", false, ""},
		{"-1", false, ""},
		{"abc", false, ""},
		{"", false, ""},
		{"native-key", true, "Nameless"},
	}
	for _, tc := range cases {
		wine, ok := repo.GetByID(tc.id)
		if ok != tc.found {
			t.Fatalf("GetByID(%q) found=%v want %v", tc.id, ok, tc.found)
		}
		if ok && wine.Title != tc.title {
			t.Fatalf("GetByID(%q) title=%q want %q", tc.id, wine.Title, tc.title)
		}
	}
}

func TestReloadKeepsSnapshotOnFailure(t *testing.T) {
	path := writeCatalog(t, sampleCatalog)
	repo := NewJSONWineRepository(path)
	version := repo.Version()

	if err := os.WriteFile(path, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("overwrite catalog: %v", err)
	}
	if _, err := repo.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
	if len(repo.All()) != 3 || repo.Version() != version {
		t.Fatalf("failed reload must keep previous snapshot")
	}

	if err := os.WriteFile(path, []byte(`[{"title":"Only"}]`), 0o644); err != nil {
		t.Fatalf("overwrite catalog: %v", err)
	}
	count, err := repo.Reload()
	if err != nil || count != 1 {
		t.Fatalf("reload: count=%d err=%v", count, err)
	}
	if repo.Version() != version+1 {
		t.Fatalf("version should advance after reload")
	}
}
