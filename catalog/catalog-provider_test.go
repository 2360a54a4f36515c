package catalog

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func providers(t *testing.T) map[string]CatalogProvider {
	sqlite, err := NewSQLiteCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]CatalogProvider{
		"memory": NewMemCatalog(),
		"sqlite": sqlite,
	}
}

func TestPutGet(t *testing.T) {
	for name, c := range providers(t) {
		t.Run(name, func(t *testing.T) {
			entry := Entry{
				Path:        "/downloads/report.pdf",
				Location:    "reports/2024.pdf",
				Source:      SourceFile,
				Disposition: "inline",
				Filename:    "report.pdf",
				AutoETag:    true,
				Headers:     map[string]string{"Cache-Control": "no-cache"},
			}
			if err := c.Put(entry); err != nil {
				t.Fatal(err)
			}
			got, ok, err := c.Get(entry.Path)
			if err != nil || !ok {
				t.Fatalf("Get: %v %v", ok, err)
			}
			if diff := cmp.Diff(entry, got); diff != "" {
				t.Fatalf("entry mismatch (-want +got):\n%s", diff)
			}

			if _, ok, err := c.Get("/missing"); ok || err != nil {
				t.Fatalf("Get missing: %v %v", ok, err)
			}
		})
	}
}

func TestAllAndPurge(t *testing.T) {
	for name, c := range providers(t) {
		t.Run(name, func(t *testing.T) {
			for _, p := range []string{"/b/2", "/a/1", "/b/1", "/b_x", "/bücher/1", "/bü"} {
				if err := c.Put(Entry{Path: p, Location: p, Source: SourceBlob}); err != nil {
					t.Fatal(err)
				}
			}
			entries, err := c.All("/b/")
			if err != nil {
				t.Fatal(err)
			}
			var paths []string
			for _, e := range entries {
				paths = append(paths, e.Path)
			}
			if diff := cmp.Diff([]string{"/b/1", "/b/2"}, paths); diff != "" {
				t.Fatalf("paths mismatch (-want +got):\n%s", diff)
			}

			entries, err = c.All("/bücher/")
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 1 || entries[0].Path != "/bücher/1" {
				t.Fatalf("entries for non-ASCII prefix are %+v", entries)
			}

			if err := c.Purge("/b/1"); err != nil {
				t.Fatal(err)
			}
			if _, ok, _ := c.Get("/b/1"); ok {
				t.Fatal("entry still present after Purge")
			}
		})
	}
}

func TestPutRequiresPath(t *testing.T) {
	for name, c := range providers(t) {
		if err := c.Put(Entry{Location: "x"}); err == nil {
			t.Fatalf("%s: expected error for empty path", name)
		}
	}
}
