package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/always-cache/file-response/catalog"
)

const testConfig = `
root: /srv/files
bucket: mem://
blockSize: 8192
rules:
  - prefix: /media/
    disposition: inline
    noFilename: true
files:
  - path: /download/report
    location: reports/2023.pdf
    filename: report.pdf
    autoETag: true
  - path: /download/archive
    location: archive.zip
    source: blob
    headers:
      Cache-Control: no-store
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return filename
}

func TestGetConfig(t *testing.T) {
	config, err := getConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatal(err)
	}
	if config.Root != "/srv/files" || config.Bucket != "mem://" || config.BlockSize != 8192 {
		t.Fatalf("Config is %+v", config)
	}
	if len(config.Rules) != 1 || !config.Rules[0].NoFilename || config.Rules[0].Disposition != "inline" {
		t.Fatalf("Rules are %+v", config.Rules)
	}
	if len(config.Files) != 2 {
		t.Fatalf("Files are %+v", config.Files)
	}
	if f := config.Files[1]; f.Source != catalog.SourceBlob || f.Headers["Cache-Control"] != "no-store" {
		t.Fatalf("File is %+v", f)
	}
}

func TestGetConfigMissingFile(t *testing.T) {
	if _, err := getConfig(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("No error for missing config file")
	}
}

func TestSeedCatalog(t *testing.T) {
	config, err := getConfig(writeConfig(t, testConfig))
	if err != nil {
		t.Fatal(err)
	}
	cat := catalog.NewMemCatalog()
	if err := seedCatalog(cat, config.Files); err != nil {
		t.Fatal(err)
	}
	entry, ok, err := cat.Get("/download/report")
	if err != nil || !ok {
		t.Fatalf("Entry not found: %v", err)
	}
	if entry.Location != "reports/2023.pdf" || entry.Filename != "report.pdf" || !entry.AutoETag {
		t.Fatalf("Entry is %+v", entry)
	}

	if err := seedCatalog(cat, []catalog.Entry{{Location: "x"}}); err == nil {
		t.Fatal("No error for entry without path")
	}
}
