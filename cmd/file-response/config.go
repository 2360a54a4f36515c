package main

import (
	"fmt"
	"os"

	"github.com/always-cache/file-response/catalog"
	responserules "github.com/always-cache/file-response/pkg/response-rules"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Directory to serve files from.
	Root string `yaml:"root"`
	// Bucket URL, e.g. file:///srv/files or s3://bucket?region=eu-west-1
	Bucket    string              `yaml:"bucket"`
	BlockSize int                 `yaml:"blockSize"`
	Rules     responserules.Rules `yaml:"rules"`
	// Files published under their own paths.
	Files []catalog.Entry `yaml:"files"`
}

func getConfig(filename string) (Config, error) {
	var config Config
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(configBytes, &config)
	return config, err
}

// seedCatalog puts the configured files into the catalog.
func seedCatalog(cat catalog.CatalogProvider, files []catalog.Entry) error {
	for _, entry := range files {
		if err := cat.Put(entry); err != nil {
			return fmt.Errorf("catalog entry %q: %w", entry.Path, err)
		}
	}
	return nil
}
