package responserules

import (
	"strings"

	"github.com/rs/zerolog/log"
)

type Rules []Rule

// Rule sets response options for files that are not in the catalog.
// A rule matches if both Path (exact) and Prefix match, empty ones match everything.
type Rule struct {
	Prefix      string            `yaml:"prefix"`
	Path        string            `yaml:"path"`
	Disposition string            `yaml:"disposition"`
	Filename    string            `yaml:"filename"`
	NoFilename  bool              `yaml:"noFilename"`
	MimeType    string            `yaml:"mimeType"`
	AutoETag    bool              `yaml:"autoETag"`
	BlockSize   int               `yaml:"blockSize"`
	Headers     map[string]string `yaml:"headers"`
}

// Find returns the first rule matching the path, or nil.
func (r Rules) Find(path string) *Rule {
	log.Trace().Msgf("Finding rule for path %s", path)
	for i := range r {
		rule := &r[i]
		if rule.Path != "" && rule.Path != path {
			continue
		}
		if rule.Prefix != "" && !strings.HasPrefix(path, rule.Prefix) {
			continue
		}
		log.Trace().Msgf("Using rule %+v", *rule)
		return rule
	}
	return nil
}
