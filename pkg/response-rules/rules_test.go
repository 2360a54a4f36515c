package responserules

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestRuleFinder(t *testing.T) {
	rules := Rules{
		Rule{Path: "/videos/intro.mp4", Disposition: "inline"},
		Rule{Prefix: "/videos/", Disposition: "attachment"},
		Rule{MimeType: "application/octet-stream"},
	}

	if rule := rules.Find("/videos/intro.mp4"); rule == nil || rule.Disposition != "inline" {
		t.Fatal("Incorrect rule")
	}
	if rule := rules.Find("/videos/other.mp4"); rule == nil || rule.Disposition != "attachment" {
		t.Fatal("Incorrect rule")
	}
	if rule := rules.Find("/docs/a.txt"); rule == nil || rule.MimeType != "application/octet-stream" {
		t.Fatal("Incorrect rule")
	}
	if rule := Rules(rules[:2]).Find("/docs/a.txt"); rule != nil {
		t.Fatalf("Rule found for unmatched path: %+v", *rule)
	}
}

func TestRulesFromYAML(t *testing.T) {
	config := `
- prefix: /public/
  disposition: inline
  noFilename: true
  autoETag: true
  headers:
    Cache-Control: max-age=60
`
	var rules Rules
	if err := yaml.Unmarshal([]byte(config), &rules); err != nil {
		t.Fatal(err)
	}
	rule := rules.Find("/public/logo.png")
	if rule == nil {
		t.Fatal("No rule found")
	}
	if !rule.NoFilename || !rule.AutoETag || rule.Headers["Cache-Control"] != "max-age=60" {
		t.Fatalf("Rule is %+v", *rule)
	}
}
