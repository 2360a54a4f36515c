package mimetype

import "testing"

func TestByName(t *testing.T) {
	cases := map[string]string{
		"tests/sample_data.txt": "text/plain",
		"IMAGE.PNG":             "image/png",
		"archive.zip":           "application/zip",
		"Makefile":              "",
		"file.nope-not-a-type":  "",
	}
	for name, want := range cases {
		if got := ByName(name); got != want {
			t.Fatalf("ByName(%q) is %q, want %q", name, got, want)
		}
	}
}
