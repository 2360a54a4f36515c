package mimetype

import (
	"mime"
	"path"
	"strings"
)

// The builtin table of package mime only covers web assets, the rest depends on
// the host's mime.types files. These make the common download types stable.
var extraTypes = map[string]string{
	".txt":  "text/plain",
	".csv":  "text/csv",
	".md":   "text/markdown",
	".zip":  "application/zip",
	".gz":   "application/gzip",
	".tar":  "application/x-tar",
	".mp3":  "audio/mpeg",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".iso":  "application/x-iso9660-image",
}

func init() {
	for ext, typ := range extraTypes {
		if err := mime.AddExtensionType(ext, typ); err != nil {
			panic(err)
		}
	}
}

// ByName guesses the media type of a file from the extension of its name.
// It returns "" when the extension is unknown.
func ByName(name string) string {
	ext := path.Ext(strings.ReplaceAll(name, "\\", "/"))
	if ext == "" {
		return ""
	}
	typ := mime.TypeByExtension(strings.ToLower(ext))
	if typ == "" {
		return ""
	}
	// text types get a charset from the system tables, which differs between hosts
	mediaType, _, err := mime.ParseMediaType(typ)
	if err != nil {
		return typ
	}
	return mediaType
}
