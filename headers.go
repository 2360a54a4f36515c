package fileresponse

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	headerlist "github.com/always-cache/file-response/pkg/header-list"
	"github.com/always-cache/file-response/pkg/mimetype"
)

// buildHeader returns the header fields of the response: the fields from Options
// followed by, in this order and overriding them, Content-Range, Content-Disposition,
// Etag, Accept-Ranges, Content-Type, Content-Length and Last-Modified.
func (f *FileResponse) buildHeader(rng Resolution) (headerlist.Header, error) {
	header := f.header.Clone()

	if rng.Status == http.StatusPartialContent {
		header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", rng.Start, rng.End, rng.Size))
	}

	if cd, ok := f.contentDisposition(); ok {
		header.Set("Content-Disposition", cd)
	}

	if f.autoETag {
		etag, err := f.ETag()
		if err != nil {
			return header, err
		}
		header.Set("Etag", etag)
	}

	header.Set("Accept-Ranges", "bytes")

	if typ := f.contentType(); typ != "" {
		header.Set("Content-Type", typ)
	}

	header.Set("Content-Length", strconv.FormatInt(rng.Length, 10))

	lastModified, err := f.LastModified()
	if err != nil {
		return header, err
	}
	header.Set("Last-Modified", lastModified)

	return header, nil
}

func (f *FileResponse) contentType() string {
	if f.mimeType != "" {
		return f.mimeType
	}
	return mimetype.ByName(f.res.Name())
}

// contentDisposition returns the Content-Disposition value and whether there is one.
//
//	disposition  filename  result
//	set          unset     disposition
//	set          none      disposition
//	set          set       disposition; filename="name"
//	unset        set       attachment; filename="name"
//	unset        unset     attachment; filename="<base name of the resource>"
//	unset        none      no header
func (f *FileResponse) contentDisposition() (string, bool) {
	if f.disposition != "" && !f.filename.IsSet() {
		return f.disposition, true
	}
	if f.filename.IsSuppressed() {
		return "", false
	}
	disposition := f.disposition
	if disposition == "" {
		disposition = "attachment"
	}
	return fmt.Sprintf(`%s; filename="%s"`, disposition, quoteEscaper.Replace(f.filenameValue())), true
}

func (f *FileResponse) filenameValue() string {
	if f.filename.IsSet() {
		return f.filename.Name()
	}
	return filepath.Base(f.res.Name())
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
