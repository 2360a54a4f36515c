package fileresponse

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

func (f *FileResponse) stat() (*metadata, error) {
	if f.meta != nil {
		return f.meta, nil
	}
	info, err := f.res.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResourceUnavailable, err)
	}
	f.meta = &metadata{size: info.Size(), modTime: info.ModTime()}
	return f.meta, nil
}

// Size returns the size of the resource in bytes.
func (f *FileResponse) Size() (int64, error) {
	meta, err := f.stat()
	if err != nil {
		return 0, err
	}
	return meta.size, nil
}

// ModTime returns the modification time of the resource.
func (f *FileResponse) ModTime() (time.Time, error) {
	meta, err := f.stat()
	if err != nil {
		return time.Time{}, err
	}
	return meta.modTime, nil
}

// LastModified returns the Last-Modified value of the response.
// A Last-Modified header given in Options is returned as is, without any validation.
func (f *FileResponse) LastModified() (string, error) {
	if f.lastModified != "" {
		return f.lastModified, nil
	}
	if lm, ok := f.header.Lookup("Last-Modified"); ok {
		return lm, nil
	}
	modTime, err := f.ModTime()
	if err != nil {
		return "", err
	}
	f.lastModified = modTime.UTC().Format(http.TimeFormat)
	return f.lastModified, nil
}

// ETag returns the generated entity tag, the quoted modification time in seconds.
// Two files modified at the same instant share it.
func (f *FileResponse) ETag() (string, error) {
	modTime, err := f.ModTime()
	if err != nil {
		return "", err
	}
	seconds := float64(modTime.UnixNano()) / float64(time.Second)
	return `"` + strconv.FormatFloat(seconds, 'f', -1, 64) + `"`, nil
}
