package tee

import (
	"io"
	"net/http"
	"time"
)

// ResponseRecorder is a wrapper around http.ResponseWriter that remembers the status
// code and the number of body bytes written, e.g. for access logging.
// It forwards ReadFrom, so sendfile stays available to whatever writes the body.
type ResponseRecorder struct {
	rw           http.ResponseWriter
	status       int
	written      int64
	wroteHeaders bool
	CreatedAt    time.Time
}

// Implementation of http.ResponseWriter
func (t *ResponseRecorder) Header() http.Header {
	return t.rw.Header()
}

// Implementation of http.ResponseWriter
func (t *ResponseRecorder) WriteHeader(statusCode int) {
	if t.wroteHeaders {
		return
	}
	// remember that we wrote the headers
	t.wroteHeaders = true
	// set the status code so we can return it later
	t.status = statusCode
	t.rw.WriteHeader(statusCode)
}

// Implementation of http.ResponseWriter
func (t *ResponseRecorder) Write(b []byte) (int, error) {
	// write headers if not already written
	if !t.wroteHeaders {
		t.WriteHeader(http.StatusOK)
	}
	n, err := t.rw.Write(b)
	t.written += int64(n)
	return n, err
}

// ReadFrom implements io.ReaderFrom, using the underlying writer's ReadFrom if it has one.
func (t *ResponseRecorder) ReadFrom(r io.Reader) (int64, error) {
	if !t.wroteHeaders {
		t.WriteHeader(http.StatusOK)
	}
	var n int64
	var err error
	if rf, ok := t.rw.(io.ReaderFrom); ok {
		n, err = rf.ReadFrom(r)
	} else {
		n, err = io.Copy(writerOnly{t.rw}, r)
	}
	t.written += n
	return n, err
}

// Flush implements http.Flusher if the underlying writer does.
func (t *ResponseRecorder) Flush() {
	if f, ok := t.rw.(http.Flusher); ok {
		f.Flush()
	}
}

// StatusCode returns the status code of the response, 0 if nothing was written yet.
func (t *ResponseRecorder) StatusCode() int {
	return t.status
}

// Written returns the number of body bytes written.
func (t *ResponseRecorder) Written() int64 {
	return t.written
}

// Unwrap returns the underlying writer, for http.ResponseController.
func (t *ResponseRecorder) Unwrap() http.ResponseWriter {
	return t.rw
}

// NewResponseRecorder returns a new ResponseRecorder writing to w.
func NewResponseRecorder(w http.ResponseWriter) *ResponseRecorder {
	return &ResponseRecorder{
		CreatedAt: time.Now(),
		rw:        w,
	}
}

// writerOnly hides any ReadFrom method of the wrapped writer from io.Copy.
type writerOnly struct {
	io.Writer
}
