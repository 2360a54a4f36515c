// Package fileresponse turns an open, seekable file into an HTTP response.
//
// It honors byte range requests (only the first range of a Range header is
// served), validates If-Range against Last-Modified or ETag, and streams the
// selected bytes in bounded chunks. A FileResponse owns its resource and closes
// it exactly once, when the body has been streamed or abandoned.
package fileresponse

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	headerlist "github.com/always-cache/file-response/pkg/header-list"
	"github.com/always-cache/file-response/pkg/resource"
)

// DefaultBlockSize is the chunk size used when Options.BlockSize is not positive.
const DefaultBlockSize = 16384

var (
	// ErrResourceUnavailable is returned when size or modification time of the
	// resource cannot be read. Nothing has been sent when it is returned.
	ErrResourceUnavailable = errors.New("fileresponse: resource unavailable")
	// ErrAlreadyResponded is returned when Respond is called a second time.
	ErrAlreadyResponded = errors.New("fileresponse: response already started")
)

// Options configures a FileResponse.
type Options struct {
	// Content-Disposition type, e.g. "attachment" or "inline".
	// Empty means unset, "attachment" is used if a filename is sent.
	Disposition string
	// Filename sent in Content-Disposition. The zero value derives it from the resource name.
	Filename Filename
	// Read size of each body chunk. DefaultBlockSize if not positive.
	BlockSize int
	// Content-Type. Guessed from the resource name if empty.
	MimeType string
	// Header fields to send along. Last-Modified and ETag given here are used as validators.
	Header headerlist.Header
	// AutoETag makes the response generate an ETag from the modification time.
	AutoETag bool
}

// FileResponse is the response for a single request of a single file.
// It is not safe for concurrent use.
type FileResponse struct {
	res         resource.Resource
	disposition string
	filename    Filename
	blockSize   int
	mimeType    string
	header      headerlist.Header
	autoETag    bool

	meta         *metadata
	lastModified string
	responded    bool
}

// New creates the response for res. The response takes ownership of res.
func New(res resource.Resource, opts Options) *FileResponse {
	blockSize := opts.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	return &FileResponse{
		res:         res,
		disposition: opts.Disposition,
		filename:    opts.Filename,
		blockSize:   blockSize,
		mimeType:    opts.MimeType,
		header:      opts.Header.Clone(),
		autoETag:    opts.AutoETag,
	}
}

// Status is an HTTP status code. Its string form is the status line, e.g. "206 Partial Content".
type Status int

func (s Status) String() string {
	return fmt.Sprintf("%d %s", int(s), http.StatusText(int(s)))
}

// Request is the part of an incoming request a FileResponse looks at.
type Request struct {
	// Header of the request. Only Range and If-Range are consulted.
	Header http.Header
	// SendFile is an optional zero-copy facility of the server.
	// It is only used for full (200) responses.
	SendFile FileSender
}

// FileSender takes over a resource and returns the body that sends it.
// Closing the resource becomes the responsibility of the returned body.
type FileSender func(res resource.Resource, blockSize int) Body

// StartResponse receives status and header fields before any body is produced.
type StartResponse func(status Status, fields []headerlist.Field)

// Body is the response body. Close must be called even if WriteTo is never called.
type Body interface {
	io.WriterTo
	io.Closer
}

// Respond resolves the request, hands status and header fields to start and
// returns the body. If it fails before start is called, the resource is closed
// and nothing has been sent.
func (f *FileResponse) Respond(req Request, start StartResponse) (Body, error) {
	if f.responded {
		return nil, ErrAlreadyResponded
	}
	f.responded = true

	rng, err := f.resolve(req.Header)
	if err != nil {
		f.res.Close()
		return nil, err
	}
	header, err := f.buildHeader(rng)
	if err != nil {
		f.res.Close()
		return nil, err
	}

	start(rng.Status, header.Fields())

	if rng.Status == http.StatusOK && req.SendFile != nil {
		return req.SendFile(f.res, f.blockSize), nil
	}
	return newStream(f.res, rng.Start, rng.End, f.blockSize)
}

// Filename is the filename of the Content-Disposition header.
// It is unset, set to a name or suppressed.
type Filename struct {
	state filenameState
	name  string
}

type filenameState int

const (
	filenameUnset filenameState = iota
	filenameSet
	filenameNone
)

// FilenameOf sets the filename to name.
func FilenameOf(name string) Filename {
	return Filename{state: filenameSet, name: name}
}

// NoFilename suppresses the filename.
func NoFilename() Filename {
	return Filename{state: filenameNone}
}

// IsSet reports whether an explicit name was given.
func (n Filename) IsSet() bool { return n.state == filenameSet }

// IsSuppressed reports whether the filename was explicitly turned off.
func (n Filename) IsSuppressed() bool { return n.state == filenameNone }

// Name returns the explicit name, if any.
func (n Filename) Name() string { return n.name }

// metadata of the resource, read once per response.
type metadata struct {
	size    int64
	modTime time.Time
}
