// Package resource defines the seekable byte sources a file response is built from.
//
// *os.File satisfies Resource as is, which keeps the zero-copy path of net/http
// available. Objects in a gocloud.dev/blob bucket are adapted with OpenBlob.
package resource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"time"

	"gocloud.dev/blob"
)

// Resource is an open, seekable byte source that can describe itself.
type Resource interface {
	io.ReadSeekCloser
	// Name returns the name the resource was opened with.
	Name() string
	// Stat returns size and modification time of the resource.
	Stat() (fs.FileInfo, error)
}

var _ Resource = (*os.File)(nil)

// ErrClosed is returned by Stat on a closed blob resource.
var ErrClosed = errors.New("resource: closed")

// Open opens a local file for reading.
func Open(name string) (*os.File, error) {
	return os.Open(name)
}

// BlobResource is a Resource backed by a blob reader.
type BlobResource struct {
	key    string
	reader *blob.Reader
	closed bool
}

// OpenBlob opens the object stored under key in bucket.
func OpenBlob(ctx context.Context, bucket *blob.Bucket, key string) (*BlobResource, error) {
	reader, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		return nil, fmt.Errorf("resource: open blob %s: %w", key, err)
	}
	return &BlobResource{key: key, reader: reader}, nil
}

func (b *BlobResource) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

func (b *BlobResource) Seek(offset int64, whence int) (int64, error) {
	return b.reader.Seek(offset, whence)
}

func (b *BlobResource) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.reader.Close()
}

// Name returns the blob key.
func (b *BlobResource) Name() string {
	return b.key
}

// Stat reports the size and modification time read when the blob was opened.
func (b *BlobResource) Stat() (fs.FileInfo, error) {
	if b.closed {
		return nil, fmt.Errorf("stat %s: %w", b.key, ErrClosed)
	}
	return blobInfo{
		name:    path.Base(b.key),
		size:    b.reader.Size(),
		modTime: b.reader.ModTime(),
	}, nil
}

type blobInfo struct {
	name    string
	size    int64
	modTime time.Time
}

func (i blobInfo) Name() string       { return i.name }
func (i blobInfo) Size() int64        { return i.size }
func (i blobInfo) Mode() fs.FileMode  { return 0444 }
func (i blobInfo) ModTime() time.Time { return i.modTime }
func (i blobInfo) IsDir() bool        { return false }
func (i blobInfo) Sys() any           { return nil }
