package fileresponse

import (
	"io"
	"iter"

	"github.com/always-cache/file-response/pkg/resource"
)

// Stream produces the bytes start..end (inclusive) of a resource in chunks of
// at most the block size. The resource is closed when the last byte has been
// produced, on the first read error, or when Close is called, whichever comes first.
type Stream struct {
	res    resource.Resource
	pos    int64
	end    int64
	buf    []byte
	short  bool
	closed bool
	err    error
}

var _ Body = (*Stream)(nil)

// newStream seeks res to start. The resource is closed if the seek fails.
func newStream(res resource.Resource, start, end int64, blockSize int) (*Stream, error) {
	if _, err := res.Seek(start, io.SeekStart); err != nil {
		res.Close()
		return nil, err
	}
	return &Stream{
		res: res,
		pos: start,
		end: end,
		buf: make([]byte, blockSize),
	}, nil
}

// Next returns the next chunk. It returns io.EOF after the last byte, or
// io.ErrUnexpectedEOF if the resource ended before the requested end.
// The chunk is only valid until the next call.
func (s *Stream) Next() ([]byte, error) {
	if s.closed {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	if s.short {
		return nil, s.fail(io.ErrUnexpectedEOF)
	}
	if s.pos > s.end {
		return nil, s.fail(io.EOF)
	}

	block := int64(len(s.buf))
	if s.pos+block > s.end {
		block = s.end - s.pos + 1
	}
	n, err := io.ReadFull(s.res, s.buf[:block])
	s.pos += int64(n)
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		if n == 0 {
			return nil, s.fail(io.ErrUnexpectedEOF)
		}
		s.short = true
	default:
		return nil, s.fail(err)
	}
	return s.buf[:n], nil
}

// fail closes the stream and makes err its terminal result.
func (s *Stream) fail(err error) error {
	if err != io.EOF {
		s.err = err
	}
	if cerr := s.Close(); cerr != nil && s.err == nil {
		s.err = cerr
		return cerr
	}
	return err
}

// Chunks iterates over the remaining chunks. Breaking out of the loop closes the stream.
// A failure is yielded once as the last element.
func (s *Stream) Chunks() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		defer s.Close()
		for {
			chunk, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(chunk, err) || err != nil {
				return
			}
		}
	}
}

// WriteTo writes the remaining chunks to w and closes the stream.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for chunk, err := range s.Chunks() {
		if err != nil {
			return written, err
		}
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Close releases the resource. It is safe to call more than once.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.res.Close()
}
