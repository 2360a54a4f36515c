package fileresponse

import (
	"io"
	"net/http"

	headerlist "github.com/always-cache/file-response/pkg/header-list"
	"github.com/always-cache/file-response/pkg/resource"
)

// Serve writes fr as the response to r.
// Full responses are copied with io.CopyBuffer, so the server can use sendfile
// where it supports it for the resource. HEAD requests get the header only.
//
// An error returned together with a false started means nothing was written to w.
func Serve(w http.ResponseWriter, r *http.Request, fr *FileResponse) (started bool, err error) {
	req := Request{
		Header:   r.Header,
		SendFile: sendFile,
	}
	body, err := fr.Respond(req, func(status Status, fields []headerlist.Field) {
		started = true
		headerlist.New(fields...).WriteTo(w.Header())
		// keep net/http from sniffing a type for the body
		if _, ok := w.Header()["Content-Type"]; !ok {
			w.Header()["Content-Type"] = nil
		}
		w.WriteHeader(int(status))
	})
	if err != nil {
		return started, err
	}
	defer body.Close()

	if r.Method == http.MethodHead {
		return started, nil
	}
	_, err = body.WriteTo(w)
	return started, err
}

func sendFile(res resource.Resource, blockSize int) Body {
	return &fileBody{res: res, blockSize: blockSize}
}

// fileBody sends a whole resource.
type fileBody struct {
	res       resource.Resource
	blockSize int
	closed    bool
}

func (b *fileBody) WriteTo(w io.Writer) (int64, error) {
	defer b.Close()
	return io.CopyBuffer(w, b.res, make([]byte, b.blockSize))
}

func (b *fileBody) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.res.Close()
}
