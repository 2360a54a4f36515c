package fileresponse

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/always-cache/file-response/catalog"
	headerlist "github.com/always-cache/file-response/pkg/header-list"
	"github.com/always-cache/file-response/pkg/resource"
	responserules "github.com/always-cache/file-response/pkg/response-rules"
	tee "github.com/always-cache/file-response/pkg/response-writer-tee"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"
)

type Config struct {
	// Published files. Paths not in the catalog are looked up in Root, then in Bucket.
	Catalog catalog.CatalogProvider
	// Rules for files served from Root or Bucket without a catalog entry.
	Rules responserules.Rules
	// Directory served for paths not in the catalog. Disabled if empty.
	Root string
	// Bucket served for paths not in the catalog or Root. Disabled if nil.
	Bucket *blob.Bucket
	// Chunk size for response bodies. DefaultBlockSize if not positive.
	BlockSize int
	// Logger to use. A console logger is used if nil.
	Logger *zerolog.Logger
}

// Handler serves files with range support.
type Handler struct {
	catalog   catalog.CatalogProvider
	rules     responserules.Rules
	root      string
	bucket    *blob.Bucket
	blockSize int
	log       zerolog.Logger
}

var errNotFound = errors.New("file not found")

// CreateHandler initializes the file handler.
func CreateHandler(config Config) *Handler {
	// use console logger if not specified in config
	var logger zerolog.Logger
	if config.Logger == nil {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	} else {
		logger = *config.Logger
	}

	cat := config.Catalog
	if cat == nil {
		cat = catalog.NewMemCatalog()
	}

	return &Handler{
		catalog:   cat,
		rules:     config.Rules,
		root:      config.Root,
		bucket:    config.Bucket,
		blockSize: config.BlockSize,
		log:       logger,
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := h.getLogger(r)
	rec := tee.NewResponseRecorder(w)
	defer logRequest(logger, r, rec)

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		rec.Header().Set("Allow", "GET, HEAD")
		http.Error(rec, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	res, opts, err := h.open(r)
	if errors.Is(err, errNotFound) {
		http.NotFound(rec, r)
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Could not open file")
		http.Error(rec, "Could not open file", http.StatusInternalServerError)
		return
	}

	started, err := Serve(rec, r, New(res, opts))
	if err != nil && !started {
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("Could not create response")
		http.Error(rec, "Could not read file", http.StatusInternalServerError)
		return
	}
	if err != nil {
		logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Response body not completely written")
	}
}

// open finds the resource for the request path and the options to serve it with.
func (h *Handler) open(r *http.Request) (resource.Resource, Options, error) {
	urlPath := path.Clean("/" + r.URL.Path)

	entry, ok, err := h.catalog.Get(urlPath)
	if err != nil {
		return nil, Options{}, err
	}
	if ok {
		h.log.Trace().Str("path", urlPath).Str("location", entry.Location).Msg("Found catalog entry")
		res, err := h.openEntry(r, entry)
		return res, h.entryOptions(entry), err
	}

	opts := h.ruleOptions(urlPath)
	if h.root != "" {
		f, err := resource.Open(filepath.Join(h.root, filepath.FromSlash(urlPath)))
		if err == nil {
			if info, err := f.Stat(); err == nil && info.IsDir() {
				f.Close()
				return nil, opts, errNotFound
			}
			return f, opts, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, opts, err
		}
	}
	if h.bucket != nil {
		res, err := h.openBlob(r, strings.TrimPrefix(urlPath, "/"))
		return res, opts, err
	}
	return nil, opts, errNotFound
}

func (h *Handler) openEntry(r *http.Request, entry catalog.Entry) (resource.Resource, error) {
	switch entry.Source {
	case catalog.SourceBlob:
		if h.bucket == nil {
			return nil, errors.New("catalog entry refers to a blob but no bucket is configured")
		}
		return h.openBlob(r, entry.Location)
	default:
		name := entry.Location
		if !filepath.IsAbs(name) {
			name = filepath.Join(h.root, name)
		}
		f, err := resource.Open(name)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errNotFound
		}
		if err != nil {
			return nil, err
		}
		if info, err := f.Stat(); err == nil && info.IsDir() {
			f.Close()
			return nil, errNotFound
		}
		return f, nil
	}
}

func (h *Handler) openBlob(r *http.Request, key string) (resource.Resource, error) {
	res, err := resource.OpenBlob(r.Context(), h.bucket, key)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, errNotFound
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (h *Handler) entryOptions(entry catalog.Entry) Options {
	return Options{
		Disposition: entry.Disposition,
		Filename:    filename(entry.Filename, entry.NoFilename),
		BlockSize:   h.blockSize,
		MimeType:    entry.MimeType,
		Header:      headerFromMap(entry.Headers),
		AutoETag:    entry.AutoETag,
	}
}

func (h *Handler) ruleOptions(urlPath string) Options {
	opts := Options{BlockSize: h.blockSize}
	rule := h.rules.Find(urlPath)
	if rule == nil {
		return opts
	}
	opts.Disposition = rule.Disposition
	opts.Filename = filename(rule.Filename, rule.NoFilename)
	opts.MimeType = rule.MimeType
	opts.Header = headerFromMap(rule.Headers)
	opts.AutoETag = rule.AutoETag
	if rule.BlockSize > 0 {
		opts.BlockSize = rule.BlockSize
	}
	return opts
}

func filename(name string, suppressed bool) Filename {
	if suppressed {
		return NoFilename()
	}
	if name != "" {
		return FilenameOf(name)
	}
	return Filename{}
}

func headerFromMap(m map[string]string) headerlist.Header {
	header := http.Header{}
	for name, value := range m {
		header.Set(name, value)
	}
	return headerlist.FromHTTP(header)
}

// getLogger returns the logger from the request context.
// If no logger is found, it will return the handler's logger.
func (h *Handler) getLogger(r *http.Request) *zerolog.Logger {
	logger := hlog.FromRequest(r)
	if logger.GetLevel() == zerolog.Disabled {
		logger = &h.log
	}
	return logger
}

func logRequest(logger *zerolog.Logger, r *http.Request, rec *tee.ResponseRecorder) {
	logger.Debug().
		Str("method", r.Method).
		Str("url", r.URL.String()).
		Str("sourceIp", getRequestSourceIp(r)).
		Str("range", r.Header.Get("Range")).
		Int("status", rec.StatusCode()).
		Int64("bytes", rec.Written()).
		Msg("Sent response to client")
}

func getRequestSourceIp(r *http.Request) string {
	// RemoteAddr is in the format:
	// 1.2.3.4:10000 for ipv4
	// [1:2:3]:10000 for ipv6
	ipAndPort := r.RemoteAddr
	portSepIdx := strings.LastIndex(ipAndPort, ":")
	// if not found, return
	if portSepIdx < 0 {
		return ipAndPort
	}
	ip := ipAndPort[:portSepIdx]
	return ip
}
