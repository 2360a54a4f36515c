package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"

	_ "github.com/glebarez/go-sqlite"
)

// Sources an entry's location can refer to.
const (
	SourceFile = "file"
	SourceBlob = "blob"
)

// CatalogProvider is an interface for a catalog provider.
// It maps public URL paths to stored files and the options to serve them with.
//
// Implementations must be thread-safe!
type CatalogProvider interface {
	// Get returns the entry for the given path, if it exists.
	// It also returns a boolean indicating whether retrieval was successful.
	Get(path string) (Entry, bool, error)
	// Put stores the entry under its path, replacing any previous one.
	Put(entry Entry) error
	// All returns all entries whose path has the given prefix, ordered by path.
	All(prefix string) ([]Entry, error)
	// Purge removes the entry for the given path.
	Purge(path string) error
}

// Entry is a published file.
type Entry struct {
	// URL path the file is served under.
	Path string `yaml:"path" json:"-"`
	// File path (relative to the server root) or blob key.
	Location string `yaml:"location" json:"-"`
	// SourceFile or SourceBlob. Empty means SourceFile.
	Source      string            `yaml:"source" json:"-"`
	Disposition string            `yaml:"disposition" json:"disposition,omitempty"`
	Filename    string            `yaml:"filename" json:"filename,omitempty"`
	NoFilename  bool              `yaml:"noFilename" json:"noFilename,omitempty"`
	MimeType    string            `yaml:"mimeType" json:"mimeType,omitempty"`
	AutoETag    bool              `yaml:"autoETag" json:"autoETag,omitempty"`
	Headers     map[string]string `yaml:"headers" json:"headers,omitempty"`
}

var errEmptyPath = errors.New("catalog: entry path empty")

type MemCatalog struct {
	mutex *sync.RWMutex
	db    map[string]Entry
}

func NewMemCatalog() MemCatalog {
	return MemCatalog{
		mutex: &sync.RWMutex{},
		db:    make(map[string]Entry),
	}
}

func (m MemCatalog) Get(path string) (Entry, bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	entry, ok := m.db[path]
	return entry, ok, nil
}

func (m MemCatalog) Put(entry Entry) error {
	if entry.Path == "" {
		return errEmptyPath
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.db[entry.Path] = entry
	return nil
}

func (m MemCatalog) All(prefix string) ([]Entry, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	entries := make([]Entry, 0)
	for path, entry := range m.db {
		if strings.HasPrefix(path, prefix) {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

func (m MemCatalog) Purge(path string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.db, path)
	return nil
}

type SQLiteCatalog struct {
	db         *sql.DB
	writeMutex *sync.Mutex
}

// NewSQLiteCatalog opens (and creates if needed) the catalog database.
// An empty filename gives a shared in-memory database.
func NewSQLiteCatalog(filename string) (SQLiteCatalog, error) {
	if filename == "" {
		filename = "file::memory:?cache=shared"
	}
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		return SQLiteCatalog{}, err
	}
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS files (
		path TEXT PRIMARY KEY,
		location TEXT NOT NULL,
		source TEXT NOT NULL,
		options BLOB
	)`)
	if err != nil {
		return SQLiteCatalog{}, err
	}
	_, err = db.Exec("PRAGMA journal_mode=WAL")
	if err != nil {
		return SQLiteCatalog{}, err
	}
	return SQLiteCatalog{
		db:         db,
		writeMutex: &sync.Mutex{},
	}, nil
}

func (s SQLiteCatalog) Get(path string) (Entry, bool, error) {
	var entry Entry
	var options []byte
	err := s.db.QueryRow("SELECT path, location, source, options FROM files WHERE path = ?", path).
		Scan(&entry.Path, &entry.Location, &entry.Source, &options)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	if err := json.Unmarshal(options, &entry); err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

func (s SQLiteCatalog) Put(entry Entry) error {
	if entry.Path == "" {
		return errEmptyPath
	}
	options, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	source := entry.Source
	if source == "" {
		source = SourceFile
	}
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	_, err = s.db.Exec("INSERT OR REPLACE INTO files (path, location, source, options) VALUES (?, ?, ?, ?)",
		entry.Path, entry.Location, source, options)
	return err
}

func (s SQLiteCatalog) All(prefix string) ([]Entry, error) {
	entries := make([]Entry, 0)
	rows, err := s.db.Query(`SELECT path, location, source, options
		FROM files WHERE substr(path, 1, length(?1)) = ?1 ORDER BY path`, prefix)
	if err != nil {
		return entries, err
	}
	defer rows.Close()
	for rows.Next() {
		var entry Entry
		var options []byte
		if err := rows.Scan(&entry.Path, &entry.Location, &entry.Source, &options); err != nil {
			return entries, err
		}
		if err := json.Unmarshal(options, &entry); err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s SQLiteCatalog) Purge(path string) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	_, err := s.db.Exec("DELETE FROM files WHERE path = ?", path)
	return err
}

// Close closes the database.
func (s SQLiteCatalog) Close() error {
	return s.db.Close()
}
