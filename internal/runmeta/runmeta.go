// Package runmeta persists when the last successful export finished.
package runmeta

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"offer-export/internal/platform/paths"
)

var ErrNotFound = errors.New("no recorded extraction")

// DisplayLayout is how the last extraction is shown to users.
const DisplayLayout = "02/01/2006 at 15:04"

// Older files carry a local timestamp without zone.
var legacyLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

type Record struct {
	LastExtraction time.Time
}

type fileRecord struct {
	LastExtraction string `json:"last_extraction"`
}

// Store loads and saves the record. Load returns ErrNotFound when nothing has
// been recorded yet.
type Store interface {
	Load() (Record, error)
	Save(Record) error
}

type FileStore struct {
	Path string
}

func NewFileStore(p string) *FileStore {
	return &FileStore{Path: p}
}

// DefaultFileStore keeps the record in the per-user app directory.
func DefaultFileStore() (*FileStore, error) {
	p, err := paths.MetadataFilePath()
	if err != nil {
		return nil, err
	}
	return NewFileStore(p), nil
}

func (s *FileStore) Load() (Record, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}

	var fr fileRecord
	if err := json.Unmarshal(b, &fr); err != nil {
		return Record{}, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	if fr.LastExtraction == "" {
		return Record{}, ErrNotFound
	}

	ts, err := parseTimestamp(fr.LastExtraction)
	if err != nil {
		return Record{}, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	return Record{LastExtraction: ts}, nil
}

// Save writes the record through a temp file and rename.
func (s *FileStore) Save(r Record) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(fileRecord{
		LastExtraction: r.LastExtraction.Format(time.RFC3339Nano),
	}, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), "last_extraction-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(b)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		_ = os.Remove(tmpName)
		if writeErr != nil {
			return writeErr
		}
		return closeErr
	}

	if err := os.Rename(tmpName, s.Path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	for _, layout := range legacyLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// MemoryStore keeps the record in memory.
type MemoryStore struct {
	mu  sync.Mutex
	rec *Record
}

func (m *MemoryStore) Load() (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return Record{}, ErrNotFound
	}
	return *m.rec, nil
}

func (m *MemoryStore) Save(r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = &r
	return nil
}

// Describe formats the last extraction for display, or "Never" when it is
// not known.
func Describe(last time.Time, known bool) string {
	if !known {
		return "Never"
	}
	return last.Local().Format(DisplayLayout)
}
