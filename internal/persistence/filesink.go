package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/moshpitcodes/livinglands-core/internal/apperrors"
	"github.com/moshpitcodes/livinglands-core/internal/platform/logger"
	"github.com/moshpitcodes/livinglands-core/internal/platform/metrics"
)

// FileSink is the default Sink: one JSON file per document under root,
// named by DocumentID.Key() with path separators. Writes go to a temp file
// in the same directory and are renamed into place, so a crash mid-write
// never corrupts the previous version.
type FileSink struct {
	root    string
	logger  *logger.Logger
	metrics *metrics.Collector

	mu sync.Mutex // guards directory creation, not file contents
}

// NewFileSink creates a sink rooted at dir. The directory is created lazily
// on first save, matching the teacher's InitSQLite directory-prep idiom.
func NewFileSink(dir string, log *logger.Logger, m *metrics.Collector) *FileSink {
	return &FileSink{root: dir, logger: log, metrics: m}
}

func (s *FileSink) pathFor(id DocumentID) string {
	return filepath.Join(s.root, id.Module, id.Owner+".json")
}

// Load reads the document for id. A missing file is not an error: it
// returns (Document{}, false, nil).
func (s *FileSink) Load(id DocumentID) (Document, bool, error) {
	data, err := os.ReadFile(s.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, false, nil
		}
		return Document{}, false, fmt.Errorf("load %s: %w", id.Key(), apperrors.ErrPersistenceFailed)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		// Best-effort repair: a document that fails to parse at all is
		// treated as absent rather than fatal, per the schema-evolution
		// contract's "tolerate unknown/missing fields" rule.
		s.logger.Warn("document " + id.Key() + " failed to decode, treating as absent: " + err.Error())
		return Document{}, false, nil
	}
	if doc.Fields == nil {
		doc.Fields = make(map[string]any)
	}
	return doc, true, nil
}

// Save atomically replaces the document stored under id.
func (s *FileSink) Save(id DocumentID, doc Document) error {
	start := time.Now()
	err := s.saveOne(id, doc)
	if s.metrics != nil {
		s.metrics.RecordSave(time.Since(start), err)
	}
	return err
}

func (s *FileSink) saveOne(id DocumentID, doc Document) error {
	dir := filepath.Join(s.root, id.Module)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create document directory: %w", apperrors.ErrPersistenceFailed)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document %s: %w", id.Key(), err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", id.Key(), apperrors.ErrPersistenceFailed)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file for %s: %w", id.Key(), apperrors.ErrPersistenceFailed)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file for %s: %w", id.Key(), apperrors.ErrPersistenceFailed)
	}

	final := s.pathFor(id)
	if err := os.Rename(tmpPath, final); err != nil {
		return fmt.Errorf("rename into place for %s: %w", id.Key(), apperrors.ErrPersistenceFailed)
	}
	return nil
}

// Delete removes the document stored under id. Deleting a document that
// doesn't exist is not an error.
func (s *FileSink) Delete(id DocumentID) error {
	if err := os.Remove(s.pathFor(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", id.Key(), apperrors.ErrPersistenceFailed)
	}
	return nil
}

// maxConcurrentSaves bounds how many files SaveAll writes at once, so one
// slow disk write doesn't serialize an entire dirty-set flush but a flush
// of thousands of documents also doesn't open thousands of file handles at
// once.
const maxConcurrentSaves = 16

// SaveAll flushes a dirty set concurrently, bounded by a semaphore built on
// golang.org/x/sync/errgroup. It returns the first error encountered but
// still attempts every entry; a partial failure leaves the failed
// documents' previous on-disk versions untouched, by construction of Save.
func (s *FileSink) SaveAll(ctx context.Context, dirty []Dirty) error {
	var g errgroup.Group
	g.SetLimit(maxConcurrentSaves)

	for _, d := range dirty {
		d := d
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return s.Save(d.ID, d.Doc)
		})
	}
	return g.Wait()
}
