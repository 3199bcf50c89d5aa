package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/docschema"
)

// Ensure FileStore implements docschema.RecordWriter at compile time.
var _ docschema.RecordWriter = (*FileStore)(nil)

// FileStore writes one JSON file per record with atomic update semantics.
// Records are saved to a temporary directory, then moved atomically on
// Commit.
type FileStore struct {
	baseDir string
	name    string
}

// NewFileStore creates a new FileStore.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
func NewFileStore(baseDir, name string) *FileStore {
	return &FileStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *FileStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *FileStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// WriteRecord saves rec at the path derived from its sku.
func (s *FileStore) WriteRecord(ctx context.Context, rec *docschema.Record) error {
	sku, ok := rec.Get(docschema.FieldSKU)
	if !ok {
		return docschema.Errorf(docschema.EINVALID, "record %q has no sku", rec.ID())
	}
	relPath, err := URLToPath(sku.Str())
	if err != nil {
		return err
	}

	fullPath := filepath.Join(s.tempDir(), filepath.FromSlash(relPath))

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}

	data, err := FormatRecord(rec)
	if err != nil {
		return err
	}
	return os.WriteFile(fullPath, data, 0644)
}

// Commit replaces the output directory with the saved records.
func (s *FileStore) Commit() error {
	// Remove existing final directory if present
	if err := os.RemoveAll(s.finalDir()); err != nil {
		return err
	}

	// Atomically rename temp to final
	return os.Rename(s.tempDir(), s.finalDir())
}

// Abort discards the saved records.
func (s *FileStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
