// Package codec serializes models to and from the two XML persistence
// shapes: the hierarchical, folder-organized dialect and the flat,
// container-organized exchange dialect.
//
// Both codecs are lenient about unrecognized type names: unknown entries are
// omitted from the resulting model and reported through Result.Skipped so
// callers can detect taxonomy drift without losing the tolerance for
// extensions.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"archimap/internal/domain"
)

// ErrInvalidDocument is returned when a document's root element or a
// required attribute is missing.
var ErrInvalidDocument = errors.New("invalid document")

// DefaultHierarchicalFilename is the directory-relative filename used when a
// caller supplies a directory instead of a file path.
const DefaultHierarchicalFilename = "model.archimate"

// SkippedEntry records an entry the parser dropped because its type name is
// not part of the taxonomy.
type SkippedEntry struct {
	Context string `json:"context"` // folder or container the entry appeared in
	Type    string `json:"type"`    // the unrecognized type name, verbatim
}

// Result is a parsed model together with the entries the parser skipped.
type Result struct {
	Model   *domain.Model  `json:"model"`
	Skipped []SkippedEntry `json:"skipped,omitempty"`
}

// Importer parses a model from a serialized format.
type Importer interface {
	Parse(r io.Reader) (*Result, error)
	Format() string
}

// Exporter writes a model to a serialized format.
type Exporter interface {
	Export(m *domain.Model, w io.Writer) error
	Format() string
}

// ParseFile reads and parses a model file. A missing file is reported as
// domain.ErrNotFound with the offending path.
func ParseFile(imp Importer, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return imp.Parse(f)
}

// ExportFile writes a model to a single file atomically: the document is
// staged in a temp file in the target directory and renamed into place, so a
// failed write never leaves a truncated model behind. A directory path gets
// the default filename appended.
func ExportFile(exp Exporter, m *domain.Model, path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultHierarchicalFilename)
	}

	var buf bytes.Buffer
	if err := exp.Export(m, &buf); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".archimap-*")
	if err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
