// Package fs provides file-based export of listings.
package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/olxgpu"
)

// DatetimePlaceholder in an output path is replaced by the export time.
const DatetimePlaceholder = "{datetime}"

// DatetimeLayout formats the export time in output paths.
const DatetimeLayout = "20060102_150405"

// ResolvePath expands DatetimePlaceholder in pattern and, when the result
// already exists, appends _1, _2, ... before the extension until the name is free.
func ResolvePath(pattern string, now time.Time) string {
	path := strings.ReplaceAll(pattern, DatetimePlaceholder, now.Format(DatetimeLayout))
	if !exists(path) {
		return path
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
		if !exists(candidate) {
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ExportFile is an output file with atomic update semantics.
// Data is written to <path>.tmp and moved into place on Commit.
type ExportFile struct {
	path string
	f    *os.File
}

// CreateExportFile resolves pattern with ResolvePath and opens the temporary
// file, creating parent directories as needed.
func CreateExportFile(pattern string, now time.Time) (*ExportFile, error) {
	path := ResolvePath(pattern, now)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	f, err := os.Create(path + ".tmp")
	if err != nil {
		return nil, err
	}
	return &ExportFile{path: path, f: f}, nil
}

// Path returns the final path of the file.
func (e *ExportFile) Path() string {
	return e.path
}

// Write writes to the temporary file.
func (e *ExportFile) Write(p []byte) (int, error) {
	return e.f.Write(p)
}

// Commit flushes the temporary file and renames it to the final path.
func (e *ExportFile) Commit() error {
	if err := e.f.Sync(); err != nil {
		_ = e.Abort()
		return err
	}
	if err := e.f.Close(); err != nil {
		_ = os.Remove(e.f.Name())
		return err
	}
	return os.Rename(e.f.Name(), e.path)
}

// Abort discards the temporary file.
func (e *ExportFile) Abort() error {
	_ = e.f.Close()
	err := os.Remove(e.f.Name())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// WriterFunc creates a ListingWriter over an output stream.
type WriterFunc func(w io.Writer) olxgpu.ListingWriter

// Export writes listings to a new file resolved from pattern and returns its
// final path. Nothing is left behind when writing fails.
func Export(pattern string, now time.Time, newWriter WriterFunc, listings []olxgpu.Listing) (string, error) {
	f, err := CreateExportFile(pattern, now)
	if err != nil {
		return "", err
	}
	if err := newWriter(f).WriteListings(listings); err != nil {
		_ = f.Abort()
		return "", fmt.Errorf("write %s: %w", f.Path(), err)
	}
	if err := f.Commit(); err != nil {
		return "", err
	}
	return f.Path(), nil
}
