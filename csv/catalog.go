// Package csv reads model catalogs and reads and writes listing exports in
// CSV format.
package csv

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/olxgpu"
)

// modelColumn is the catalog column holding model names.
const modelColumn = "model"

// ReadCatalog reads a model catalog from r. The model names come from the
// column headed "Model" (any case). A file with a single column and no such
// header is read as a plain list of names, first row included.
// Failures are reported as *olxgpu.CatalogLoadError naming source.
func ReadCatalog(r io.Reader, source string) (*olxgpu.Catalog, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, &olxgpu.CatalogLoadError{Source: source, Err: err}
	}
	if len(records) == 0 {
		return nil, &olxgpu.CatalogLoadError{Source: source, Err: errors.New("catalog is empty")}
	}

	col, skipHeader := -1, false
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")), modelColumn) {
			col, skipHeader = i, true
			break
		}
	}
	if col < 0 {
		if len(records[0]) != 1 {
			return nil, &olxgpu.CatalogLoadError{Source: source, Err: errors.New(`no "Model" column`)}
		}
		col = 0
	}
	if skipHeader {
		records = records[1:]
	}

	names := make([]string, 0, len(records))
	for _, rec := range records {
		if col < len(rec) {
			names = append(names, rec[col])
		}
	}

	catalog, err := olxgpu.NewCatalog(names)
	if err != nil {
		return nil, &olxgpu.CatalogLoadError{Source: source, Err: err}
	}
	return catalog, nil
}

// LoadCatalog reads the catalog file at path.
func LoadCatalog(path string) (*olxgpu.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &olxgpu.CatalogLoadError{Source: path, Err: err}
	}
	defer f.Close()
	return ReadCatalog(f, path)
}
