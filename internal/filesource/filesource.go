// Package filesource reads CSV, TSV, Parquet and JSON files through an
// embedded DuckDB and serves them as source adapters.
//
// File sources are structurally fixed: they cannot run caller queries.
// Header names are sanitised into internal column names and the column
// map translates the original headers back.
package filesource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/roach88/tabsrc/internal/table"
)

var (
	// ErrQueryUnsupported is returned for any non-empty query.
	ErrQueryUnsupported = errors.New("filesource: queries are not supported")

	// ErrUnknownFormat is returned by Open for unrecognised file extensions.
	ErrUnknownFormat = errors.New("filesource: unknown file format")
)

// readers maps a file extension to the DuckDB table function that reads it.
var readers = map[string]string{
	".csv":     "read_csv_auto",
	".tsv":     "read_csv_auto",
	".parquet": "read_parquet",
	".json":    "read_json_auto",
	".ndjson":  "read_json_auto",
}

// File is a data file opened for reading.
type File struct {
	path   string
	reader string
	db     *sql.DB
}

// Open checks that path exists and has a supported extension, and starts
// an in-memory DuckDB to read it. The file itself is read on Materialize.
func Open(path string) (*File, error) {
	reader, ok := readers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("start duckdb: %w", err)
	}
	return &File{path: path, reader: reader, db: db}, nil
}

// Close releases the DuckDB instance.
func (f *File) Close() error {
	if f.db == nil {
		return nil
	}
	return f.db.Close()
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Materialize implements source.Adapter. Only the empty query is accepted.
func (f *File) Materialize(ctx context.Context, query string) (*table.Table, table.ColumnMap, error) {
	if query != "" {
		return nil, nil, fmt.Errorf("%w: %q", ErrQueryUnsupported, query)
	}

	rows, err := f.db.QueryContext(ctx, f.statement())
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	defer rows.Close()

	tbl, err := table.FromSQLRows(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	columnMap := SanitizeHeaders(tbl.Columns())
	if err := tbl.Rename(columnMap); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return tbl, columnMap, nil
}

func (f *File) statement() string {
	quoted := "'" + strings.ReplaceAll(f.path, "'", "''") + "'"
	return fmt.Sprintf("SELECT * FROM %s(%s)", f.reader, quoted)
}
