package filesource

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabsrc/internal/queryir"
	"github.com/roach88/tabsrc/internal/source"
	"github.com/roach88/tabsrc/internal/table"
)

const peopleCSV = `First Name,Age,e-mail
ada,36,ada@example.com
linus,21,linus@example.com
grace,85,grace@example.com
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func openFile(t *testing.T, path string) *File {
	t.Helper()
	f, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestOpen_Errors(t *testing.T) {
	t.Run("unknown extension", func(t *testing.T) {
		_, err := Open(writeFile(t, "data.xlsx", "x"))
		assert.ErrorIs(t, err, ErrUnknownFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "missing.csv"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestMaterialize_CSV(t *testing.T) {
	f := openFile(t, writeFile(t, "people.csv", peopleCSV))

	tbl, cm, err := f.Materialize(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"first_name", "age", "e_mail"}, tbl.Columns())
	assert.Equal(t, table.ColumnMap{
		"First Name": "first_name",
		"Age":        "age",
		"e-mail":     "e_mail",
	}, cm)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, "ada", tbl.Row(0)["first_name"])
	assert.EqualValues(t, 36, tbl.Row(0)["age"])
}

func TestMaterialize_QuotedPath(t *testing.T) {
	f := openFile(t, writeFile(t, "o'brien.csv", "a\n1\n"))

	tbl, _, err := f.Materialize(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())
}

func TestMaterialize_NDJSON(t *testing.T) {
	f := openFile(t, writeFile(t, "events.ndjson", `{"Kind":"click","n":1}
{"Kind":"view","n":2}
`))

	tbl, cm, err := f.Materialize(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "kind", cm["Kind"])
	assert.Equal(t, 2, tbl.Len())
}

func TestMaterialize_Parquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nums.parquet")
	db, err := sql.Open("duckdb", "")
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec("COPY (SELECT range AS n FROM range(5)) TO '" + path + "' (FORMAT PARQUET)")
	require.NoError(t, err)

	f := openFile(t, path)
	tbl, _, err := f.Materialize(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.Len())
}

func TestMaterialize_RejectsQueries(t *testing.T) {
	f := openFile(t, writeFile(t, "people.csv", peopleCSV))

	_, _, err := f.Materialize(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrQueryUnsupported)
}

func TestSource_FiltersByOriginalHeader(t *testing.T) {
	f := openFile(t, writeFile(t, "people.csv", peopleCSV))
	src := source.New(f, source.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ctx := context.Background()

	out, err := src.Filter(ctx, []queryir.Condition{
		{Column: "Age", Operator: ">", Value: 30},
		{Column: "e-mail", Operator: "like", Value: "%grace%"},
	}, 0)
	require.NoError(t, err)

	require.Equal(t, 1, out.Len())
	assert.Equal(t, "grace", out.Row(0)["first_name"])

	require.NoError(t, src.DropColumns(ctx, "e-mail"))
	rows, err := src.Rows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first_name", "age"}, rows.Columns())
}

func TestSanitizeHeaders(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    table.ColumnMap
	}{
		{
			name:    "spaces and punctuation",
			headers: []string{"First Name", "  total ($) "},
			want:    table.ColumnMap{"First Name": "first_name", "  total ($) ": "total"},
		},
		{
			name:    "collisions get suffixes",
			headers: []string{"Name", "name", "NAME"},
			want:    table.ColumnMap{"Name": "name", "name": "name_2", "NAME": "name_3"},
		},
		{
			name:    "nothing left",
			headers: []string{"%%", "column"},
			want:    table.ColumnMap{"%%": "column", "column": "column_2"},
		},
		{
			name:    "decomposed accents are composed",
			headers: []string{"Cafe\u0301"},
			want:    table.ColumnMap{"Cafe\u0301": "caf\u00e9"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeHeaders(tt.headers))
		})
	}
}
