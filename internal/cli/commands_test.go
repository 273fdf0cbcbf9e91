package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabsrc/internal/store"
)

// setupSources writes a SQLite database, a CSV file and a sources file
// declaring both, and returns the sources file path.
func setupSources(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	ctx := context.Background()

	st, err := store.Open(filepath.Join(dir, "people.db"))
	require.NoError(t, err)
	_, err = st.Exec(ctx, `CREATE TABLE people (city TEXT, age INTEGER)`)
	require.NoError(t, err)
	_, err = st.Exec(ctx, `INSERT INTO people VALUES ('Berlin', 34), ('Oslo', 70), ('Bern', 17)`)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	csv := "Product Name,Price,internal_id\nlamp,12.5,1\ndesk,120,2\nchair,45,3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.csv"), []byte(csv), 0o644))

	sources := `
sources:
  - name: people
    kind: sqlite
    path: people.db
    query: SELECT city, age FROM people
    subtypes:
      age: Int
  - name: products
    kind: file
    path: products.csv
    drop: [internal_id]
  - name: badtypes
    kind: file
    path: products.csv
    subtypes:
      Price: Money
`
	path := filepath.Join(dir, "tabsrc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sources), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestFilter_SQLiteSource(t *testing.T) {
	cfg := setupSources(t)

	out, _, err := execute(t, "--config", cfg, "--format", "json",
		"filter", "people", "--where", "age > 18", "--where", "city like '%ber%'")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   tableData `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Rows, 1)
	assert.Equal(t, "Berlin", resp.Data.Rows[0]["city"])
}

func TestFilter_VerboseLogsPushdown(t *testing.T) {
	cfg := setupSources(t)

	_, logs, err := execute(t, "--config", cfg, "-v", "filter", "people", "--where", "age < 20")
	require.NoError(t, err)
	assert.Contains(t, logs, "filter pushed down")
}

func TestFilter_FileSource(t *testing.T) {
	cfg := setupSources(t)

	out, _, err := execute(t, "--config", cfg, "filter", "products", "--where", "Price > 40", "--limit", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "product_name")
	assert.NotContains(t, out, "internal_id")
	assert.Contains(t, out, "desk")
	assert.Contains(t, out, "(1 rows)")
}

func TestFilter_Errors(t *testing.T) {
	cfg := setupSources(t)

	tests := []struct {
		name     string
		args     []string
		exitCode int
		code     string
	}{
		{"unknown source", []string{"filter", "nope"}, ExitCommandError, ErrCodeNotFound},
		{"bad condition", []string{"filter", "people", "--where", "age"}, ExitCommandError, ErrCodeBadCondition},
		{"invalid subtype", []string{"filter", "badtypes"}, ExitFailure, ErrCodeInvalidSubtype},
		{"unknown column", []string{"filter", "products", "--where", "weight > 1"}, ExitFailure, ErrCodeBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, append([]string{"--config", cfg}, tt.args...)...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))
			assert.Contains(t, out, "Error ["+tt.code+"]")
		})
	}
}

func TestFilter_MissingConfig(t *testing.T) {
	_, _, err := execute(t, "--config", filepath.Join(t.TempDir(), "none.yaml"), "filter", "people")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestColumns(t *testing.T) {
	cfg := setupSources(t)

	out, _, err := execute(t, "--config", cfg, "--format", "json", "columns", "people")
	require.NoError(t, err)

	var resp struct {
		Data []columnInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []columnInfo{
		{Name: "age", Internal: "age", Type: "Numeric", Subtype: "Int"},
		{Name: "city", Internal: "city"},
	}, resp.Data)
}

func TestColumns_FileHeaders(t *testing.T) {
	cfg := setupSources(t)

	out, _, err := execute(t, "--config", cfg, "columns", "products")
	require.NoError(t, err)
	assert.Contains(t, out, "Product Name")
	assert.Contains(t, out, "product_name")
}

func TestExport(t *testing.T) {
	cfg := setupSources(t)
	path := filepath.Join(t.TempDir(), "out.arrow")

	out, _, err := execute(t, "--config", cfg, "export", "people", "--where", "age > 18", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote 2 rows")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, 1, r.NumRecords())
	rec, err := r.Record(0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, rec.NumRows())
	assert.Equal(t, "city", rec.Schema().Field(0).Name)
	assert.Equal(t, "age", rec.Schema().Field(1).Name)
}
