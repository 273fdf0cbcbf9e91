package memstore

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabsrc/internal/queryir"
	"github.com/roach88/tabsrc/internal/source"
	"github.com/roach88/tabsrc/internal/table"
)

func people() *table.Table {
	return table.New([]string{"name", "age"}, []table.Record{
		{"name": "ada", "age": 36},
		{"name": "linus", "age": 21},
		{"name": "grace", "age": nil},
	})
}

func TestMaterialize_ReturnsCopies(t *testing.T) {
	s := New(people(), nil)
	ctx := context.Background()

	first, cm, err := s.Materialize(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, table.Identity([]string{"name", "age"}), cm)

	first.Row(0)["name"] = "changed"
	require.NoError(t, first.DropColumns("age"))

	second, _, err := s.Materialize(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "ada", second.Row(0)["name"])
	assert.Equal(t, []string{"name", "age"}, second.Columns())
}

func TestMaterialize_RejectsQueries(t *testing.T) {
	s := New(people(), nil)

	_, _, err := s.Materialize(context.Background(), "SELECT * FROM people")
	assert.ErrorIs(t, err, ErrQueryUnsupported)
}

func TestMaterialize_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := New(people(), nil).Materialize(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_NilTable(t *testing.T) {
	rows, cm, err := New(nil, nil).Materialize(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, rows.Len())
	assert.Empty(t, cm)
}

func TestSource_FiltersInMemory(t *testing.T) {
	s := source.New(
		New(people(), table.ColumnMap{"Name": "name", "Age": "age"}),
		source.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	out, err := s.Filter(context.Background(), []queryir.Condition{
		{Column: "Age", Operator: ">", Value: 30},
	}, 0)
	require.NoError(t, err)

	require.Equal(t, 1, out.Len())
	assert.Equal(t, "ada", out.Row(0)["name"])
	assert.False(t, s.IsQueryBacked())
}
