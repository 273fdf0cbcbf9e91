package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tabsrc/internal/table"
	"github.com/roach88/tabsrc/internal/testutil"
)

func TestSnapshot_RoundTripMaterialized(t *testing.T) {
	s, _ := fixedSource(t)
	ctx := context.Background()
	require.NoError(t, s.SetSubtypes(ctx, map[string]string{"a": "Int"}))

	data, err := s.Snapshot()
	require.NoError(t, err)

	fresh := &testutil.Adapter{}
	restored, err := Restore(data, fresh, WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.Equal(t, s.ID(), restored.ID())
	assert.True(t, restored.Materialized())
	assert.False(t, restored.IsQueryBacked())
	assert.Equal(t, map[string]string{"a": "Int"}, restored.Subtypes())
	assert.Equal(t, map[string]string{"a": "Numeric"}, restored.Types())

	rows, err := restored.Rows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"col_a", "col_b", "name"}, rows.Columns())
	assert.Equal(t, 4, rows.Len())
	assert.EqualValues(t, 10, rows.Row(0)["col_b"])
	assert.Equal(t, "alice", rows.Row(1)["name"])
	assert.Nil(t, rows.Row(3)["name"])

	cm, err := restored.ColumnMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleMap(), cm)

	assert.Zero(t, fresh.CallCount(), "restored rows come from the snapshot")
}

func TestSnapshot_UnmaterializedKeepsQuery(t *testing.T) {
	s, a := querySource(t, nil)
	assert.Zero(t, a.CallCount())

	data, err := s.Snapshot()
	require.NoError(t, err)

	fresh := &testutil.Adapter{BaseQuery: baseQuery, Base: sampleTable()}
	restored, err := Restore(data, fresh, WithLogger(quietLogger()))
	require.NoError(t, err)

	assert.False(t, restored.Materialized())
	assert.True(t, restored.IsQueryBacked())
	assert.Equal(t, baseQuery, restored.Query())

	_, err = restored.Rows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{baseQuery}, fresh.Calls)
}

func TestSnapshot_ProbedMapSurvives(t *testing.T) {
	probe := table.New([]string{"x", "y"}, nil)
	s, _ := querySource(t, map[string]*table.Table{"select * from t limit 1": probe})
	ctx := context.Background()

	_, err := s.ColumnMap(ctx)
	require.NoError(t, err)

	data, err := s.Snapshot()
	require.NoError(t, err)

	fresh := &testutil.Adapter{}
	restored, err := Restore(data, fresh, WithLogger(quietLogger()))
	require.NoError(t, err)

	cm, err := restored.ColumnMap(ctx)
	require.NoError(t, err)
	assert.Equal(t, table.Identity([]string{"x", "y"}), cm)
	assert.Zero(t, fresh.CallCount())
}

func TestSnapshot_QueryOverride(t *testing.T) {
	s, _ := querySource(t, nil)
	data, err := s.Snapshot()
	require.NoError(t, err)

	restored, err := Restore(data, &testutil.Adapter{}, WithLogger(quietLogger()), WithQuery("SELECT a FROM t"))
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t", restored.Query())
}

func TestRestore_RejectsBadInput(t *testing.T) {
	_, err := Restore([]byte("definitely not zstd"), &testutil.Adapter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decompress snapshot")
}
