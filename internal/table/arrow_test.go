package table

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToArrow(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	tbl := New([]string{"name", "age", "score", "active"}, []Record{
		{"name": "alice", "age": int64(31), "score": 1.5, "active": true},
		{"name": "bob", "age": nil, "score": 2, "active": false},
	})

	rec, err := tbl.ToArrow(mem)
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(2), rec.NumRows())
	assert.Equal(t, int64(4), rec.NumCols())

	schema := rec.Schema()
	assert.Equal(t, arrow.BinaryTypes.String, schema.Field(0).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Int64, schema.Field(1).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Float64, schema.Field(2).Type)
	assert.Equal(t, arrow.FixedWidthTypes.Boolean, schema.Field(3).Type)

	names := rec.Column(0).(*array.String)
	assert.Equal(t, "bob", names.Value(1))

	ages := rec.Column(1).(*array.Int64)
	assert.Equal(t, int64(31), ages.Value(0))
	assert.True(t, ages.IsNull(1))

	scores := rec.Column(2).(*array.Float64)
	assert.Equal(t, 2.0, scores.Value(1))
}

func TestToArrow_MixedColumnFallsBackToString(t *testing.T) {
	tbl := New([]string{"v"}, []Record{{"v": 1}, {"v": "two"}})

	rec, err := tbl.ToArrow(nil)
	require.NoError(t, err)
	defer rec.Release()

	col := rec.Column(0).(*array.String)
	assert.Equal(t, "1", col.Value(0))
	assert.Equal(t, "two", col.Value(1))
}
