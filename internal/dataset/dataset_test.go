package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnAccessors(t *testing.T) {
	col := NewColumn("score", Numeric, []any{1.5, nil, 2.5, 1.5})

	assert.Equal(t, "score", col.Name())
	assert.Equal(t, Numeric, col.Kind())
	assert.Equal(t, 4, col.Len())
	assert.Equal(t, 1, col.NullCount())
	assert.True(t, col.IsNull(1))
	assert.False(t, col.IsNull(0))
	assert.Equal(t, 2, col.DistinctCount())
	assert.Equal(t, []float64{1.5, 2.5, 1.5}, col.Floats())
}

func TestColumnFloatsWidensIntegers(t *testing.T) {
	col := NewColumn("n", Numeric, []any{1, int64(2), 3.0, nil})
	assert.Equal(t, []float64{1, 2, 3}, col.Floats())
	assert.Equal(t, 3, col.DistinctCount())
}

func TestColumnStringsCoerces(t *testing.T) {
	col := NewColumn("mixed", Generic, []any{"a", 7, nil, true})
	assert.Equal(t, []string{"a", "7", "true"}, col.Strings())
}

func TestColumnTimes(t *testing.T) {
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	col := NewColumn("ts", Temporal, []any{late, nil, early})
	assert.Equal(t, []time.Time{late, early}, col.Times())
}

func TestNewDatasetValidation(t *testing.T) {
	_, err := New(
		FloatColumn("a", []float64{1, 2}),
		FloatColumn("b", []float64{1}),
	)
	assert.Error(t, err, "mismatched lengths must be rejected")

	_, err = New(
		FloatColumn("a", []float64{1}),
		FloatColumn("a", []float64{2}),
	)
	assert.Error(t, err, "duplicate names must be rejected")

	_, err = New(FloatColumn("", []float64{1}))
	assert.Error(t, err, "empty names must be rejected")
}

func TestDatasetShape(t *testing.T) {
	ds, err := New(
		FloatColumn("id", []float64{1, 2, 3}),
		StringColumn("name", []string{"a", "b", "c"}),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Rows())
	assert.Equal(t, 2, ds.Width())
	assert.Equal(t, "id", ds.Columns()[0].Name())
	assert.Equal(t, "name", ds.Columns()[1].Name())

	empty, err := New()
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Rows())
	assert.Equal(t, 0, empty.Width())
}
