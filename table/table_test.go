package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func sample(t *testing.T, rows int, offset float64) *Table {
	t.Helper()

	m := mat.NewDense(rows, 3, nil)
	m.Apply(func(i, j int, _ float64) float64 {
		return offset + float64(i*10+j)
	}, m)

	return FromDense(m)
}

func TestFromDense(t *testing.T) {
	tbl := sample(t, 4, 0)

	rows, cols := tbl.Dims()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []string{"0", "1", "2"}, tbl.Columns())
	assert.Equal(t, []int{0, 1, 2, 3}, tbl.Index())
	assert.Equal(t, 21.0, tbl.At(2, 1))
}

func TestNewRejectsShortData(t *testing.T) {
	_, err := New([]string{"a", "b"}, []int{0, 1}, []float64{1, 2, 3})
	require.Error(t, err)
}

func TestAppendLeavesReceiverUntouched(t *testing.T) {
	a := sample(t, 2, 0)
	b := sample(t, 3, 100)

	out := a.Append(b)

	rows, _ := a.Dims()
	assert.Equal(t, 2, rows, "receiver must keep its rows")

	rows, cols := out.Dims()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []int{0, 1, 0, 1, 2}, out.Index())
	assert.Equal(t, 100.0, out.At(2, 0))
}

func TestConcatRelabels(t *testing.T) {
	frags := []*Table{sample(t, 2, 0), sample(t, 2, 100), sample(t, 1, 200)}

	out := Concat(frags)

	rows, cols := out.Dims()
	require.Equal(t, 5, rows)
	require.Equal(t, 3, cols)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, out.Index())
	assert.Equal(t, 200.0, out.At(4, 0))
	assert.Equal(t, 112.0, out.At(3, 2))
}

func TestConcatAlignsColumns(t *testing.T) {
	left, err := New([]string{"a", "b"}, []int{0}, []float64{1, 2})
	require.NoError(t, err)

	right, err := New([]string{"b", "c"}, []int{0}, []float64{3, 4})
	require.NoError(t, err)

	out := Concat([]*Table{left, right})

	assert.Equal(t, []string{"a", "b", "c"}, out.Columns())
	assert.Equal(t, 1.0, out.At(0, 0))
	assert.Equal(t, 2.0, out.At(0, 1))
	assert.True(t, math.IsNaN(out.At(0, 2)))
	assert.True(t, math.IsNaN(out.At(1, 0)))
	assert.Equal(t, 3.0, out.At(1, 1))
	assert.Equal(t, 4.0, out.At(1, 2))
}

func TestConcatEmpty(t *testing.T) {
	out := Concat(nil)

	rows, cols := out.Dims()
	assert.Zero(t, rows)
	assert.Zero(t, cols)
	assert.Nil(t, out.Dense())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"csv", CSV, false},
		{"xlsx", XLSX, false},
		{"pickle", Binary, false},
		{"parquet", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)

			continue
		}

		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "in/Dummy 3.csv", FileName("in", 3, CSV))
	assert.Equal(t, "in/Dummy 0.xlsx", FileName("in", 0, XLSX))
	assert.Equal(t, "in/Dummy 9.pickle", FileName("in", 9, Binary))
}
