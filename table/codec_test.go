package table

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func randomTable(t *testing.T) *Table {
	t.Helper()

	m := mat.NewDense(50, 4, nil)
	m.Apply(func(i, j int, _ float64) float64 {
		return float64(i*7+j*13%11) / 97.0
	}, m)

	return FromDense(m)
}

// dataColumns drops the leading index column that the text and spreadsheet
// encodings read back as data.
func dataColumns(t *testing.T, tbl *Table) *mat.Dense {
	t.Helper()

	d := tbl.Dense()
	r, c := d.Dims()

	return mat.DenseCopyOf(d.Slice(0, r, 1, c))
}

func TestCodecs(t *testing.T) {
	src := randomTable(t)
	dir := t.TempDir()

	tests := []struct {
		format   Format
		wantCols int
		indexCol bool
	}{
		{CSV, 5, true},
		{XLSX, 5, true},
		{Binary, 4, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			path := FileName(dir, 0, tt.format)

			require.NoError(t, WriteFile(tt.format, path, src))

			got, err := ReadFile(tt.format, path)
			require.NoError(t, err)

			rows, cols := got.Dims()
			assert.Equal(t, 50, rows)
			assert.Equal(t, tt.wantCols, cols)

			if !tt.indexCol {
				assert.True(t, mat.Equal(src.Dense(), got.Dense()))
				assert.Equal(t, src.Columns(), got.Columns())

				return
			}

			assert.Equal(t, "Unnamed: 0", got.Columns()[0])
			assert.Equal(t, "3", got.Columns()[4])
			for i := 0; i < rows; i++ {
				assert.Equal(t, float64(i), got.At(i, 0))
			}
			assert.True(t, mat.Equal(src.Dense(), dataColumns(t, got)))
		})
	}
}

func TestWriteFileOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Dummy 0.csv")

	require.NoError(t, os.WriteFile(path, []byte("stale contents that are longer than a header\n"), 0o644))
	require.NoError(t, WriteFile(CSV, path, randomTable(t)))

	got, err := ReadFile(CSV, path)
	require.NoError(t, err)

	rows, _ := got.Dims()
	assert.Equal(t, 50, rows)
}

func TestReadFileMissing(t *testing.T) {
	for _, f := range Formats() {
		_, err := ReadFile(f, FileName(t.TempDir(), 0, f))
		assert.ErrorIs(t, err, os.ErrNotExist, string(f))
	}
}

func TestWriteFileMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")

	err := WriteFile(CSV, FileName(dir, 0, CSV), randomTable(t))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncodeDecode(t *testing.T) {
	src := randomTable(t)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src))

	got, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, src.Index(), got.Index())
	assert.True(t, mat.Equal(src.Dense(), got.Dense()))
}

func TestReadCSVEmptyCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sparse.csv")
	require.NoError(t, os.WriteFile(path, []byte(",a,b\n0,1.5,\n"), 0o644))

	got, err := ReadFile(CSV, path)
	require.NoError(t, err)

	assert.Equal(t, []string{"Unnamed: 0", "a", "b"}, got.Columns())
	assert.Equal(t, 1.5, got.At(0, 1))
	assert.NotEqual(t, got.At(0, 2), got.At(0, 2), "empty cell should be NaN")
}
