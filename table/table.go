// Package table holds the in-memory tabular structure produced by the load
// benchmarks, and the codecs for the three dummy file formats.
package table

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/mat"
)

// Table is a set of rows sharing named float64 columns. Each row carries an
// integer index label. Cells are stored row-major.
type Table struct {
	columns []string
	index   []int
	data    []float64
}

// New builds a Table from its parts. data must hold len(index) rows of
// len(columns) cells.
func New(columns []string, index []int, data []float64) (*Table, error) {
	if len(data) != len(columns)*len(index) {
		return nil, fmt.Errorf(
			"data length %d does not match %d rows x %d columns",
			len(data), len(index), len(columns),
		)
	}

	return &Table{columns: columns, index: index, data: data}, nil
}

// FromDense copies m into a Table with columns named "0".."c-1" and a
// 0-based index.
func FromDense(m *mat.Dense) *Table {
	r, c := m.Dims()

	columns := make([]string, c)
	for j := range columns {
		columns[j] = strconv.Itoa(j)
	}

	index := make([]int, r)
	data := make([]float64, r*c)

	for i := 0; i < r; i++ {
		index[i] = i
		copy(data[i*c:(i+1)*c], m.RawRowView(i))
	}

	return &Table{columns: columns, index: index, data: data}
}

// Dims returns the number of rows and columns.
func (t *Table) Dims() (rows, cols int) {
	return len(t.index), len(t.columns)
}

// At returns the cell at row i, column j.
func (t *Table) At(i, j int) float64 {
	return t.data[i*len(t.columns)+j]
}

// Columns returns the column names. The slice must not be modified.
func (t *Table) Columns() []string {
	return t.columns
}

// Index returns the row labels. The slice must not be modified.
func (t *Table) Index() []int {
	return t.index
}

// Dense returns the cells as a gonum matrix sharing the table's storage,
// or nil for an empty table.
func (t *Table) Dense() *mat.Dense {
	r, c := t.Dims()
	if r == 0 || c == 0 {
		return nil
	}

	return mat.NewDense(r, c, t.data)
}

// Append returns a new table holding the rows of t followed by the rows of
// other. Neither input is modified and row labels are kept as they are.
func (t *Table) Append(other *Table) *Table {
	return combine([]*Table{t, other}, false)
}

// Concat stacks frags in order into one table in a single pass. The result
// is relabelled 0..n-1.
func Concat(frags []*Table) *Table {
	return combine(frags, true)
}

// combine aligns columns by name in first-seen order. Cells a fragment
// lacks are NaN.
func combine(frags []*Table, relabel bool) *Table {
	var columns []string

	pos := make(map[string]int)
	rows := 0

	for _, f := range frags {
		if f == nil {
			continue
		}

		for _, name := range f.columns {
			if _, ok := pos[name]; !ok {
				pos[name] = len(columns)
				columns = append(columns, name)
			}
		}

		rows += len(f.index)
	}

	width := len(columns)
	out := &Table{
		columns: columns,
		index:   make([]int, 0, rows),
		data:    make([]float64, rows*width),
	}

	row := 0

	for _, f := range frags {
		if f == nil {
			continue
		}

		fw := len(f.columns)
		mapping := make([]int, fw)
		aligned := fw == width

		for j, name := range f.columns {
			mapping[j] = pos[name]
			if mapping[j] != j {
				aligned = false
			}
		}

		for i, label := range f.index {
			src := f.data[i*fw : (i+1)*fw]
			dst := out.data[row*width : (row+1)*width]

			if aligned {
				copy(dst, src)
			} else {
				for k := range dst {
					dst[k] = math.NaN()
				}
				for j, p := range mapping {
					dst[p] = src[j]
				}
			}

			if relabel {
				label = row
			}

			out.index = append(out.index, label)
			row++
		}
	}

	return out
}
