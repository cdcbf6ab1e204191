package table

import (
	"bufio"
	"encoding/gob"
	"io"
	"os"
)

// wireTable is the gob form of a Table. The index travels separately from
// the cells, so a decoded table has exactly the encoded columns.
type wireTable struct {
	Columns []string
	Index   []int
	Data    []float64
}

// Encode writes t to w in the binary format.
func Encode(w io.Writer, t *Table) error {
	return gob.NewEncoder(w).Encode(wireTable{
		Columns: t.columns,
		Index:   t.index,
		Data:    t.data,
	})
}

// Decode reads one table in the binary format from r.
func Decode(r io.Reader) (*Table, error) {
	var wt wireTable
	if err := gob.NewDecoder(r).Decode(&wt); err != nil {
		return nil, err
	}

	return New(wt.Columns, wt.Index, wt.Data)
}

func writeBinary(path string, t *Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	if err := Encode(bw, t); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return err
	}

	return file.Close()
}

func readBinary(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Decode(bufio.NewReader(file))
}
