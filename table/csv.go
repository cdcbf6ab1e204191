package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// writeCSV writes a header row led by an empty cell, then one line per row
// led by its index label.
func writeCSV(path string, t *Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	w := csv.NewWriter(bw)

	_, cols := t.Dims()
	record := make([]string, cols+1)

	record[0] = ""
	copy(record[1:], t.columns)

	if err := w.Write(record); err != nil {
		return err
	}

	for i, label := range t.index {
		record[0] = strconv.Itoa(label)
		for j := 0; j < cols; j++ {
			record[j+1] = strconv.FormatFloat(t.At(i, j), 'g', -1, 64)
		}

		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return err
	}

	return file.Close()
}

// readCSV keeps every column, including the written index, as data.
// Columns with an empty header are named "Unnamed: <pos>".
func readCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(bufio.NewReader(file))
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	columns := make([]string, len(header))
	for j, name := range header {
		if name == "" {
			name = unnamed(j)
		}
		columns[j] = name
	}

	var (
		data  []float64
		index []int
	)

	for row := 0; ; row++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		for j, field := range record {
			v, err := parseCell(field)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", row, j, err)
			}
			data = append(data, v)
		}

		index = append(index, row)
	}

	return New(columns, index, data)
}

func parseCell(s string) (float64, error) {
	if s == "" {
		return math.NaN(), nil
	}

	return strconv.ParseFloat(s, 64)
}
