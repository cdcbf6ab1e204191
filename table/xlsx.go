package table

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"
)

// writeXLSX lays the table out like the CSV encoding, on the first sheet.
func writeXLSX(path string, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(f.GetSheetName(0))
	if err != nil {
		return err
	}

	_, cols := t.Dims()
	row := make([]interface{}, cols+1)

	row[0] = ""
	for j, name := range t.columns {
		row[j+1] = name
	}

	if err := sw.SetRow("A1", row); err != nil {
		return err
	}

	for i, label := range t.index {
		row[0] = label
		for j := 0; j < cols; j++ {
			row[j+1] = t.At(i, j)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	return f.SaveAs(path)
}

// readXLSX reads the first sheet. The first row names the columns; trailing
// cells missing from a row are NaN.
func readXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	raw := excelize.Options{RawCellValue: true}

	var (
		columns []string
		data    []float64
		index   []int
	)

	for n := 0; rows.Next(); n++ {
		cells, err := rows.Columns(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n, err)
		}

		if columns == nil {
			columns = make([]string, len(cells))
			for j, name := range cells {
				if name == "" {
					name = unnamed(j)
				}
				columns[j] = name
			}

			continue
		}

		for j := range columns {
			if j >= len(cells) {
				data = append(data, math.NaN())

				continue
			}

			v, err := parseCell(cells[j])
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", n, j, err)
			}
			data = append(data, v)
		}

		index = append(index, len(index))
	}

	if err := rows.Error(); err != nil {
		return nil, err
	}

	if columns == nil {
		return nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	return New(columns, index, data)
}
