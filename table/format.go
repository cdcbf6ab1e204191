package table

import (
	"fmt"
	"path/filepath"
)

// Format identifies one of the on-disk table encodings.
type Format string

const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	// Binary is the gob encoding. Files keep the .pickle extension.
	Binary Format = "pickle"
)

// Formats returns every supported format in generation order.
func Formats() []Format {
	return []Format{CSV, XLSX, Binary}
}

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}

	return "", fmt.Errorf("unknown format %q", s)
}

// Ext returns the file extension, including the leading dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Label is the human name used in log messages.
func (f Format) Label() string {
	switch f {
	case CSV:
		return "CSV"
	case XLSX:
		return "Excel"
	case Binary:
		return "Pickle"
	default:
		return string(f)
	}
}

// FileName returns the path of dummy file i in dir.
func FileName(dir string, i int, f Format) string {
	return filepath.Join(dir, fmt.Sprintf("Dummy %d%s", i, f.Ext()))
}

// ReadFile loads the table stored at path in format f.
func ReadFile(f Format, path string) (*Table, error) {
	var (
		t   *Table
		err error
	)

	switch f {
	case CSV:
		t, err = readCSV(path)
	case XLSX:
		t, err = readXLSX(path)
	case Binary:
		t, err = readBinary(path)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}

	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", f, path, err)
	}

	return t, nil
}

// WriteFile stores t at path in format f, replacing any existing file.
func WriteFile(f Format, path string, t *Table) error {
	var err error

	switch f {
	case CSV:
		err = writeCSV(path, t)
	case XLSX:
		err = writeXLSX(path, t)
	case Binary:
		err = writeBinary(path, t)
	default:
		return fmt.Errorf("unknown format %q", f)
	}

	if err != nil {
		return fmt.Errorf("write %s %s: %w", f, path, err)
	}

	return nil
}

func unnamed(j int) string {
	return fmt.Sprintf("Unnamed: %d", j)
}
