package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

type csvLoader struct{}

func (csvLoader) CanLoad(path string) bool { return hasSuffix(path, ".csv", ".tsv") }

func (csvLoader) Load(path string, opt Options) (*Table, error) { return LoadCSV(path, opt) }

// LoadCSV reads a CSV file whose first row names the columns.
func LoadCSV(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	return ReadCSV(f, delim, opt.MaxRows)
}

// ReadCSV reads CSV data from r. maxRows <= 0 reads every record.
func ReadCSV(r io.Reader, delim rune, maxRows int) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if delim != 0 {
		cr.Comma = delim
	}
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		// Excel exports often start with a BOM.
		header[0] = trimBOM(header[0])
	}
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		rows = append(rows, rec)
		if maxRows > 0 && len(rows) >= maxRows {
			break
		}
	}
	return NewTable(header, rows), nil
}

func sniffDelimiter(path string) rune {
	if hasSuffix(path, ".tsv") {
		return '\t'
	}
	return ','
}

func trimBOM(s string) string {
	const bom = "\ufeff"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
