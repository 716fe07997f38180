package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoHeader is returned when a source has no header row at all
var ErrNoHeader = errors.New("source has no header row")

// Table is a raw sheet: a header and data rows in source order
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadCSV reads a CSV export into a Table. Ragged rows are accepted;
// only a missing header or malformed CSV is an error.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, ErrNoHeader
	}
	if err != nil {
		return Table{}, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}
		if blankRecord(record) {
			continue
		}
		rows = append(rows, record)
	}

	return Table{Header: header, Rows: rows}, nil
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
