package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadCSV reads a ledger table from a CSV file whose header row names the
// columns. The table takes the file's base name.
func LoadCSV(path string) (*MemorySource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger file %s: %w", path, err)
	}
	defer file.Close()

	table := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ReadCSV(file, table)
}

// ReadCSV reads a ledger table from CSV data with a header row
func ReadCSV(r io.Reader, table string) (*MemorySource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("ledger file %s has no header row", table)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record %d: %w", len(records)+1, err)
		}
		records = append(records, record)
	}

	return NewMemorySource(table, header, records...), nil
}

// WriteCSV writes rows as CSV with a header taken from the first row
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if len(rows) > 0 {
		if err := writer.Write(rows[0].Columns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for _, row := range rows {
		if err := writer.Write(row.Strings()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}
