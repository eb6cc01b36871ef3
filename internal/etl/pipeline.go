// Package etl prepares raw transaction exports for resolution by deriving
// the normalised name, phonetic key and canonical PAN columns.
package etl

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/ledger-resolve/internal/ledger"
	"github.com/ledger-resolve/internal/normalize"
	"github.com/ledger-resolve/internal/phonetics"
)

// Mapping names the raw columns parties are read from. At least one of
// Name and Blob must be set.
type Mapping struct {
	// Name holds one party name per record
	Name string
	// Blob holds free text (e.g. a buyer/seller field) with one or more parties
	Blob string
	// Identifier holds a PAN; when empty, PANs are extracted from Blob
	Identifier string
}

// Stats summarises one pipeline run
type Stats struct {
	Records int
	Rows    int
	Skipped int
}

// Pipeline turns raw records into ledger rows
type Pipeline struct {
	mapping Mapping
	logger  *zap.Logger
}

// NewPipeline creates a new ETL pipeline
func NewPipeline(mapping Mapping, logger *zap.Logger) (*Pipeline, error) {
	if mapping.Name == "" && mapping.Blob == "" {
		return nil, fmt.Errorf("a name or blob column is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{mapping: mapping, logger: logger}, nil
}

// party is one name/PAN pair found in a raw record
type party struct {
	name string
	pan  string
}

// Transform reads raw CSV with a header row and emits one ledger row per
// party found. Raw columns are kept; the derived columns are appended or
// overwritten.
func (p *Pipeline) Transform(r io.Reader, emit func(ledger.Row) error) (Stats, error) {
	var stats Stats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return stats, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columnMap := make(map[string]int)
	for i, col := range header {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{p.mapping.Name, p.mapping.Blob, p.mapping.Identifier} {
		if _, ok := columnMap[strings.ToLower(col)]; col != "" && !ok {
			return stats, fmt.Errorf("column %q not found in header", col)
		}
	}

	columns, derived := outputColumns(header)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			p.logger.Warn("skipping unreadable record", zap.Int("record", stats.Records+1), zap.Error(err))
			stats.Skipped++
			continue
		}
		stats.Records++

		parties := p.parties(record, columnMap)
		if len(parties) == 0 {
			stats.Skipped++
			continue
		}

		for _, pt := range parties {
			values := make([]any, len(columns))
			for i := range header {
				values[i] = getColumnValue(record, i)
			}
			values[derived[ledger.ColumnName]] = pt.name
			values[derived[ledger.ColumnPhonetic]] = phonetics.Key(pt.name)
			values[derived[ledger.ColumnIdentifier]] = pt.pan

			if err := emit(ledger.Row{Columns: columns, Values: values}); err != nil {
				return stats, err
			}
			stats.Rows++
		}

		if stats.Records%10000 == 0 {
			p.logger.Debug("records prepared", zap.Int("records", stats.Records), zap.Int("rows", stats.Rows))
		}
	}

	p.logger.Info("ledger prepared",
		zap.Int("records", stats.Records),
		zap.Int("rows", stats.Rows),
		zap.Int("skipped", stats.Skipped))
	return stats, nil
}

// parties finds the parties in one record. Names and PANs are paired in
// order only when their counts agree; otherwise the PAN stays empty.
func (p *Pipeline) parties(record []string, columnMap map[string]int) []party {
	value := func(col string) string {
		if col == "" {
			return ""
		}
		return getColumnValue(record, columnMap[strings.ToLower(col)])
	}

	var names, codes []string
	if name := normalize.NormalizeName(value(p.mapping.Name)); name != "" {
		names = append(names, name)
	}
	blob := value(p.mapping.Blob)
	if len(names) == 0 && blob != "" {
		names = normalize.ExtractNames(blob)
	}

	if pan := normalize.CanonicalizeIdentifier(value(p.mapping.Identifier)); pan != "" {
		codes = []string{pan}
	} else if blob != "" {
		codes = normalize.ExtractIdentifiers(blob)
	}

	out := make([]party, 0, len(names))
	for i, name := range names {
		pt := party{name: name}
		if len(codes) == len(names) {
			pt.pan = codes[i]
		}
		out = append(out, pt)
	}
	return out
}

// outputColumns appends the derived columns to header unless already
// present and returns where each derived column lives.
func outputColumns(header []string) ([]string, map[string]int) {
	columns := append([]string(nil), header...)
	derived := make(map[string]int)
	for _, col := range []string{ledger.ColumnName, ledger.ColumnPhonetic, ledger.ColumnIdentifier} {
		idx := -1
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), col) {
				idx = i
				break
			}
		}
		if idx < 0 {
			idx = len(columns)
			columns = append(columns, col)
		}
		derived[col] = idx
	}
	return columns, derived
}

func getColumnValue(record []string, idx int) string {
	if idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
