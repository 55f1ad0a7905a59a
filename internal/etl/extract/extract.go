// Package extract reads raw records from JSON and CSV sources. Extraction
// does no validation: values come out exactly as the file carries them, and
// the transformer deals with everything else. An unreadable or undecodable
// source is an environment failure, fatal to the run.
package extract

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/healthpipe/healthpipe/internal/etl/record"
)

// Format identifies a supported source encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat maps a config value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported source format %q", s)
	}
}

// File reads one source file in the given format, preserving record order.
func File(path string, format Format) ([]record.Raw, error) {
	switch format {
	case FormatJSON:
		return JSONFile(path)
	case FormatCSV:
		return CSVFile(path)
	default:
		return nil, fmt.Errorf("unsupported source format %q", format)
	}
}

// JSONFile reads a JSON array of objects.
func JSONFile(path string) ([]record.Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []record.Raw
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}

// CSVFile reads a CSV file with a header row, mapping each data row onto the
// header's field names. All values are strings; numeric coercion happens in
// the transformer.
func CSVFile(path string) ([]record.Raw, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are the transformer's problem

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]record.Raw, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(record.Raw, len(header))
		for i, name := range header {
			if i < len(row) {
				rec[name] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
