package fileproc

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVProcessor extracts one record per data row. The first non-blank row is
// the header; every data row is keyed by the header's field names.
type CSVProcessor struct{}

// Kind returns FormatCSV.
func (cp *CSVProcessor) Kind() FormatKind {
	return FormatCSV
}

// Process parses CSV (or TSV, chosen by the file extension) content. Under
// strict validation a row whose field count differs from the header fails
// the whole file with a ValidationError naming the offending row; under
// lenient validation short rows are padded with empty strings, long rows are
// truncated, and the repair is attached to the record as a warning.
func (cp *CSVProcessor) Process(raw []byte, path string, policy ValidationPolicy) ([]FileRecord, error) {
	if perr := checkRawInput(raw, path); perr != nil {
		return nil, perr
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1 // field-count policy is ours, not the parser's
	reader.LazyQuotes = false
	if isTabSeparated(path) {
		reader.Comma = '\t'
	}

	header, headerEnd, err := cp.readHeader(reader, path)
	if err != nil {
		return nil, err
	}

	var records []FileRecord
	rowNum := 0
	offset := headerEnd
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, NewParseError(path, err)
		}

		rowNum++
		rowEnd := reader.InputOffset()

		record := FileRecord{
			Path:   path,
			Index:  rowNum - 1,
			Format: FormatCSV,
			Offset: offset,
			Length: rowEnd - offset,
		}
		offset = rowEnd

		if len(row) != len(header) {
			if policy.Strict {
				return nil, NewValidationError(path, fmt.Sprintf(
					"row %d has %d fields, expected %d", rowNum, len(row), len(header)))
			}
			row, record.Warnings = cp.repairRow(row, len(header), rowNum)
		}

		record.Fields = make(map[string]any, len(header))
		for i, name := range header {
			record.Fields[name] = row[i]
		}

		records = append(records, record)
	}

	return records, nil
}

// readHeader reads the first non-blank row and returns it together with the
// byte offset where data rows begin. A file with no header row at all is
// structurally unusable.
func (cp *CSVProcessor) readHeader(reader *csv.Reader, path string) ([]string, int64, error) {
	for {
		row, err := reader.Read()
		if err == io.EOF {
			return nil, 0, NewValidationError(path, "missing header row")
		}
		if err != nil {
			return nil, 0, NewParseError(path, err)
		}

		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		header := make([]string, len(row))
		for i, name := range row {
			header[i] = strings.TrimSpace(name)
		}
		return header, reader.InputOffset(), nil
	}
}

// repairRow pads a short row with empty strings or truncates a long one,
// returning the repaired row and the warning describing what changed.
func (cp *CSVProcessor) repairRow(row []string, want, rowNum int) ([]string, []string) {
	var warning string
	if len(row) < want {
		warning = fmt.Sprintf("row %d: padded %d missing field(s)", rowNum, want-len(row))
		for len(row) < want {
			row = append(row, "")
		}
	} else {
		warning = fmt.Sprintf("row %d: truncated %d extra field(s)", rowNum, len(row)-want)
		row = row[:want]
	}
	return row, []string{warning}
}

// isTabSeparated reports whether the path names a TSV file, looking through
// a trailing .gz suffix.
func isTabSeparated(path string) bool {
	lower := strings.TrimSuffix(strings.ToLower(path), ".gz")
	return strings.HasSuffix(lower, ".tsv")
}
