package fileproc

import (
	"bytes"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONProcessor extracts records from a JSON document. A top-level array
// yields one record per element; any other top-level value yields a single
// record.
type JSONProcessor struct{}

// Kind returns FormatJSON.
func (jp *JSONProcessor) Kind() FormatKind {
	return FormatJSON
}

// Process parses the byte stream as a single JSON value or a top-level
// array. Malformed JSON becomes a ParseError with the parser's
// position-annotated message preserved as the cause.
func (jp *JSONProcessor) Process(raw []byte, path string, policy ValidationPolicy) ([]FileRecord, error) {
	if perr := checkRawInput(raw, path); perr != nil {
		return nil, perr
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, NewEmptyFileError(path)
	}

	if trimmed[0] == '[' {
		return jp.processArray(trimmed, path)
	}
	return jp.processSingle(trimmed, path)
}

// processArray splits a top-level array into one record per element. Keeping
// the elements as raw messages first preserves each element's byte length
// for diagnostics.
func (jp *JSONProcessor) processArray(raw []byte, path string) ([]FileRecord, error) {
	var elements []jsoniter.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, NewParseError(path, err)
	}

	records := make([]FileRecord, 0, len(elements))
	for i, element := range elements {
		record, err := jp.recordFromValue(element, path, i)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// processSingle treats the whole document as one record.
func (jp *JSONProcessor) processSingle(raw []byte, path string) ([]FileRecord, error) {
	record, err := jp.recordFromValue(raw, path, 0)
	if err != nil {
		return nil, err
	}
	record.Length = int64(len(raw))
	return []FileRecord{record}, nil
}

// recordFromValue decodes one JSON value into a FileRecord. Objects become
// field maps; scalars and nested arrays are kept as their decoded value
// under a single "value" field.
func (jp *JSONProcessor) recordFromValue(raw jsoniter.RawMessage, path string, index int) (FileRecord, error) {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return FileRecord{}, NewParseError(path, err)
	}

	record := FileRecord{
		Path:   path,
		Index:  index,
		Format: FormatJSON,
		Length: int64(len(raw)),
	}

	if fields, ok := value.(map[string]any); ok {
		record.Fields = fields
	} else {
		record.Fields = map[string]any{"value": value}
	}

	return record, nil
}
