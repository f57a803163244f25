package fileproc

import (
	"unicode/utf8"
)

// FormatProcessor validates and extracts structured records from one file's
// raw content. Implementations are pure: no I/O, no shared state, so they
// can be unit tested by feeding byte strings directly.
type FormatProcessor interface {
	// Process transforms raw bytes into records, or returns a
	// *ProcessingError describing why the file cannot be processed.
	Process(raw []byte, path string, policy ValidationPolicy) ([]FileRecord, error)

	// Kind returns the format this processor handles.
	Kind() FormatKind
}

// ProcessorFor returns the processor for a resolved format. The format set
// is closed; this is the single dispatch point.
func ProcessorFor(kind FormatKind) FormatProcessor {
	switch kind {
	case FormatJSON:
		return &JSONProcessor{}
	case FormatCSV:
		return &CSVProcessor{}
	default:
		return &TextProcessor{}
	}
}

// checkRawInput enforces the constraints shared by every format: non-empty
// content in valid UTF-8.
func checkRawInput(raw []byte, path string) *ProcessingError {
	if len(raw) == 0 {
		return NewEmptyFileError(path)
	}
	if !utf8.Valid(raw) {
		return NewEncodingError(path)
	}
	return nil
}
