package fileproc

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ProcessingEngine resolves a file's format, enforces the size policy, and
// dispatches to the matching format processor. Every failure is captured in
// the returned outcome; ProcessFile never lets an error or panic escape.
type ProcessingEngine struct {
	logger *slog.Logger

	// Filesystem seams, swappable in tests (e.g. to count read calls).
	statFile func(string) (os.FileInfo, error)
	readFile func(string) ([]byte, error)
}

// NewProcessingEngine creates an engine backed by the real filesystem.
func NewProcessingEngine(logger *slog.Logger) *ProcessingEngine {
	if logger == nil {
		logger = slog.Default()
	}

	return &ProcessingEngine{
		logger:   logger,
		statFile: os.Stat,
		readFile: os.ReadFile,
	}
}

// ProcessFile processes a single file of the job and returns its outcome.
func (pe *ProcessingEngine) ProcessFile(path string, job *ProcessingJob) (outcome ProcessingOutcome) {
	start := time.Now()
	outcome = ProcessingOutcome{Path: path}

	defer func() {
		if r := recover(); r != nil {
			pe.logger.Error("Recovered from panic while processing file.", "path", path, "panic", r)
			outcome.Err = &ProcessingError{
				Kind:    ErrorKindParse,
				Path:    path,
				Message: fmt.Sprintf("processing panicked: %v", r),
			}
		}
		outcome.Duration = time.Since(start)
	}()

	records, err := pe.processFile(path, job)
	if err != nil {
		outcome.Err = AsProcessingError(err, path)
		return outcome
	}

	outcome.RecordCount = len(records)
	for _, record := range records {
		outcome.Warnings = append(outcome.Warnings, record.Warnings...)
	}
	return outcome
}

// processFile runs the stat / size gate / resolve / read / dispatch sequence.
func (pe *ProcessingEngine) processFile(path string, job *ProcessingJob) ([]FileRecord, error) {
	info, err := pe.statFile(path)
	if err != nil {
		return nil, NewIoError(path, err)
	}
	if info.IsDir() {
		return nil, NewIoError(path, fmt.Errorf("path is a directory, not a file"))
	}

	// The size gate runs before any read so an oversize file never costs
	// memory. For gzip inputs the gate applies to the on-disk size.
	if info.Size() > job.Config.MaxFileSize {
		return nil, NewFileTooLargeError(path, info.Size(), job.Config.MaxFileSize)
	}

	kind, err := ResolveFormat(path, job.Config.FormatOverrides)
	if err != nil {
		return nil, err
	}

	raw, err := pe.readFile(path)
	if err != nil {
		return nil, NewIoError(path, err)
	}

	if isGzipPath(path) {
		raw, err = gunzip(raw, path)
		if err != nil {
			return nil, err
		}
	}

	return ProcessorFor(kind).Process(raw, path, job.Config.Policy())
}

// ResolveFormat determines the format for a path: the explicit override
// table wins, then the file extension. A trailing .gz is transparent. An
// extension no processor matches, with no override, is an error.
func ResolveFormat(path string, overrides map[string]FormatKind) (FormatKind, error) {
	name := strings.TrimSuffix(strings.ToLower(filepath.Base(path)), ".gz")
	ext := normalizeExtension(filepath.Ext(name))

	if kind, ok := overrides[ext]; ok {
		return kind, nil
	}

	switch ext {
	case "json":
		return FormatJSON, nil
	case "csv", "tsv":
		return FormatCSV, nil
	case "txt", "text", "log", "md":
		return FormatText, nil
	default:
		return 0, NewUnsupportedFormatError(path, ext)
	}
}

// isGzipPath reports whether the path names a gzip-compressed file.
func isGzipPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// gunzip decompresses a gzip body. A corrupt stream is a parse failure, not
// an I/O failure: the file was read fine, its content is malformed.
func gunzip(raw []byte, path string) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, NewParseError(path, fmt.Errorf("invalid gzip stream: %w", err))
	}
	defer reader.Close()

	decompressed, err := io.ReadAll(reader)
	if err != nil {
		return nil, NewParseError(path, fmt.Errorf("truncated gzip stream: %w", err))
	}

	return decompressed, nil
}
