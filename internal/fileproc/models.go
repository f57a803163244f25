package fileproc

import (
	"fmt"
	"strings"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// FormatKind identifies one of the supported input formats.
type FormatKind int

const (
	FormatJSON FormatKind = iota
	FormatCSV
	FormatText
)

// String returns the string representation of FormatKind.
func (fk FormatKind) String() string {
	switch fk {
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseFormatKind parses a format name as used in override tables and flags.
func ParseFormatKind(s string) (FormatKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv", "tsv":
		return FormatCSV, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return 0, fmt.Errorf("unknown format %q (must be one of: json, csv, text)", s)
	}
}

// ValidationPolicy controls how processors treat imperfect input.
type ValidationPolicy struct {
	// Strict rejects recoverable structural problems (e.g. CSV field-count
	// mismatches) instead of repairing them with a warning.
	Strict bool
	// TextLineMode makes the text processor emit one record per non-blank
	// line instead of one record per paragraph.
	TextLineMode bool
}

// JobConfig holds the configuration snapshot for one batch run.
type JobConfig struct {
	MaxFileSize      int64
	StrictValidation bool
	TextLineMode     bool
	OutputDir        string
	FormatOverrides  map[string]FormatKind
	Workers          int
}

// Validate validates the configuration parameters.
func (c *JobConfig) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be greater than 0")
	}

	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output directory is required")
	}

	if c.Workers < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}

	for ext := range c.FormatOverrides {
		if strings.TrimSpace(ext) == "" {
			return fmt.Errorf("format override has an empty extension")
		}
	}

	return nil
}

// SetDefaults sets default values for configuration parameters.
func (c *JobConfig) SetDefaults() {
	if c.MaxFileSize == 0 {
		c.MaxFileSize = 64 * 1024 * 1024 // 64 MiB
	}

	if c.Workers == 0 {
		c.Workers = 1
	}
}

// Policy derives the validation policy handed to format processors.
func (c *JobConfig) Policy() ValidationPolicy {
	return ValidationPolicy{
		Strict:       c.StrictValidation,
		TextLineMode: c.TextLineMode,
	}
}

// ProcessingJob is an immutable description of one batch: the ordered input
// paths and the configuration snapshot. Construct it once at startup and
// never mutate it.
type ProcessingJob struct {
	Paths  []string
	Config JobConfig
}

// NewProcessingJob builds a job with defensive copies of the path list and
// the override table, so callers cannot mutate it after construction.
func NewProcessingJob(paths []string, config JobConfig) (*ProcessingJob, error) {
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job configuration: %w", err)
	}

	job := &ProcessingJob{
		Paths:  make([]string, len(paths)),
		Config: config,
	}
	copy(job.Paths, paths)

	if config.FormatOverrides != nil {
		job.Config.FormatOverrides = make(map[string]FormatKind, len(config.FormatOverrides))
		for ext, kind := range config.FormatOverrides {
			job.Config.FormatOverrides[normalizeExtension(ext)] = kind
		}
	}

	return job, nil
}

// normalizeExtension lowercases an extension and strips a leading dot, so
// "JSON", ".json" and "json" all key the same override.
func normalizeExtension(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// FileRecord is one structured unit extracted from a file: a CSV row, a JSON
// top-level value or array element, or a text line/paragraph. The byte
// offset and length locate the record in the decoded content for
// diagnostics.
type FileRecord struct {
	Path     string
	Index    int
	Format   FormatKind
	Fields   map[string]any
	Text     string
	Offset   int64
	Length   int64
	Warnings []string
}

// ProcessingOutcome is the per-file result: exactly one per input path,
// either a success with a record count or a failure with a categorized
// error.
type ProcessingOutcome struct {
	Path        string
	RecordCount int
	Warnings    []string
	Duration    time.Duration
	Err         *ProcessingError
}

// Success reports whether the file processed without error.
func (po *ProcessingOutcome) Success() bool {
	return po.Err == nil
}

// String returns a one-line representation for logging.
func (po *ProcessingOutcome) String() string {
	if po.Err != nil {
		return fmt.Sprintf("%s: FAILED %v", po.Path, po.Err)
	}
	if len(po.Warnings) > 0 {
		return fmt.Sprintf("%s: OK (%d records, %d warnings)", po.Path, po.RecordCount, len(po.Warnings))
	}
	return fmt.Sprintf("%s: OK (%d records)", po.Path, po.RecordCount)
}

// BatchSummary aggregates one batch run. Outcomes are ordered identically to
// the job's input paths; succeeded+failed always equals len(Outcomes). The
// summary is built incrementally by the coordinator and read-only once the
// duration is stamped.
type BatchSummary struct {
	TotalFiles    int
	Succeeded     int
	Failed        int
	TotalRecords  int
	Outcomes      []ProcessingOutcome
	Duration      time.Duration
	FileDurations *hdrhistogram.Histogram
}

// NewBatchSummary creates a summary pre-sized for the given file count.
func NewBatchSummary(totalFiles int) *BatchSummary {
	return &BatchSummary{
		TotalFiles: totalFiles,
		Outcomes:   make([]ProcessingOutcome, totalFiles),
		// Per-file durations from 1ms to 1h, three significant digits.
		FileDurations: hdrhistogram.New(1, int64(time.Hour/time.Millisecond), 3),
	}
}

// Record stores the outcome for one file index and updates the aggregate
// counters. Each index must be written exactly once; callers running
// concurrently must serialize access.
func (bs *BatchSummary) Record(index int, outcome ProcessingOutcome) error {
	if index < 0 || index >= len(bs.Outcomes) {
		return fmt.Errorf("outcome index %d out of range [0,%d)", index, len(bs.Outcomes))
	}

	bs.Outcomes[index] = outcome
	if outcome.Success() {
		bs.Succeeded++
		bs.TotalRecords += outcome.RecordCount
	} else {
		bs.Failed++
	}

	ms := outcome.Duration.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	// RecordValue only fails for values outside the histogram range; an
	// hour-long file is clamped rather than dropped.
	if err := bs.FileDurations.RecordValue(ms); err != nil {
		_ = bs.FileDurations.RecordValue(bs.FileDurations.HighestTrackableValue())
	}

	return nil
}

// SuccessRate returns the success percentage, or -1 for an empty batch so
// renderers can distinguish "no files" from "all failed".
func (bs *BatchSummary) SuccessRate() float64 {
	if bs.TotalFiles == 0 {
		return -1
	}
	return float64(bs.Succeeded) / float64(bs.TotalFiles) * 100.0
}

// Throughput returns records per second, guarded against zero duration.
func (bs *BatchSummary) Throughput() float64 {
	secs := bs.Duration.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(bs.TotalRecords) / secs
}

// String returns a compact representation for logging.
func (bs *BatchSummary) String() string {
	return fmt.Sprintf("Files: %d, Succeeded: %d, Failed: %d, Records: %d, Duration: %v",
		bs.TotalFiles, bs.Succeeded, bs.Failed, bs.TotalRecords, bs.Duration)
}
