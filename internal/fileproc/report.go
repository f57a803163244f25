package fileproc

import (
	"fmt"
	"strings"
)

// ReportFormat selects one of the report renderings.
type ReportFormat int

const (
	ReportSummary ReportFormat = iota
	ReportJSON
	ReportDetailed
)

// ParseReportFormat parses a report format name from flags or config.
func ParseReportFormat(s string) (ReportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "summary", "":
		return ReportSummary, nil
	case "json":
		return ReportJSON, nil
	case "detailed":
		return ReportDetailed, nil
	default:
		return 0, fmt.Errorf("unknown report format %q (must be one of: summary, json, detailed)", s)
	}
}

// ReportGenerator renders a finished BatchSummary. Rendering is pure;
// writing the result anywhere is the caller's job.
type ReportGenerator struct{}

// NewReportGenerator creates a report generator.
func NewReportGenerator() *ReportGenerator {
	return &ReportGenerator{}
}

// Render produces the report in the requested format.
func (rg *ReportGenerator) Render(summary *BatchSummary, format ReportFormat) (string, error) {
	switch format {
	case ReportSummary:
		return rg.renderSummary(summary), nil
	case ReportJSON:
		return rg.renderJSON(summary)
	case ReportDetailed:
		return rg.renderDetailed(summary), nil
	default:
		return "", fmt.Errorf("unknown report format: %d", format)
	}
}

// renderSummary produces the fixed-width human-readable block.
func (rg *ReportGenerator) renderSummary(summary *BatchSummary) string {
	successRate := "N/A"
	if rate := summary.SuccessRate(); rate >= 0 {
		successRate = fmt.Sprintf("%.1f%%", rate)
	}

	throughput := "N/A"
	if summary.Duration > 0 {
		throughput = fmt.Sprintf("%.1f records/s", summary.Throughput())
	}

	var b strings.Builder
	b.WriteString("Batch Processing Report\n")
	b.WriteString("=======================\n")
	fmt.Fprintf(&b, "%-18s %d\n", "Files attempted:", summary.TotalFiles)
	fmt.Fprintf(&b, "%-18s %d\n", "Succeeded:", summary.Succeeded)
	fmt.Fprintf(&b, "%-18s %d\n", "Failed:", summary.Failed)
	fmt.Fprintf(&b, "%-18s %s\n", "Success rate:", successRate)
	fmt.Fprintf(&b, "%-18s %d\n", "Total records:", summary.TotalRecords)
	fmt.Fprintf(&b, "%-18s %v\n", "Duration:", summary.Duration)
	fmt.Fprintf(&b, "%-18s %s\n", "Throughput:", throughput)

	return b.String()
}

// renderDetailed extends the summary block with one line per failed file and
// the per-file duration percentiles. Successful files are not listed, so the
// output stays proportional to the failure count.
func (rg *ReportGenerator) renderDetailed(summary *BatchSummary) string {
	var b strings.Builder
	b.WriteString(rg.renderSummary(summary))

	if summary.FileDurations != nil && summary.FileDurations.TotalCount() > 0 {
		fmt.Fprintf(&b, "%-18s p50=%dms p95=%dms max=%dms\n", "File durations:",
			summary.FileDurations.ValueAtQuantile(50),
			summary.FileDurations.ValueAtQuantile(95),
			summary.FileDurations.Max())
	}

	if summary.Failed > 0 {
		b.WriteString("\nFailed files:\n")
		for _, outcome := range summary.Outcomes {
			if outcome.Success() {
				continue
			}
			fmt.Fprintf(&b, "  %s: [%s] %s\n", outcome.Path, outcome.Err.Kind, outcome.Err.Message)
		}
	}

	return b.String()
}

// The JSON report's field names are a compatibility contract for downstream
// consumers; renaming one is a breaking change.
type jsonReport struct {
	TotalFiles           int                    `json:"total_files"`
	Succeeded            int                    `json:"succeeded"`
	Failed               int                    `json:"failed"`
	TotalRecords         int                    `json:"total_records"`
	DurationMs           int64                  `json:"duration_ms"`
	DurationPercentiles  *jsonPercentiles       `json:"duration_percentiles_ms,omitempty"`
	Outcomes             []jsonOutcome          `json:"outcomes"`
}

type jsonPercentiles struct {
	P50 int64 `json:"p50"`
	P95 int64 `json:"p95"`
	Max int64 `json:"max"`
}

type jsonOutcome struct {
	Path        string     `json:"path"`
	Status      string     `json:"status"`
	RecordCount int        `json:"record_count"`
	Warnings    []string   `json:"warnings,omitempty"`
	Error       *jsonError `json:"error,omitempty"`
}

type jsonError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// renderJSON serializes the full summary one-to-one.
func (rg *ReportGenerator) renderJSON(summary *BatchSummary) (string, error) {
	report := jsonReport{
		TotalFiles:   summary.TotalFiles,
		Succeeded:    summary.Succeeded,
		Failed:       summary.Failed,
		TotalRecords: summary.TotalRecords,
		DurationMs:   summary.Duration.Milliseconds(),
		Outcomes:     make([]jsonOutcome, 0, len(summary.Outcomes)),
	}

	if summary.FileDurations != nil && summary.FileDurations.TotalCount() > 0 {
		report.DurationPercentiles = &jsonPercentiles{
			P50: summary.FileDurations.ValueAtQuantile(50),
			P95: summary.FileDurations.ValueAtQuantile(95),
			Max: summary.FileDurations.Max(),
		}
	}

	for _, outcome := range summary.Outcomes {
		jo := jsonOutcome{
			Path:        outcome.Path,
			Status:      "success",
			RecordCount: outcome.RecordCount,
			Warnings:    outcome.Warnings,
		}
		if !outcome.Success() {
			jo.Status = "failure"
			jo.Error = &jsonError{
				Kind:    outcome.Err.Kind.String(),
				Message: outcome.Err.Message,
			}
		}
		report.Outcomes = append(report.Outcomes, jo)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to serialize report: %w", err)
	}

	return string(data), nil
}
