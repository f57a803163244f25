package fileproc

import (
	"strings"
	"testing"
	"time"
)

func sampleSummary(t *testing.T) *BatchSummary {
	t.Helper()

	summary := NewBatchSummary(3)
	outcomes := []ProcessingOutcome{
		{Path: "a.csv", RecordCount: 3, Duration: 5 * time.Millisecond},
		{Path: "b.json", Duration: 2 * time.Millisecond, Err: NewParseError("b.json", nil)},
		{Path: "c.txt", RecordCount: 1, Warnings: []string{"row 1: padded 1 missing field(s)"}, Duration: time.Millisecond},
	}
	for i, outcome := range outcomes {
		if err := summary.Record(i, outcome); err != nil {
			t.Fatalf("Record() unexpected error = %v", err)
		}
	}
	summary.Duration = 125 * time.Millisecond

	return summary
}

func TestParseReportFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    ReportFormat
		wantErr bool
	}{
		{"summary", ReportSummary, false},
		{"", ReportSummary, false},
		{"JSON", ReportJSON, false},
		{"detailed", ReportDetailed, false},
		{"xml", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseReportFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseReportFormat(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseReportFormat(%q) = %v, %v, want %v", tt.input, got, err, tt.want)
		}
	}
}

func TestReportGenerator_Summary(t *testing.T) {
	rendered, err := NewReportGenerator().Render(sampleSummary(t), ReportSummary)
	if err != nil {
		t.Fatalf("Render() unexpected error = %v", err)
	}

	for _, want := range []string{
		"Files attempted:   3",
		"Succeeded:         2",
		"Failed:            1",
		"66.7%",
		"Total records:     4",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("summary report missing %q:\n%s", want, rendered)
		}
	}
}

// A zero-file batch renders "N/A" rates, never a division by zero.
func TestReportGenerator_EmptyBatch(t *testing.T) {
	summary := NewBatchSummary(0)

	rendered, err := NewReportGenerator().Render(summary, ReportSummary)
	if err != nil {
		t.Fatalf("Render() unexpected error = %v", err)
	}

	if !strings.Contains(rendered, "N/A") {
		t.Errorf("empty batch report should render N/A:\n%s", rendered)
	}
}

func TestReportGenerator_Detailed(t *testing.T) {
	rendered, err := NewReportGenerator().Render(sampleSummary(t), ReportDetailed)
	if err != nil {
		t.Fatalf("Render() unexpected error = %v", err)
	}

	if !strings.Contains(rendered, "Failed files:") {
		t.Fatalf("detailed report missing failure section:\n%s", rendered)
	}
	if !strings.Contains(rendered, "b.json: [PARSE]") {
		t.Errorf("detailed report should name the failed file and kind:\n%s", rendered)
	}
	if strings.Contains(rendered, "a.csv:") {
		t.Errorf("detailed report must not list successful files:\n%s", rendered)
	}
	if !strings.Contains(rendered, "p50=") {
		t.Errorf("detailed report missing duration percentiles:\n%s", rendered)
	}
}

// The JSON report's key names are a compatibility contract; this test pins
// them.
func TestReportGenerator_JSONKeys(t *testing.T) {
	rendered, err := NewReportGenerator().Render(sampleSummary(t), ReportJSON)
	if err != nil {
		t.Fatalf("Render() unexpected error = %v", err)
	}

	var decoded struct {
		TotalFiles   int `json:"total_files"`
		Succeeded    int `json:"succeeded"`
		Failed       int `json:"failed"`
		TotalRecords int `json:"total_records"`
		DurationMs   int64 `json:"duration_ms"`
		Outcomes     []struct {
			Path        string   `json:"path"`
			Status      string   `json:"status"`
			RecordCount int      `json:"record_count"`
			Warnings    []string `json:"warnings"`
			Error       *struct {
				Kind    string `json:"kind"`
				Message string `json:"message"`
			} `json:"error"`
		} `json:"outcomes"`
	}

	if err := json.Unmarshal([]byte(rendered), &decoded); err != nil {
		t.Fatalf("Unmarshal() unexpected error = %v", err)
	}

	if decoded.TotalFiles != 3 || decoded.Succeeded != 2 || decoded.Failed != 1 {
		t.Errorf("decoded counts = %d/%d/%d, want 3/2/1",
			decoded.TotalFiles, decoded.Succeeded, decoded.Failed)
	}
	if decoded.DurationMs != 125 {
		t.Errorf("duration_ms = %d, want 125", decoded.DurationMs)
	}
	if len(decoded.Outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(decoded.Outcomes))
	}

	if decoded.Outcomes[0].Status != "success" || decoded.Outcomes[1].Status != "failure" {
		t.Errorf("statuses = %q/%q, want success/failure",
			decoded.Outcomes[0].Status, decoded.Outcomes[1].Status)
	}
	if decoded.Outcomes[1].Error == nil || decoded.Outcomes[1].Error.Kind != "PARSE" {
		t.Errorf("outcome 1 error = %+v, want PARSE", decoded.Outcomes[1].Error)
	}
	if len(decoded.Outcomes[2].Warnings) != 1 {
		t.Errorf("outcome 2 warnings = %v, want one", decoded.Outcomes[2].Warnings)
	}
}

func TestReportGenerator_UnknownFormat(t *testing.T) {
	_, err := NewReportGenerator().Render(sampleSummary(t), ReportFormat(42))
	if err == nil {
		t.Error("Render() expected error for unknown format")
	}
}
