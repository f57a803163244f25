package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fileflow/fileflow/internal/fileproc"
)

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error = %v", err)
	}

	if config.Report != "summary" {
		t.Errorf("Report = %q, want %q", config.Report, "summary")
	}
	if config.MaxFileSize != 64*1024*1024 {
		t.Errorf("MaxFileSize = %d, want 64MiB", config.MaxFileSize)
	}
	if config.Workers != 1 {
		t.Errorf("Workers = %d, want 1", config.Workers)
	}
	if config.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", config.LogLevel, "info")
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"output": "/data/out",
		"report": "json",
		"max_file_size": 1048576,
		"strict": true,
		"workers": 4,
		"format_overrides": {"dat": "csv"}
	}`
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(configFile)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error = %v", err)
	}

	if config.Output != "/data/out" {
		t.Errorf("Output = %q, want %q", config.Output, "/data/out")
	}
	if config.Report != "json" {
		t.Errorf("Report = %q, want %q", config.Report, "json")
	}
	if config.MaxFileSize != 1048576 {
		t.Errorf("MaxFileSize = %d, want 1048576", config.MaxFileSize)
	}
	if !config.Strict {
		t.Error("Strict = false, want true")
	}
	if config.Workers != 4 {
		t.Errorf("Workers = %d, want 4", config.Workers)
	}
	if config.FormatOverrides["dat"] != "csv" {
		t.Errorf("FormatOverrides = %v, want dat->csv", config.FormatOverrides)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("LoadConfig() expected error for missing config file")
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(configFile, []byte(`{"report": "summary", "workers": 2}`), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FILEFLOW_REPORT", "detailed")
	t.Setenv("FILEFLOW_WORKERS", "8")
	t.Setenv("FILEFLOW_STRICT", "TRUE")

	config, err := LoadConfig(configFile)
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error = %v", err)
	}

	if config.Report != "detailed" {
		t.Errorf("Report = %q, want env value %q", config.Report, "detailed")
	}
	if config.Workers != 8 {
		t.Errorf("Workers = %d, want env value 8", config.Workers)
	}
	if !config.Strict {
		t.Error("Strict = false, want true from env")
	}
}

func TestCLIConfig_Validate(t *testing.T) {
	valid := func() CLIConfig {
		return CLIConfig{Output: "/data/out", Report: "summary", MaxFileSize: 1024, Workers: 1}
	}

	tests := []struct {
		name   string
		mutate func(*CLIConfig)
		errMsg string
	}{
		{"valid", func(c *CLIConfig) {}, ""},
		{"missing output", func(c *CLIConfig) { c.Output = " " }, "output directory"},
		{"bad report format", func(c *CLIConfig) { c.Report = "xml" }, "report format"},
		{"zero max size", func(c *CLIConfig) { c.MaxFileSize = 0 }, "max file size"},
		{"zero workers", func(c *CLIConfig) { c.Workers = 0 }, "worker count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(&config)

			err := config.Validate()
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Validate() error = %v, want to contain %q", err, tt.errMsg)
			}
		})
	}
}

func TestCLIConfig_ToJobConfig(t *testing.T) {
	config := CLIConfig{
		Output:          "/data/out",
		Report:          "summary",
		MaxFileSize:     2048,
		Strict:          true,
		TextLineMode:    true,
		Workers:         3,
		FormatOverrides: map[string]string{"dat": "csv", "payload": "json"},
	}

	jobConfig, err := config.ToJobConfig()
	if err != nil {
		t.Fatalf("ToJobConfig() unexpected error = %v", err)
	}

	if jobConfig.MaxFileSize != 2048 || !jobConfig.StrictValidation || !jobConfig.TextLineMode || jobConfig.Workers != 3 {
		t.Errorf("ToJobConfig() = %+v, want fields carried over", jobConfig)
	}
	if jobConfig.FormatOverrides["dat"] != fileproc.FormatCSV {
		t.Errorf("override dat = %v, want csv", jobConfig.FormatOverrides["dat"])
	}
	if jobConfig.FormatOverrides["payload"] != fileproc.FormatJSON {
		t.Errorf("override payload = %v, want json", jobConfig.FormatOverrides["payload"])
	}
}

func TestCLIConfig_ToJobConfigBadOverride(t *testing.T) {
	config := CLIConfig{
		Output:          "/data/out",
		FormatOverrides: map[string]string{"dat": "parquet"},
	}

	_, err := config.ToJobConfig()
	if err == nil {
		t.Fatal("ToJobConfig() expected error for unknown format name")
	}
	if !strings.Contains(err.Error(), "parquet") {
		t.Errorf("ToJobConfig() error = %v, want to name the bad format", err)
	}
}
