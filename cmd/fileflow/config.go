package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fileflow/fileflow/internal/fileproc"
)

// CLIConfig represents the resolved CLI configuration. Precedence is flags
// over environment variables over the config file over defaults.
type CLIConfig struct {
	Output          string            `json:"output"`
	Report          string            `json:"report"`
	ReportFile      string            `json:"report_file,omitempty"`
	MaxFileSize     int64             `json:"max_file_size"`
	Strict          bool              `json:"strict"`
	TextLineMode    bool              `json:"text_line_mode"`
	Workers         int               `json:"workers"`
	Resume          bool              `json:"resume"`
	LogLevel        string            `json:"log_level"`
	LogFile         string            `json:"log_file,omitempty"`
	FormatOverrides map[string]string `json:"format_overrides,omitempty"`
}

// LoadConfig loads configuration from an optional JSON file and environment
// variables.
func LoadConfig(configFile string) (*CLIConfig, error) {
	config := &CLIConfig{
		Report:      "summary",
		MaxFileSize: 64 * 1024 * 1024,
		Workers:     1,
		LogLevel:    "info",
	}

	if configFile != "" {
		if err := loadConfigFile(config, configFile); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	loadConfigFromEnv(config)

	return config, nil
}

// loadConfigFile loads configuration from a JSON file.
func loadConfigFile(config *CLIConfig, filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, config)
}

// loadConfigFromEnv loads configuration from FILEFLOW_* environment variables.
func loadConfigFromEnv(config *CLIConfig) {
	if val := os.Getenv("FILEFLOW_OUTPUT"); val != "" {
		config.Output = val
	}

	if val := os.Getenv("FILEFLOW_REPORT"); val != "" {
		config.Report = val
	}

	if val := os.Getenv("FILEFLOW_MAX_FILE_SIZE"); val != "" {
		if size, err := strconv.ParseInt(val, 10, 64); err == nil {
			config.MaxFileSize = size
		}
	}

	if val := os.Getenv("FILEFLOW_STRICT"); val != "" {
		config.Strict = strings.ToLower(val) == "true"
	}

	if val := os.Getenv("FILEFLOW_TEXT_LINE_MODE"); val != "" {
		config.TextLineMode = strings.ToLower(val) == "true"
	}

	if val := os.Getenv("FILEFLOW_WORKERS"); val != "" {
		if workers, err := strconv.Atoi(val); err == nil {
			config.Workers = workers
		}
	}

	if val := os.Getenv("FILEFLOW_RESUME"); val != "" {
		config.Resume = strings.ToLower(val) == "true"
	}

	if val := os.Getenv("FILEFLOW_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	if val := os.Getenv("FILEFLOW_LOG_FILE"); val != "" {
		config.LogFile = val
	}
}

// Validate validates the CLI configuration.
func (c *CLIConfig) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output directory is required")
	}

	if _, err := fileproc.ParseReportFormat(c.Report); err != nil {
		return err
	}

	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be greater than 0")
	}

	if c.Workers < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}

	return nil
}

// ToJobConfig converts the CLI configuration into the immutable job
// configuration handed to the coordinator.
func (c *CLIConfig) ToJobConfig() (fileproc.JobConfig, error) {
	overrides, err := parseOverrides(c.FormatOverrides)
	if err != nil {
		return fileproc.JobConfig{}, err
	}

	config := fileproc.JobConfig{
		MaxFileSize:      c.MaxFileSize,
		StrictValidation: c.Strict,
		TextLineMode:     c.TextLineMode,
		OutputDir:        c.Output,
		FormatOverrides:  overrides,
		Workers:          c.Workers,
	}
	config.SetDefaults()

	return config, nil
}

// parseOverrides converts "ext -> format name" pairs into the typed table.
func parseOverrides(raw map[string]string) (map[string]fileproc.FormatKind, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	overrides := make(map[string]fileproc.FormatKind, len(raw))
	for ext, name := range raw {
		kind, err := fileproc.ParseFormatKind(name)
		if err != nil {
			return nil, fmt.Errorf("invalid format override for %q: %w", ext, err)
		}
		overrides[ext] = kind
	}

	return overrides, nil
}
