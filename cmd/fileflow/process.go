package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fileflow/fileflow/internal/fileproc"
	"github.com/fileflow/fileflow/internal/logging"
)

const stateFileName = "fileflow.state.json"

var (
	inputDir        string
	recursive       bool
	outputDir       string
	reportFormat    string
	reportFile      string
	maxFileSize     int64
	strictValidate  bool
	textLineMode    bool
	workerCount     int
	resume          bool
	logLevel        string
	logFile         string
	configFile      string
	formatOverrides map[string]string
)

var processCmd = &cobra.Command{
	Use:   "process [file...]",
	Short: "Process a batch of input files",
	Long: `Process a batch of input files of heterogeneous formats and render an
aggregated report. Each file is dispatched to a format-specific processor by
extension (or an explicit override); one file's failure never stops the rest
of the batch.

Examples:
  # Process individual files
  fileflow process data.json rows.csv notes.txt -o ./out

  # Process a directory of files
  fileflow process -d ./input -o ./out
  fileflow process -d ./input -r -o ./out

  # Strict validation and a detailed report
  fileflow process rows.csv -o ./out --validate --report detailed

  # Treat .dat files as CSV
  fileflow process data.dat -o ./out --override dat=csv

  # Concurrent batch
  fileflow process -d ./input -o ./out --workers 8`,
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	cliConfig, err := loadProcessConfig(cmd)
	if err != nil {
		return err
	}

	logger, logF := logging.New(cliConfig.Output, cliConfig.LogFile, cliConfig.LogLevel)
	if logF != nil {
		defer logF.Close()
	}

	paths, err := collectInputPaths(args, logger)
	if err != nil {
		return err
	}

	return runBatch(paths, cliConfig, logger)
}

// loadProcessConfig layers flag values over env/file configuration and
// validates the result.
func loadProcessConfig(cmd *cobra.Command) (*CLIConfig, error) {
	cliConfig, err := LoadConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("output") {
		cliConfig.Output = outputDir
	}
	if cmd.Flags().Changed("report") {
		cliConfig.Report = reportFormat
	}
	if cmd.Flags().Changed("report-file") {
		cliConfig.ReportFile = reportFile
	}
	if cmd.Flags().Changed("max-size") {
		cliConfig.MaxFileSize = maxFileSize
	}
	if cmd.Flags().Changed("validate") {
		cliConfig.Strict = strictValidate
	}
	if cmd.Flags().Changed("line-mode") {
		cliConfig.TextLineMode = textLineMode
	}
	if cmd.Flags().Changed("workers") {
		cliConfig.Workers = workerCount
	}
	if cmd.Flags().Changed("resume") {
		cliConfig.Resume = resume
	}
	if cmd.Flags().Changed("log-level") {
		cliConfig.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cliConfig.LogFile = logFile
	}
	if cmd.Flags().Changed("override") {
		cliConfig.FormatOverrides = formatOverrides
	}

	if err := cliConfig.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	return cliConfig, nil
}

// collectInputPaths merges explicit file arguments with a scanned directory.
func collectInputPaths(args []string, logger *slog.Logger) ([]string, error) {
	paths := append([]string(nil), args...)

	if inputDir != "" {
		scanned, err := scanDirectoryForInputFiles(inputDir, recursive, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directory: %w", err)
		}
		paths = append(paths, scanned...)
	}

	if len(paths) == 0 && inputDir == "" {
		return nil, fmt.Errorf("provide input files as arguments or use --input-dir")
	}

	return paths, nil
}

// runBatch runs the full pipeline over the given paths: optional resume
// filtering, coordination, report rendering, and state persistence. Shared
// by the process and process-s3 commands.
func runBatch(paths []string, cliConfig *CLIConfig, logger *slog.Logger) error {
	jobConfig, err := cliConfig.ToJobConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	format, err := fileproc.ParseReportFormat(cliConfig.Report)
	if err != nil {
		return err
	}

	var tracker *fileproc.StateTracker
	if cliConfig.Resume {
		tracker = fileproc.NewStateTracker(filepath.Join(cliConfig.Output, stateFileName))
		if err := tracker.Load(); err != nil {
			return fmt.Errorf("failed to load batch state: %w", err)
		}

		var skipped []string
		paths, skipped = tracker.FilterUnprocessed(paths)
		for _, path := range skipped {
			logger.Info("Skipping already-processed file.", "path", path)
		}
	}

	job, err := fileproc.NewProcessingJob(paths, jobConfig)
	if err != nil {
		return err
	}

	engine := fileproc.NewProcessingEngine(logger)
	coordinator := fileproc.NewBatchCoordinator(engine, logger)

	summary, err := coordinator.Run(job)
	if err != nil {
		return err
	}

	if tracker != nil {
		tracker.RecordSummary(summary)
		if err := tracker.Save(); err != nil {
			logger.Warn("Failed to save batch state.", "error", err)
		}
	}

	rendered, err := fileproc.NewReportGenerator().Render(summary, format)
	if err != nil {
		return err
	}

	fmt.Println(rendered)

	if cliConfig.ReportFile != "" {
		reportPath := filepath.Join(cliConfig.Output, cliConfig.ReportFile)
		if err := os.WriteFile(reportPath, []byte(rendered+"\n"), 0644); err != nil {
			return fmt.Errorf("failed to write report file: %w", err)
		}
		logger.Info("Wrote report file.", "path", reportPath)
	}

	if summary.Failed > 0 {
		return &batchFailuresError{failed: summary.Failed, total: summary.TotalFiles}
	}

	return nil
}

func init() {
	processCmd.Flags().StringVarP(&inputDir, "input-dir", "d", "", "Input directory to scan for supported files")
	processCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Scan the input directory recursively")

	processCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (required)")
	processCmd.Flags().StringVar(&reportFormat, "report", "summary", "Report format (summary, json, detailed)")
	processCmd.Flags().StringVar(&reportFile, "report-file", "", "Also write the report to this file inside the output directory")

	processCmd.Flags().Int64Var(&maxFileSize, "max-size", 64*1024*1024, "Maximum input file size in bytes")
	processCmd.Flags().BoolVar(&strictValidate, "validate", false, "Enable strict validation")
	processCmd.Flags().BoolVar(&textLineMode, "line-mode", false, "Text files: one record per line instead of per paragraph")
	processCmd.Flags().StringToStringVar(&formatOverrides, "override", nil, "Per-extension format overrides, e.g. dat=csv,conf=text")

	processCmd.Flags().IntVarP(&workerCount, "workers", "w", 1, "Number of worker goroutines")
	processCmd.Flags().BoolVar(&resume, "resume", false, "Skip files already processed in a previous run")

	processCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	processCmd.Flags().StringVar(&logFile, "log-file", "", "Also write logs to this file inside the output directory")
	processCmd.Flags().StringVar(&configFile, "config", "", "Configuration file path (JSON)")

	processCmd.MarkFlagRequired("output")
}
