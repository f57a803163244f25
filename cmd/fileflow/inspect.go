package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fileflow/fileflow/internal/fileproc"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file...>",
	Short: "Display information about input files without a batch run",
	Long: `Resolve each file's format and process it in isolation, printing the
record count, warnings, and any failure. No report or output directory is
involved.

Examples:
  fileflow inspect data.json
  fileflow inspect rows.csv notes.txt archive.json.gz`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	// Quiet logger: inspect output belongs to the user, not the log stream.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	engine := fileproc.NewProcessingEngine(logger)

	job, err := fileproc.NewProcessingJob(args, fileproc.JobConfig{
		OutputDir: ".", // unused by the engine, required by config validation
	})
	if err != nil {
		return err
	}

	fmt.Printf("File Information\n")
	fmt.Printf("================\n\n")

	failures := 0
	for i, path := range job.Paths {
		fmt.Printf("File %d/%d: %s\n", i+1, len(job.Paths), path)

		if info, err := os.Stat(path); err == nil {
			fmt.Printf("  Size:    %s\n", formatBytes(info.Size()))
		}

		if kind, err := fileproc.ResolveFormat(path, nil); err == nil {
			fmt.Printf("  Format:  %s\n", kind)
		}

		outcome := engine.ProcessFile(path, job)
		if outcome.Success() {
			fmt.Printf("  Records: %d\n", outcome.RecordCount)
			if len(outcome.Warnings) > 0 {
				fmt.Printf("  Warnings: %d\n", len(outcome.Warnings))
				for _, warning := range outcome.Warnings {
					fmt.Printf("    - %s\n", warning)
				}
			}
		} else {
			failures++
			fmt.Printf("  Error:   [%s] %s\n", outcome.Err.Kind, outcome.Err.Message)
		}
		fmt.Println()
	}

	if failures > 0 {
		return &batchFailuresError{failed: failures, total: len(job.Paths)}
	}

	return nil
}
