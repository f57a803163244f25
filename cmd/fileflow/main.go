package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"
	commit  = "dev"
	date    = "unknown"
)

// Exit codes form a contract for scripting: 0 clean, 1 fatal setup error,
// 2 batch completed but some files failed.
const (
	exitOK            = 0
	exitFatal         = 1
	exitBatchFailures = 2
)

// batchFailuresError signals a completed run with per-file failures, so main
// can pick the dedicated exit code.
type batchFailuresError struct {
	failed int
	total  int
}

func (e *batchFailuresError) Error() string {
	return fmt.Sprintf("%d of %d files failed", e.failed, e.total)
}

var rootCmd = &cobra.Command{
	Use:   "fileflow",
	Short: "Multi-format batch file processor",
	Long: `fileflow is a batch processing engine for heterogeneous input files.
It dispatches each file to a format-specific processor (JSON, CSV, plain
text), tolerates per-file failures without aborting the batch, and renders
an aggregated report.

Features:
  - JSON, CSV/TSV, and plain-text processors with strict or lenient validation
  - Continue-on-error batch semantics with per-file outcomes in input order
  - Transparent gzip decompression
  - Concurrent processing with a configurable worker pool
  - Summary, JSON, and detailed report formats
  - Staging input directly from an S3 bucket
  - Resumable batches via a state file

Examples:
  fileflow process data.json rows.csv notes.txt -o ./out
  fileflow process -d ./input -r -o ./out --report detailed
  fileflow process-s3 --bucket my-data --region us-east-1 -o ./out
  fileflow inspect data.csv`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fileflow v%s\n", version)
		fmt.Println("Use 'fileflow --help' for available commands")
		fmt.Println("Use 'fileflow process --help' for processing options")
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(processS3Cmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var batchErr *batchFailuresError
		if errors.As(err, &batchErr) {
			os.Exit(exitBatchFailures)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitFatal)
	}
	os.Exit(exitOK)
}
