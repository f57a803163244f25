package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fileflow/fileflow/internal/fileproc"
	"github.com/fileflow/fileflow/internal/logging"
)

var (
	s3Bucket     string
	s3Prefix     string
	s3Region     string
	s3StagingDir string
)

var processS3Cmd = &cobra.Command{
	Use:   "process-s3",
	Short: "Process files staged from an S3 bucket",
	Long: `Stage supported files from an S3 bucket into a local directory, then run
the normal batch over them. Objects whose key does not resolve to a supported
format, or that exceed the size limit, are skipped before download.

Examples:
  fileflow process-s3 --bucket my-data --region us-east-1 -o ./out
  fileflow process-s3 --bucket my-data --prefix exports/2026/ --region eu-west-1 -o ./out
  fileflow process-s3 --bucket my-data --region us-east-1 -o ./out --workers 8 --report json`,
	RunE: runProcessS3,
}

func runProcessS3(cmd *cobra.Command, args []string) error {
	cliConfig, err := loadProcessConfig(cmd)
	if err != nil {
		return err
	}

	logger, logF := logging.New(cliConfig.Output, cliConfig.LogFile, cliConfig.LogLevel)
	if logF != nil {
		defer logF.Close()
	}

	jobConfig, err := cliConfig.ToJobConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	stagingDir := s3StagingDir
	if stagingDir == "" {
		stagingDir = filepath.Join(cliConfig.Output, "staging")
	}

	ctx := context.Background()
	client, err := fileproc.NewAWSS3Client(ctx, s3Region)
	if err != nil {
		return err
	}

	source := fileproc.NewS3Source(client, logger)
	paths, err := source.Stage(ctx, fileproc.S3SourceConfig{
		Bucket:        s3Bucket,
		Prefix:        s3Prefix,
		Region:        s3Region,
		StagingDir:    stagingDir,
		MaxObjectSize: jobConfig.MaxFileSize,
		Overrides:     jobConfig.FormatOverrides,
	})
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		return fmt.Errorf("no supported objects found in s3://%s/%s", s3Bucket, s3Prefix)
	}

	return runBatch(paths, cliConfig, logger)
}

func init() {
	processS3Cmd.Flags().StringVar(&s3Bucket, "bucket", "", "S3 bucket name (required)")
	processS3Cmd.Flags().StringVar(&s3Prefix, "prefix", "", "S3 key prefix to list under")
	processS3Cmd.Flags().StringVar(&s3Region, "region", "us-east-1", "AWS region")
	processS3Cmd.Flags().StringVar(&s3StagingDir, "staging-dir", "", "Local staging directory (default: <output>/staging)")

	processS3Cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (required)")
	processS3Cmd.Flags().StringVar(&reportFormat, "report", "summary", "Report format (summary, json, detailed)")
	processS3Cmd.Flags().StringVar(&reportFile, "report-file", "", "Also write the report to this file inside the output directory")
	processS3Cmd.Flags().Int64Var(&maxFileSize, "max-size", 64*1024*1024, "Maximum input file size in bytes")
	processS3Cmd.Flags().BoolVar(&strictValidate, "validate", false, "Enable strict validation")
	processS3Cmd.Flags().BoolVar(&textLineMode, "line-mode", false, "Text files: one record per line instead of per paragraph")
	processS3Cmd.Flags().StringToStringVar(&formatOverrides, "override", nil, "Per-extension format overrides, e.g. dat=csv,conf=text")
	processS3Cmd.Flags().IntVarP(&workerCount, "workers", "w", 1, "Number of worker goroutines")
	processS3Cmd.Flags().BoolVar(&resume, "resume", false, "Skip files already processed in a previous run")
	processS3Cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	processS3Cmd.Flags().StringVar(&logFile, "log-file", "", "Also write logs to this file inside the output directory")
	processS3Cmd.Flags().StringVar(&configFile, "config", "", "Configuration file path (JSON)")

	processS3Cmd.MarkFlagRequired("bucket")
	processS3Cmd.MarkFlagRequired("output")
}
