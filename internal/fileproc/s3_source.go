package fileproc

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// S3SourceConfig describes where staged input files come from.
type S3SourceConfig struct {
	Bucket     string
	Prefix     string
	Region     string
	StagingDir string
	// MaxObjectSize filters oversize objects out before download; they
	// would fail the engine's size gate anyway, so skipping the transfer
	// saves bandwidth. Zero disables the filter.
	MaxObjectSize int64
	// Overrides mirror the job's format override table so the listing
	// filter agrees with what the engine will accept.
	Overrides map[string]FormatKind
}

// Validate validates the source configuration.
func (c *S3SourceConfig) Validate() error {
	if strings.TrimSpace(c.Bucket) == "" {
		return fmt.Errorf("bucket is required")
	}
	if strings.TrimSpace(c.Region) == "" {
		return fmt.Errorf("region is required")
	}
	if strings.TrimSpace(c.StagingDir) == "" {
		return fmt.Errorf("staging directory is required")
	}
	return nil
}

// S3Source lists a bucket prefix, filters to objects the engine can process,
// and downloads them into a local staging directory. The staged paths then
// feed an ordinary batch run.
type S3Source struct {
	client S3Client
	logger *slog.Logger
}

// NewS3Source creates a source over the given client.
func NewS3Source(client S3Client, logger *slog.Logger) *S3Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Source{client: client, logger: logger}
}

// Stage lists, filters, and downloads matching objects. It returns the local
// paths in the bucket's listing order. Any listing or download failure is a
// setup failure: the batch has not started yet, and a partial staging dir
// would silently shrink the job.
func (s *S3Source) Stage(ctx context.Context, cfg S3SourceConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, NewSetupError("invalid S3 source configuration", err)
	}

	objects, err := s.client.ListObjects(ctx, cfg.Bucket, cfg.Prefix)
	if err != nil {
		return nil, NewSetupError(fmt.Sprintf("could not list s3://%s/%s", cfg.Bucket, cfg.Prefix), err)
	}

	candidates := s.filterObjects(objects, cfg)
	s.logger.Info("Discovered S3 objects.", "bucket", cfg.Bucket, "prefix", cfg.Prefix,
		"listed", len(objects), "matching", len(candidates))

	paths := make([]string, 0, len(candidates))
	for _, obj := range candidates {
		localPath := filepath.Join(cfg.StagingDir, filepath.FromSlash(obj.Key))
		if err := s.client.DownloadObject(ctx, cfg.Bucket, obj.Key, localPath); err != nil {
			return nil, NewSetupError(fmt.Sprintf("could not download s3://%s/%s", cfg.Bucket, obj.Key), err)
		}
		s.logger.Debug("Staged object.", "key", obj.Key, "path", localPath, "size", obj.Size)
		paths = append(paths, localPath)
	}

	return paths, nil
}

// filterObjects keeps objects whose key resolves to a known format and whose
// size passes the optional limit. Directory placeholder keys are dropped.
func (s *S3Source) filterObjects(objects []S3Object, cfg S3SourceConfig) []S3Object {
	var kept []S3Object
	for _, obj := range objects {
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		if cfg.MaxObjectSize > 0 && obj.Size > cfg.MaxObjectSize {
			s.logger.Warn("Skipping oversize S3 object.", "key", obj.Key, "size", obj.Size)
			continue
		}
		if _, err := ResolveFormat(obj.Key, cfg.Overrides); err != nil {
			s.logger.Debug("Skipping unsupported S3 object.", "key", obj.Key)
			continue
		}
		kept = append(kept, obj)
	}
	return kept
}
