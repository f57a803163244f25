package fileproc

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Object describes one object found under the configured bucket/prefix.
type S3Object struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// S3Client is the minimal S3 surface the source needs; the interface exists
// so tests can substitute a fake.
type S3Client interface {
	ListObjects(ctx context.Context, bucket, prefix string) ([]S3Object, error)
	DownloadObject(ctx context.Context, bucket, key, localPath string) error
}

// AWSS3Client implements S3Client using the AWS SDK.
type AWSS3Client struct {
	client *s3.Client
}

// NewAWSS3Client creates a client with the default credential chain
// (environment variables, profiles, IAM roles).
func NewAWSS3Client(ctx context.Context, region string) (*AWSS3Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithRetryMaxAttempts(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSS3Client{client: s3.NewFromConfig(cfg)}, nil
}

// ListObjects lists all objects under the prefix, following pagination.
func (c *AWSS3Client) ListObjects(ctx context.Context, bucket, prefix string) ([]S3Object, error) {
	var objects []S3Object

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	paginator := s3.NewListObjectsV2Paginator(c.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %s: %w", bucket, err)
		}

		for _, obj := range page.Contents {
			objects = append(objects, S3Object{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				ETag:         aws.ToString(obj.ETag),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	return objects, nil
}

// DownloadObject streams one object to a local path, creating parent
// directories as needed.
func (c *AWSS3Client) DownloadObject(ctx context.Context, bucket, key, localPath string) error {
	if err := os.MkdirAll(filepath.Dir(localPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", localPath, err)
	}

	result, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer result.Body.Close()

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localPath, err)
	}

	if _, err := io.Copy(file, result.Body); err != nil {
		file.Close()
		os.Remove(localPath)
		return fmt.Errorf("failed to write %s: %w", localPath, err)
	}

	return file.Close()
}
