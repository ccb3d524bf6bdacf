package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/voxtrace/voxtrace/internal/logger"
)

// S3Backend implements Backend for reading a model corpus out of an
// AWS S3 (or S3-compatible) bucket.
type S3Backend struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Backend loads the default AWS credential chain (IAM role,
// environment variables, shared config) and opens bucket.
func NewS3Backend(bucket, region, prefix string) (*S3Backend, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	logger.Info("s3 backend initialized for bucket %s", bucket)

	return &S3Backend{client: client, bucket: bucket, prefix: prefix}, nil
}

// Type returns the backend type.
func (b *S3Backend) Type() string {
	return "s3"
}

// Get retrieves key from the bucket.
func (b *S3Backend) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.fullKey(key)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}

	return data, nil
}

// Exists checks object existence via HeadObject.
func (b *S3Backend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.fullKey(key)),
	})
	if err != nil {
		if isS3NotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}

	return true, nil
}

// List paginates ListObjectsV2 under prefix, stripping the backend's
// own prefix back off each key.
func (b *S3Backend) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(b.fullKey(prefix)),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, strings.TrimPrefix(aws.ToString(obj.Key), b.prefix))
		}
	}

	return keys, nil
}

func (b *S3Backend) fullKey(key string) string {
	if b.prefix == "" {
		return key
	}
	return b.prefix + strings.TrimPrefix(key, "/")
}

func isS3NotFoundError(err error) bool {
	return strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "StatusCode: 404")
}
