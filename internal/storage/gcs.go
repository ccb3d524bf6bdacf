package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
)

// GCSBackend implements Backend for reading a model corpus out of a
// Google Cloud Storage bucket, using Application Default Credentials.
type GCSBackend struct {
	client *storage.Client
	bucket *storage.BucketHandle
	prefix string
}

// NewGCSBackend opens bucket under Application Default Credentials.
func NewGCSBackend(bucket, prefix string) (*GCSBackend, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSBackend{client: client, bucket: client.Bucket(bucket), prefix: prefix}, nil
}

// Type returns the backend type.
func (g *GCSBackend) Type() string {
	return "gcs"
}

// Get retrieves key from the bucket.
func (g *GCSBackend) Get(ctx context.Context, key string) ([]byte, error) {
	reader, err := g.bucket.Object(g.fullKey(key)).NewReader(ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return nil, fmt.Errorf("object not found: %s", key)
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read object: %w", err)
	}

	return data, nil
}

// Exists checks object existence via Attrs.
func (g *GCSBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, err := g.bucket.Object(g.fullKey(key)).Attrs(ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

// List iterates every object under prefix.
func (g *GCSBackend) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iter := g.bucket.Objects(ctx, &storage.Query{Prefix: g.fullKey(prefix)})
	for {
		attrs, err := iter.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}
		keys = append(keys, strings.TrimPrefix(attrs.Name, g.prefix))
	}

	return keys, nil
}

func (g *GCSBackend) fullKey(key string) string {
	if g.prefix == "" {
		return key
	}
	return g.prefix + strings.TrimPrefix(key, "/")
}
