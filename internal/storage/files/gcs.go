package files

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// BucketStore writes uploads as objects in a Google Cloud Storage bucket
type BucketStore struct {
	client  *storage.Client
	bucket  string
	timeout time.Duration
}

// NewBucketStore creates a GCS client authenticated with a service-account JSON blob.
// An empty blob falls back to application default credentials.
func NewBucketStore(ctx context.Context, bucket string, credentialsJSON []byte) (*BucketStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if len(credentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(credentialsJSON))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &BucketStore{client: client, bucket: bucket, timeout: 2 * time.Minute}, nil
}

// Save uploads content to the object named by key
func (s *BucketStore) Save(ctx context.Context, key string, content io.Reader) error {
	if key == "" || strings.HasPrefix(key, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if strings.EqualFold(path.Ext(key), ".pdf") {
		w.ContentType = "application/pdf"
	}
	if _, err := io.Copy(w, content); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

// Close releases the storage client
func (s *BucketStore) Close() error {
	return s.client.Close()
}
