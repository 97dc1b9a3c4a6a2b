// Package backupstore copies backup snapshots to Google Cloud Storage.
package backupstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"

	"cloud.google.com/go/storage"

	"storefront/internal/models"
)

// Uploader stores a backup somewhere outside the database and returns its URI.
type Uploader interface {
	Upload(ctx context.Context, b *models.Backup) (string, error)
	Close() error
}

// ObjectWriterFunc opens a writer for an object in the bucket.
type ObjectWriterFunc func(ctx context.Context, object string) io.WriteCloser

// GCSUploader writes backups as JSON objects to a GCS bucket.
type GCSUploader struct {
	client *storage.Client
	bucket string
	prefix string
	open   ObjectWriterFunc
}

// NewGCSUploader creates an uploader using application default credentials.
func NewGCSUploader(ctx context.Context, bucket string) (*GCSUploader, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	u := &GCSUploader{client: client, bucket: bucket, prefix: "backups"}
	u.open = func(ctx context.Context, object string) io.WriteCloser {
		w := client.Bucket(bucket).Object(object).NewWriter(ctx)
		w.ContentType = "application/json"
		return w
	}
	return u, nil
}

// NewUploaderWithWriter creates an uploader that writes through open. Used
// where a real bucket is not available.
func NewUploaderWithWriter(bucket string, open ObjectWriterFunc) *GCSUploader {
	return &GCSUploader{bucket: bucket, prefix: "backups", open: open}
}

// ObjectName returns the object path for a backup.
func (u *GCSUploader) ObjectName(b *models.Backup) string {
	return path.Join(u.prefix, b.CreatedAt.UTC().Format("2006/01/02"), b.ID.String()+".json")
}

// Upload writes the backup as JSON and returns its gs:// URI.
func (u *GCSUploader) Upload(ctx context.Context, b *models.Backup) (string, error) {
	object := u.ObjectName(b)

	w := u.open(ctx, object)
	if err := json.NewEncoder(w).Encode(b); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to write backup object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize backup object: %w", err)
	}

	return fmt.Sprintf("gs://%s/%s", u.bucket, object), nil
}

// Close releases the storage client.
func (u *GCSUploader) Close() error {
	if u.client == nil {
		return nil
	}
	return u.client.Close()
}
