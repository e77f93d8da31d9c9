package reports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Archive keeps a copy of every generated report.
type Archive interface {
	Put(ctx context.Context, name string, data []byte) (location string, err error)
}

// LocalArchive writes reports under Dir.
type LocalArchive struct {
	Dir string
}

func (a LocalArchive) Put(_ context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(a.Dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// GCSArchive uploads reports to a Cloud Storage bucket.
type GCSArchive struct {
	client *storage.Client
	bucket string
}

// NewGCSArchive uses application default credentials.
func NewGCSArchive(ctx context.Context, bucket string) (*GCSArchive, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCSArchive{client: client, bucket: bucket}, nil
}

func (a *GCSArchive) Put(ctx context.Context, name string, data []byte) (string, error) {
	w := a.client.Bucket(a.bucket).Object(name).NewWriter(ctx)
	w.ContentType = xlsxContentType
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Close()
		return "", fmt.Errorf("upload report: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", a.bucket, name), nil
}

func (a *GCSArchive) Close() error {
	return a.client.Close()
}
