package domain

import (
	"context"
	"io"
	"time"
)

type UploadInput struct {
	LocalPath   string
	Key         string
	ContentType string
	Metadata    map[string]string
}

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

type ObjectStore interface {
	Bucket() string
	Upload(ctx context.Context, in UploadInput) error
	// ListFolders returns the raw common prefixes directly beneath prefix.
	ListFolders(ctx context.Context, prefix string) ([]string, error)
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// Open returns a nil reader when the object has no body.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, keys []string) error
}
