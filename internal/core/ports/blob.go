package ports

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrBlobNotFound = errors.New("blob not found")

type BlobInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// BlobStore keeps uploaded files such as avatars. Put overwrites an existing
// key.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader) (BlobInfo, error)
	Get(ctx context.Context, key string) (BlobInfo, io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Driver() string
}
