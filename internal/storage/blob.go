package storage

import (
	"context"
	"io"
)

// Blob abstracts where uploaded media bytes live. The disk FileStore is
// the default; ObjectStore targets MinIO/S3 when configured.
type Blob interface {
	// Put persists the object under key and returns nothing; the key is
	// chosen by the caller and must be collision-free.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// Delete removes the object. Missing objects are not an error.
	Delete(ctx context.Context, key string) error
}
