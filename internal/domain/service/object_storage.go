package service

import (
	"context"
	"io"
)

// Storage namespaces (bucket logical names).
const (
	// BucketProductImages holds product photos uploaded by admins.
	BucketProductImages = "product-images"
	// BucketUserAvatars holds user avatar images.
	BucketUserAvatars = "user-avatars"
)

// ObjectStorage abstracts the hosted file storage behind upload/download
// operations on named buckets.
type ObjectStorage interface {
	// Upload writes the content under a generated path in the given bucket
	// and returns the storage path.
	Upload(ctx context.Context, bucket string, contentType string, content io.Reader) (string, error)

	// Download streams the object at path from the given bucket.
	// The caller must close the returned reader.
	Download(ctx context.Context, bucket string, path string) (io.ReadCloser, error)

	// PublicURL returns a URL under which the object can be fetched without
	// authentication.
	PublicURL(ctx context.Context, bucket string, path string) (string, error)

	// Close releases the underlying bucket handles.
	Close() error
}
