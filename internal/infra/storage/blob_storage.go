// Package storage implements hosted file storage on top of gocloud.dev blob buckets.
package storage

import (
	"context"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"

	"munch/config"
	"munch/internal/domain/service"
	"munch/internal/errors"
)

const openTimeout = 10 * time.Second

// blobStorage routes the logical bucket names onto two opened blob buckets.
type blobStorage struct {
	productImages *blob.Bucket
	userAvatars   *blob.Bucket
	publicBaseURL string
}

// New opens the configured buckets. URLs use gocloud.dev schemes, so the same
// code serves file:// in development and gs:// in production.
func New(cfg *config.Config) (service.ObjectStorage, error) {
	if cfg.Storage == nil {
		return nil, errors.New("storage configuration is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()

	productImages, err := blob.OpenBucket(ctx, cfg.Storage.ProductImagesURL)
	if err != nil {
		return nil, errors.Wrap(err, "open product images bucket")
	}

	userAvatars, err := blob.OpenBucket(ctx, cfg.Storage.UserAvatarsURL)
	if err != nil {
		_ = productImages.Close()

		return nil, errors.Wrap(err, "open user avatars bucket")
	}

	return &blobStorage{
		productImages: productImages,
		userAvatars:   userAvatars,
		publicBaseURL: strings.TrimSuffix(cfg.Storage.PublicBaseURL, "/"),
	}, nil
}

// Upload writes the content under a generated path and returns the storage path.
// Paths are date-prefixed so bucket listings stay navigable.
func (s *blobStorage) Upload(ctx context.Context, bucket string, contentType string, content io.Reader) (string, error) {
	b, err := s.bucketFor(bucket)
	if err != nil {
		return "", err
	}

	path := time.Now().UTC().Format("2006/01/02") + "/" + uuid.NewString() + extensionFor(contentType)

	writer, err := b.NewWriter(ctx, path, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "open blob writer")
	}

	if _, err := io.Copy(writer, content); err != nil {
		_ = writer.Close()

		return "", errors.Wrap(err, "write blob")
	}

	if err := writer.Close(); err != nil {
		return "", errors.Wrap(err, "close blob writer")
	}

	return path, nil
}

// Download streams the object at path from the given bucket.
func (s *blobStorage) Download(ctx context.Context, bucket string, path string) (io.ReadCloser, error) {
	b, err := s.bucketFor(bucket)
	if err != nil {
		return nil, err
	}

	reader, err := b.NewReader(ctx, path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open blob %s/%s", bucket, path)
	}

	return reader, nil
}

// PublicURL returns a URL under which the object can be fetched without
// authentication. With a public base URL configured the path is simply joined
// onto it; otherwise a signed URL is requested from the bucket.
func (s *blobStorage) PublicURL(ctx context.Context, bucket string, path string) (string, error) {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + bucket + "/" + path, nil
	}

	b, err := s.bucketFor(bucket)
	if err != nil {
		return "", err
	}

	signed, err := b.SignedURL(ctx, path, &blob.SignedURLOptions{Expiry: 24 * time.Hour})
	if err != nil {
		return "", errors.Wrapf(err, "sign url for %s/%s", bucket, path)
	}

	return signed, nil
}

// Close releases the underlying bucket handles.
func (s *blobStorage) Close() error {
	return errors.Join(s.productImages.Close(), s.userAvatars.Close())
}

func (s *blobStorage) bucketFor(name string) (*blob.Bucket, error) {
	switch name {
	case service.BucketProductImages:
		return s.productImages, nil
	case service.BucketUserAvatars:
		return s.userAvatars, nil
	default:
		return nil, errors.Errorf("unknown storage bucket: %s", name)
	}
}

func extensionFor(contentType string) string {
	// mime returns several candidates for image types; prefer the common ones.
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}

	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}

	return exts[0]
}
