package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"munch/config"
	"munch/internal/domain/service"
)

func newTestStorage(t *testing.T, publicBaseURL string) service.ObjectStorage {
	t.Helper()

	cfg := &config.Config{
		Storage: &config.StorageConfig{
			ProductImagesURL: "mem://",
			UserAvatarsURL:   "mem://",
			PublicBaseURL:    publicBaseURL,
		},
	}

	storage, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	return storage
}

func TestBlobStorage_UploadAndDownload(t *testing.T) {
	storage := newTestStorage(t, "")
	ctx := context.Background()

	path, err := storage.Upload(ctx, service.BucketProductImages, "image/png", strings.NewReader("fake png bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, ".png"), "path %q should carry the content-type extension", path)

	reader, err := storage.Download(ctx, service.BucketProductImages, path)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "fake png bytes", string(content))
}

func TestBlobStorage_BucketsAreIsolated(t *testing.T) {
	storage := newTestStorage(t, "")
	ctx := context.Background()

	path, err := storage.Upload(ctx, service.BucketUserAvatars, "image/jpeg", strings.NewReader("avatar"))
	require.NoError(t, err)

	_, err = storage.Download(ctx, service.BucketProductImages, path)
	assert.Error(t, err)
}

func TestBlobStorage_RejectsUnknownBucket(t *testing.T) {
	storage := newTestStorage(t, "")

	_, err := storage.Upload(context.Background(), "no-such-bucket", "image/png", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = storage.Download(context.Background(), "no-such-bucket", "some/path.png")
	assert.Error(t, err)
}

func TestBlobStorage_PublicURLWithBase(t *testing.T) {
	storage := newTestStorage(t, "https://cdn.example.com/")

	url, err := storage.PublicURL(context.Background(), service.BucketProductImages, "2026/01/02/abc.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/product-images/2026/01/02/abc.png", url)
}

func TestNew_RequiresStorageConfig(t *testing.T) {
	_, err := New(&config.Config{})
	assert.Error(t, err)
}
