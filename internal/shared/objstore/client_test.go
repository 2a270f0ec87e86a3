package objstore

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-portal/internal/config"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
	}{
		{"缺少 endpoint", config.MinIOConfig{AccessKey: "a", SecretKey: "b"}},
		{"缺少 access key", config.MinIOConfig{Endpoint: "localhost:9000", SecretKey: "b"}},
		{"缺少 secret key", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient(config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.Equal(t, "school-portal", c.Bucket())
}

func TestClient_UploadAndPresign(t *testing.T) {
	endpoint := os.Getenv("MINIO_TEST_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_TEST_ENDPOINT not set")
	}
	c, err := NewClient(config.MinIOConfig{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("MINIO_ROOT_USER"),
		SecretKey: os.Getenv("MINIO_ROOT_PASSWORD"),
		Bucket:    "school-portal-test",
	})
	require.NoError(t, err)

	ctx := context.Background()
	if err := c.EnsureBucket(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	key := ApplicationKey("test", "a.txt")
	require.NoError(t, c.Upload(ctx, key, strings.NewReader("hello"), 5, "text/plain"))
	defer c.Delete(ctx, key)

	u, err := c.PresignGet(ctx, key, "a.txt")
	require.NoError(t, err)
	assert.Contains(t, u, "X-Amz-Signature")
	assert.Contains(t, u, key)
}

func TestApplicationKey(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		suffix   string
	}{
		{"普通文件名", "transcript.pdf", "-transcript.pdf"},
		{"带目录", "../../etc/passwd", "-passwd"},
		{"Windows 路径", `C:\docs\photo.jpg`, "-photo.jpg"},
		{"空文件名", "", "-file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := ApplicationKey("65a1b2c3d4e5f6a7b8c9d0e1", tt.filename)
			assert.True(t, strings.HasPrefix(key, "applications/65a1b2c3d4e5f6a7b8c9d0e1/"), key)
			assert.True(t, strings.HasSuffix(key, tt.suffix), key)
			assert.Equal(t, 2, strings.Count(key, "/"), key)
		})
	}

	assert.NotEqual(t, ApplicationKey("a", "f.pdf"), ApplicationKey("a", "f.pdf"))
}

func TestFilenameFromKey(t *testing.T) {
	key := ApplicationKey("65a1", "report card.pdf")
	assert.Equal(t, "report card.pdf", FilenameFromKey(key))
	assert.Equal(t, "plain.txt", FilenameFromKey("applications/65a1/plain.txt"))
}
