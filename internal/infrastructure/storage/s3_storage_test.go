package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
	"github.com/erp/logistics/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.StorageConfig {
	return config.StorageConfig{
		Enabled:         true,
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		Bucket:          "attachments",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
		PresignExpiry:   10 * time.Minute,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("missing bucket", func(t *testing.T) {
		cfg := testConfig()
		cfg.Bucket = ""
		_, err := NewS3ObjectStorage(ctx, cfg)
		assert.ErrorContains(t, err, "bucket is required")
	})

	t.Run("missing credentials", func(t *testing.T) {
		cfg := testConfig()
		cfg.SecretAccessKey = ""
		_, err := NewS3ObjectStorage(ctx, cfg)
		assert.ErrorContains(t, err, "credentials are required")
	})

	t.Run("defaults presign expiry", func(t *testing.T) {
		cfg := testConfig()
		cfg.PresignExpiry = 0
		s, err := NewS3ObjectStorage(ctx, cfg)
		require.NoError(t, err)
		assert.Equal(t, defaultPresignExpiry, s.presignExpiry)
		assert.Equal(t, "attachments", s.Bucket())
	})
}

func TestS3ObjectStorage_PresignedURLs(t *testing.T) {
	ctx := context.Background()
	s, err := NewS3ObjectStorage(ctx, testConfig())
	require.NoError(t, err)

	key := "tenant/maintenance/123/report.pdf"

	t.Run("upload", func(t *testing.T) {
		raw, expiresAt, err := s.GenerateUploadURL(ctx, key, "application/pdf", 0)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "localhost:9000", u.Host)
		assert.True(t, strings.HasPrefix(u.Path, "/attachments/"+key))
		assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	})

	t.Run("download with explicit expiry", func(t *testing.T) {
		raw, _, err := s.GenerateDownloadURL(ctx, key, time.Minute)
		require.NoError(t, err)
		u, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "60", u.Query().Get("X-Amz-Expires"))
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := s.GenerateUploadURL(ctx, "", "text/plain", 0)
		assert.Error(t, err)
		_, _, err = s.GenerateDownloadURL(ctx, "", 0)
		assert.Error(t, err)
		assert.Error(t, s.DeleteObject(ctx, ""))
		_, err = s.ObjectExists(ctx, "")
		assert.Error(t, err)
	})
}

func TestDisabled(t *testing.T) {
	ctx := context.Background()
	var d Disabled

	_, _, err := d.GenerateUploadURL(ctx, "k", "text/plain", 0)
	assert.True(t, shared.HasCode(err, shared.CodeServiceUnavailable))
	_, err = d.ObjectExists(ctx, "k")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
