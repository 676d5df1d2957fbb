package equipment

import (
	"context"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectStorage presigns transfers of attachment objects. It is implemented
// by the S3 adapter, or by a stand-in that fails every call when no bucket
// is configured.
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	DeleteObject(ctx context.Context, key string) error
}

// AttachmentConfig holds presigned URL lifetimes
type AttachmentConfig struct {
	UploadURLExpiry   time.Duration
	DownloadURLExpiry time.Duration
}

// DefaultAttachmentConfig returns the default configuration
func DefaultAttachmentConfig() AttachmentConfig {
	return AttachmentConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: time.Hour,
	}
}

// allowedContentTypes excludes svg and anything executable
var allowedContentTypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/gif":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain":      true,
	"text/csv":        true,
	"application/zip": true,
}

func isAllowedContentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return allowedContentTypes[ct]
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// objectKey places a sanitized file name under prefix, behind a short random
// tag so repeated uploads of the same name do not collide.
func objectKey(prefix, name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Trim(unsafeFileChars.ReplaceAllString(base, "_"), "_.")
	if base == "" {
		base = "file"
	}
	if len(base) > 120 {
		base = base[len(base)-120:]
	}
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + "_" + base
}

// fileName recovers the display name of a key built by objectKey
func fileName(key string) string {
	base := path.Base(key)
	if _, name, ok := strings.Cut(base, "_"); ok && name != "" {
		return name
	}
	return base
}
