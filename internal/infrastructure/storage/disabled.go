package storage

import (
	"context"
	"time"

	"github.com/erp/logistics/internal/domain/shared"
)

// ErrStorageDisabled is returned by every call when no bucket is configured
var ErrStorageDisabled = shared.NewDomainError(shared.CodeServiceUnavailable, "attachment storage is not configured")

// Disabled stands in for S3 when storage.enabled is false
type Disabled struct{}

func (Disabled) GenerateUploadURL(context.Context, string, string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, ErrStorageDisabled
}

func (Disabled) GenerateDownloadURL(context.Context, string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, ErrStorageDisabled
}

func (Disabled) ObjectExists(context.Context, string) (bool, error) {
	return false, ErrStorageDisabled
}

func (Disabled) DeleteObject(context.Context, string) error {
	return ErrStorageDisabled
}
