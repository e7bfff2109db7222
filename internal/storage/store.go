package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrStorageDisabled = errors.New("object storage is not configured")
	ErrForeignObject   = errors.New("url does not belong to this object store")
)

// ObjectStore is the boundary to external media storage. Put uploads the
// file at localPath under key and returns its public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, localPath string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Disabled is used when no bucket is configured; every upload fails so the
// caller falls back to an empty media URL.
type Disabled struct{}

func (Disabled) Put(context.Context, string, string, string) (string, error) {
	return "", ErrStorageDisabled
}

func (Disabled) Delete(context.Context, string) error {
	return ErrStorageDisabled
}

// NewKey builds prefix/yyyy/mm/dd/<uuid><ext>.
func NewKey(prefix string, now time.Time, ext string) string {
	now = now.UTC()
	name := uuid.NewString() + ext
	datePath := fmt.Sprintf("%04d/%02d/%02d", now.Year(), int(now.Month()), now.Day())

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return path.Join(datePath, name)
	}
	return path.Join(prefix, datePath, name)
}
