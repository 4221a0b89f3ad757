// Package objectstore uploads catalog images to Google Cloud Storage.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/storefront/pkg/helpers"
)

type GCSImageStore struct {
	client *storage.Client
	bucket string
}

func NewGCSImageStore(client *storage.Client, bucket string) *GCSImageStore {
	return &GCSImageStore{client: client, bucket: bucket}
}

// Upload writes r under products/<uuid><ext> and returns the public URL.
func (s *GCSImageStore) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	objectPath := path.Join("products", uuid.NewString()+ext)
	url, err := helpers.UploadObject(ctx, s.client, s.bucket, objectPath, contentType, r)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	return url, nil
}
