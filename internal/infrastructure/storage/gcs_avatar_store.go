// Package storage uploads profile pictures to Google Cloud Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/oksasatya/lingo-social/internal/application"
	"github.com/oksasatya/lingo-social/pkg/helpers"
)

const avatarCacheControl = "public, max-age=86400"

// AvatarStore writes avatars under avatars/<userID>/<random>.<ext>.
type AvatarStore struct {
	client *gcs.Client
	bucket string
}

func NewAvatarStore(client *gcs.Client, bucket string) *AvatarStore {
	return &AvatarStore{client: client, bucket: bucket}
}

// Upload streams r into a fresh object and returns its public URL. Object
// names are never reused.
func (s *AvatarStore) Upload(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	name := objectPath(userID, filename)
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = avatarCacheControl
	w.Metadata = map[string]string{"user_id": userID}
	w.ChunkSize = 0 // avatars are small; single request upload

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", name, err)
	}
	return helpers.ObjectURL(s.bucket, name), nil
}

func objectPath(userID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("avatars", userID, uuid.NewString()+ext)
}

var _ application.AvatarStorage = (*AvatarStore)(nil)
