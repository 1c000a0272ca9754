package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"alujo/config"
	"alujo/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaStore uploads and removes binary media (audio, cover art) in a MinIO
// bucket. The database only ever stores the resulting public URLs.
type MediaStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMediaStore connects to MinIO and ensures the bucket exists.
func NewMediaStore(cfg *config.Config) (*MediaStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("Created media bucket", logger.String("bucket", cfg.MinioBucket))
	}

	return &MediaStore{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimRight(cfg.MinioPublicURL, "/"),
	}, nil
}

// UploadAudio stores an audio stream under audio/ and returns its public URL.
func (s *MediaStore) UploadAudio(ctx context.Context, r io.Reader, size int64, filename, contentType string) (string, error) {
	return s.upload(ctx, "audio", r, size, filename, contentType)
}

// UploadImage stores an image stream under images/ and returns its public URL.
func (s *MediaStore) UploadImage(ctx context.Context, r io.Reader, size int64, filename, contentType string) (string, error) {
	return s.upload(ctx, "images", r, size, filename, contentType)
}

func (s *MediaStore) upload(ctx context.Context, folder string, r io.Reader, size int64, filename, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), path.Ext(filename))

	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	logger.Debug("Uploaded media object",
		logger.String("object", objectName),
		logger.Int64("size", size))

	return s.publicURL + "/" + objectName, nil
}

// Remove deletes the object behind a public URL. Unknown URLs are ignored so
// a missing object never blocks a catalog delete.
func (s *MediaStore) Remove(ctx context.Context, publicURL string) error {
	objectName, ok := s.objectName(publicURL)
	if !ok {
		return nil
	}

	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", objectName, err)
	}
	return nil
}

// objectName extracts the bucket object path from a public URL produced by
// this store.
func (s *MediaStore) objectName(publicURL string) (string, bool) {
	if !strings.HasPrefix(publicURL, s.publicURL+"/") {
		return "", false
	}
	return strings.TrimPrefix(publicURL, s.publicURL+"/"), true
}
