package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/fleetdocs/certintake/internal/common"
)

// MinioService implements Service on a MinIO (or any S3-compatible)
// bucket.
type MinioService struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

func NewMinioService(cfg common.StorageConfig, logger *slog.Logger) (*MinioService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioService{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (s *MinioService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		s.logger.Info("storage.bucket.created", "bucket", s.bucket)
	}
	return nil
}

// Upload stores data under folderPath with a generated object name and
// returns that name as the file ID.
func (s *MinioService) Upload(ctx context.Context, data []byte, filename, folderPath, mimeType string) (string, error) {
	start := time.Now()
	objectName := path.Join(folderPath, uuid.NewString()+path.Ext(filename))

	_, err := s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: mimeType},
	)
	if err != nil {
		return "", common.NewAppError("STORAGE_UPLOAD", "failed to upload file", err)
	}

	s.logger.Info("storage.upload.ok",
		"object", objectName,
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return objectName, nil
}

// Delete removes the object named by fileID.
func (s *MinioService) Delete(ctx context.Context, fileID string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, fileID, minio.RemoveObjectOptions{}); err != nil {
		return common.NewAppError("STORAGE_DELETE", "failed to delete file", err)
	}
	s.logger.Info("storage.delete.ok", "object", fileID)
	return nil
}
