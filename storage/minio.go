package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"mixfm/config"
	"mixfm/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	minioClient *minio.Client
	minioBucket string
)

// Object path prefixes inside the bucket.
const (
	AudioPrefix = "audio/"
	CoverPrefix = "covers/"
)

// InitMinio initializes the MinIO client and ensures the bucket exists.
func InitMinio(cfg *config.Config) error {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("Created MinIO bucket", logger.String("bucket", cfg.MinioBucket))
	}

	minioClient = client
	minioBucket = cfg.MinioBucket
	logger.Info("Connected to MinIO", logger.String("endpoint", cfg.MinioEndpoint), logger.String("bucket", cfg.MinioBucket))
	return nil
}

// GetMinioClient returns the initialized client, or nil before InitMinio.
func GetMinioClient() *minio.Client {
	return minioClient
}

// UploadAudio stores an uploaded audio file and returns its object path.
func UploadAudio(ctx context.Context, reader io.Reader, size int64, filename, contentType string) (string, error) {
	return upload(ctx, AudioPrefix, reader, size, filename, contentType)
}

// UploadCover stores an uploaded cover image and returns its object path.
func UploadCover(ctx context.Context, reader io.Reader, size int64, filename, contentType string) (string, error) {
	return upload(ctx, CoverPrefix, reader, size, filename, contentType)
}

func upload(ctx context.Context, prefix string, reader io.Reader, size int64, filename, contentType string) (string, error) {
	if minioClient == nil {
		return "", fmt.Errorf("MinIO client not initialized")
	}

	// Random object name; the original filename only contributes its extension.
	objectPath := prefix + uuid.New().String() + strings.ToLower(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := minioClient.PutObject(ctx, minioBucket, objectPath, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}

	logger.Debug("Uploaded object", logger.String("path", objectPath), logger.Int64("size", size))
	return objectPath, nil
}

// DeleteObject removes a stored object by path.
func DeleteObject(ctx context.Context, objectPath string) error {
	if minioClient == nil {
		return fmt.Errorf("MinIO client not initialized")
	}
	if err := minioClient.RemoveObject(ctx, minioBucket, objectPath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", objectPath, err)
	}
	return nil
}

// GetObject opens a stored object for reading.
func GetObject(ctx context.Context, objectPath string) (*minio.Object, error) {
	if minioClient == nil {
		return nil, fmt.Errorf("MinIO client not initialized")
	}
	return minioClient.GetObject(ctx, minioBucket, objectPath, minio.GetObjectOptions{})
}
