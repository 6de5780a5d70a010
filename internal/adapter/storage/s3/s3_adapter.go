package s3

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// S3Storage stores artwork images in a MinIO (S3-compatible) bucket and
// resolves presigned read URLs for them.
type S3Storage struct {
	client *minio.Client
	bucket string
	logger *zap.Logger
}

func NewS3Storage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, logger *zap.Logger) (*S3Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client for %s: %w", endpoint, err)
	}

	err = client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{})
	if err != nil {
		exists, existsErr := client.BucketExists(context.Background(), bucketName)
		if existsErr != nil || !exists {
			return nil, fmt.Errorf("make/verify bucket %s: %w", bucketName, err)
		}
	}

	logger.Info("object storage ready",
		zap.String("endpoint", endpoint), zap.String("bucket", bucketName))

	return &S3Storage{client: client, bucket: bucketName, logger: logger}, nil
}

func (s *S3Storage) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s to bucket %s: %w", key, s.bucket, err)
	}

	s.logger.Debug("object uploaded",
		zap.String("bucket", info.Bucket),
		zap.String("key", info.Key),
		zap.Int64("size", info.Size))

	return info.Key, nil
}

func (s *S3Storage) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign object %s in bucket %s: %w", key, s.bucket, err)
	}
	return url.String(), nil
}
