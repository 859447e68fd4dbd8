package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/shopsmart-app/backend/config"
)

// StorageService is the blob store for profile images, backed by S3. Blobs
// are addressed by path; URLForImage resolves a path to a fetchable
// (presigned) URL.
type StorageService struct {
	s3Config *config.S3Config
	urlTTL   time.Duration
}

var _ IStorageService = (*StorageService)(nil)

// NewStorageService creates a new StorageService instance.
func NewStorageService(s3Config *config.S3Config) *StorageService {
	return &StorageService{
		s3Config: s3Config,
		urlTTL:   24 * time.Hour,
	}
}

// SaveImage uploads image bytes under the owner's prefix and returns the blob
// path.
func (s *StorageService) SaveImage(ctx context.Context, data []byte, userID uuid.UUID) (string, error) {
	path := fmt.Sprintf("users/%s/%s.jpg", userID, uuid.New())

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(path),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return path, nil
}

// URLForImage resolves a blob path to a presigned URL.
func (s *StorageService) URLForImage(ctx context.Context, path string) (string, error) {
	url, err := s.s3Config.GeneratePresignedURL(ctx, path, s.urlTTL)
	if err != nil {
		return "", fmt.Errorf("failed to presign image url: %w", err)
	}
	return url, nil
}

// DeleteImage removes the blob at path.
func (s *StorageService) DeleteImage(ctx context.Context, path string) error {
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(path),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
