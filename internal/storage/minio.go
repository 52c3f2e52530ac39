package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/medicure/hospital-api/internal/config"
	"github.com/medicure/hospital-api/internal/models"
)

// AvatarStore uploads doctor avatars to MinIO and hands back the public
// identifier and retrievable URL persisted on the user record.
type AvatarStore struct {
	client   *minio.Client
	endpoint string
	bucket   string
	useSSL   bool
}

// NewAvatarStore connects to MinIO and creates the avatar bucket if needed.
func NewAvatarStore(ctx context.Context, cfg config.MinioConfig) (*AvatarStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		log.Printf("Warning: failed to check bucket existence: %v", err)
	} else if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			log.Printf("Warning: failed to create bucket %s: %v", cfg.Bucket, err)
		} else {
			log.Printf("Created bucket: %s", cfg.Bucket)
		}
	}

	return &AvatarStore{
		client:   client,
		endpoint: cfg.Endpoint,
		bucket:   cfg.Bucket,
		useSSL:   cfg.UseSSL,
	}, nil
}

// Upload stores an avatar image and returns its public handle. The object
// name is random so two doctors can upload files with the same name.
func (s *AvatarStore) Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (models.Avatar, error) {
	objectName := uuid.NewString() + extensionFor(contentType)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return models.Avatar{}, err
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return models.Avatar{
		PublicID: objectName,
		URL:      fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectName),
	}, nil
}

func extensionFor(contentType string) string {
	// mime.ExtensionsByType returns multiple candidates for image/jpeg; keep
	// the conventional one.
	if contentType == "image/jpeg" {
		return ".jpg"
	}
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
