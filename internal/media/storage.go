// Package media stores uploaded images in an S3-compatible object
// store and hands back public URLs for them.
package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gravadigital/lineup-api/internal/logger"
)

// Config holds the object store settings
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the externally reachable base URL of the bucket.
	// When empty, uploads fall back to presigned URLs.
	PublicURL string
}

// Storage wraps the object store client
type Storage struct {
	client *minio.Client
	cfg    Config
	log    *log.Logger
}

// NewStorage creates a media storage client and ensures the bucket exists
func NewStorage(ctx context.Context, cfg Config) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create media storage client: %w", err)
	}

	s := &Storage{client: client, cfg: cfg, log: logger.Media()}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check media bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create media bucket: %w", err)
		}
		s.log.Info("media bucket created", "bucket", cfg.Bucket)
	}

	return s, nil
}

// UploadImage stores an image under a generated object key and returns
// its URL. The original filename only contributes its extension.
func (s *Storage) UploadImage(ctx context.Context, folder, filename string, r io.Reader, size int64, contentType string) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	objectName := folder + "/" + uuid.New().String() + ext

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.log.Error("failed to upload image", "object", objectName, "error", err)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	s.log.Info("image uploaded", "object", objectName, "size", size)
	return s.objectURL(ctx, objectName)
}

// objectURL builds the public URL for an object, or presigns one when
// no public base URL is configured
func (s *Storage) objectURL(ctx context.Context, objectName string) (string, error) {
	if s.cfg.PublicURL != "" {
		return strings.TrimRight(s.cfg.PublicURL, "/") + "/" + objectName, nil
	}

	u, err := s.client.PresignedGetObject(ctx, s.cfg.Bucket, objectName, 7*24*time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign image url: %w", err)
	}
	return u.String(), nil
}
