// Package storage keeps uploaded images in a MinIO bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type MinioStorage struct {
	client *minio.Client
	cfg    Config
}

// NewMinio connects and makes sure the bucket exists.
func NewMinio(ctx context.Context, cfg Config) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}
	return &MinioStorage{client: client, cfg: cfg}, nil
}

// ObjectKey builds "<folder>/<uuid><ext>" for an uploaded file name.
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(folder, uuid.NewString()+ext)
}

func (s *MinioStorage) baseURL() string {
	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/", scheme, s.cfg.Endpoint, s.cfg.Bucket)
}

// Put stores r under a fresh key in folder and returns the public object URL.
func (s *MinioStorage) Put(ctx context.Context, folder, filename, contentType string, r io.Reader, size int64) (string, error) {
	key := ObjectKey(folder, filename)
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	return s.baseURL() + key, nil
}

// Remove deletes the object behind a URL previously returned by Put.
func (s *MinioStorage) Remove(ctx context.Context, objectURL string) error {
	key, ok := KeyFromURL(objectURL, s.cfg.Bucket)
	if !ok {
		return fmt.Errorf("minio: %q is not an object of bucket %s", objectURL, s.cfg.Bucket)
	}
	return s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{})
}

// KeyFromURL extracts the object key from a path-style object URL.
func KeyFromURL(objectURL, bucket string) (string, bool) {
	u, err := url.Parse(objectURL)
	if err != nil {
		return "", false
	}
	prefix := "/" + bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) || len(u.Path) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(u.Path, prefix), true
}
