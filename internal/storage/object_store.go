package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"workdesk/api/internal/apperr"
	"workdesk/api/internal/config"
	"workdesk/api/internal/ids"
)

// ObjectStore fronts the blob store. The rest of the system only ever sees
// object keys; bytes stay behind this boundary.
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	bucket := s.cfg.BucketUploads
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", bucket, err)
		}
	}
	return nil
}

// Put streams an upload into the bucket and returns its object key. Keys are
// date-prefixed and ksuid-named, so listings sort by upload time.
func (s *ObjectStore) Put(ctx context.Context, reader io.Reader, size int64, originalName, contentType string) (string, error) {
	key := buildObjectKey(originalName)

	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.client.PutObject(ctx, s.cfg.BucketUploads, key, reader, size, opts); err != nil {
		return "", classifyStorageErr(err)
	}
	return key, nil
}

func (s *ObjectStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.cfg.BucketUploads, key, minio.RemoveObjectOptions{}); err != nil {
		return classifyStorageErr(err)
	}
	return nil
}

func buildObjectKey(originalName string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	ext := strings.ToLower(path.Ext(originalName))
	return path.Join(datePrefix, ids.New()+ext)
}

// classifyStorageErr separates capacity exhaustion from ordinary store
// failures so operators can tell a full disk from an outage.
func classifyStorageErr(err error) error {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		switch resp.Code {
		case "XMinioStorageFull", "QuotaExceeded", "SlowDownWrite":
			return fmt.Errorf("%w: %s", apperr.ErrStorageExhausted, resp.Code)
		}
	}
	return fmt.Errorf("%w: %v", apperr.ErrStorageFailure, err)
}
