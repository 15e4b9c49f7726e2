package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"winamp7/config"
	"winamp7/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore keeps objects in a MinIO (or S3 compatible) bucket. Localize
// downloads into a cache directory.
type MinioStore struct {
	client   *minio.Client
	bucket   string
	cacheDir string
}

// NewMinioStore connects to MinIO and creates the bucket when missing.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	logger.Info("connecting to MinIO",
		logger.String("endpoint", cfg.MinioEndpoint),
		logger.String("bucket", cfg.MinioBucket))

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
		logger.Info("bucket created", logger.String("bucket", cfg.MinioBucket))
	}

	cacheDir := filepath.Join(cfg.UploadDir, ".minio-cache")
	if err := os.MkdirAll(cacheDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", cacheDir, err)
	}
	return &MinioStore{client: client, bucket: cfg.MinioBucket, cacheDir: cacheDir}, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (ObjectInfo, error) {
	if err := checkKey(key); err != nil {
		return ObjectInfo{}, err
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("upload %s: %w", key, err)
	}
	return ObjectInfo{Key: key, Size: info.Size, LastModified: info.LastModified, ContentType: contentType}, nil
}

func (s *MinioStore) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	if err := checkKey(key); err != nil {
		return nil, ObjectInfo{}, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("get %s: %w", key, err)
	}
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, fmt.Errorf("stat %s: %w", key, err)
	}
	return obj, toObjectInfo(st), nil
}

func (s *MinioStore) Localize(ctx context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	p := filepath.Join(s.cacheDir, filepath.FromSlash(key))
	if _, err := os.Stat(p); err == nil {
		return p, nil
	}
	if err := s.client.FGetObject(ctx, s.bucket, key, p, minio.GetObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("download %s: %w", key, err)
	}
	return p, nil
}

func (s *MinioStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list objects: %w", object.Err)
		}
		objects = append(objects, toObjectInfo(object))
	}
	return objects, nil
}

func toObjectInfo(o minio.ObjectInfo) ObjectInfo {
	ct := o.ContentType
	if ct == "" {
		ct = InferContentType(o.Key)
	}
	return ObjectInfo{Key: o.Key, Size: o.Size, LastModified: o.LastModified, ContentType: ct}
}
