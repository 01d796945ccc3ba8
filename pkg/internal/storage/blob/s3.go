package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/patchvault/pkg/configs"
	nlog "github.com/yeisme/patchvault/pkg/log"
)

// s3Store MinIO/S3 后端，所有区域存放在同一个 bucket 下.
type s3Store struct {
	cli    *minio.Client
	bucket string
}

// init 注册 S3 后端工厂.
func init() {
	RegisterFactory(configs.BlobTypeS3, newS3Store)
}

func newS3Store(ctx context.Context, cfg *configs.BlobConfig) (Store, error) {
	s3cfg := cfg.S3

	endpoint := s3cfg.Endpoint
	// 允许用户传完整 schema endpoint（http:// 或 https://）
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		if u.Scheme == "https" {
			s3cfg.UseSSL = true
		}
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s3cfg.AccessKeyID, s3cfg.SecretAccessKey, ""),
		Secure: s3cfg.UseSSL,
		Region: s3cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("patchvault", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, s3cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", s3cfg.BucketName, err)
	}

	if !exists {
		if err := cli.MakeBucket(ctx, s3cfg.BucketName, minio.MakeBucketOptions{Region: s3cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", s3cfg.BucketName, err)
		}

		nlog.Logger().Info().Str("bucket", s3cfg.BucketName).Msg("bucket created")
	}

	nlog.Logger().Info().Str("endpoint", s3cfg.Endpoint).Str("bucket", s3cfg.BucketName).Msg("s3 blob store connected")

	return &s3Store{cli: cli, bucket: s3cfg.BucketName}, nil
}

func (s *s3Store) Put(ctx context.Context, key string, r io.Reader, size int64) (int64, error) {
	info, err := s.cli.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("put object %s: %w", key, err)
	}

	return info.Size, nil
}

func (s *s3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.cli.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}

	// GetObject 懒加载，Stat 一次确认对象存在
	if _, err := obj.Stat(); err != nil {
		obj.Close()

		return nil, fmt.Errorf("stat object %s: %w", key, err)
	}

	return obj, nil
}

func (s *s3Store) Stat(ctx context.Context, key string) (int64, error) {
	info, err := s.cli.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return 0, fmt.Errorf("stat object %s: %w", key, err)
	}

	return info.Size, nil
}

func (s *s3Store) Remove(ctx context.Context, key string) error {
	if err := s.cli.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}

	return nil
}

func (s *s3Store) Close() error { return nil }
