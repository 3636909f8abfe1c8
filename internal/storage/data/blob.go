package data

import (
	"bytes"
	"context"
	"fmt"
	"io"

	pkgminio "github.com/lk2023060901/personal-cloud-backend/internal/pkg/minio"
)

// MinIOBlobStore 实现 biz.BlobStore 接口
type MinIOBlobStore struct {
	client *pkgminio.Client
	bucket string
}

// NewMinIOBlobStore 创建 MinIO blob 存储
func NewMinIOBlobStore(client *pkgminio.Client, bucket string) *MinIOBlobStore {
	return &MinIOBlobStore{
		client: client,
		bucket: bucket,
	}
}

// Put 写入对象
func (s *MinIOBlobStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, int64(len(data)), pkgminio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}

	return nil
}

// Get 读取对象内容
func (s *MinIOBlobStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, pkgminio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	return obj, nil
}

// Size 返回对象大小。对象不存在时返回 0 而非错误，记录与 blob
// 暂时不一致属于可恢复状态。
func (s *MinIOBlobStore) Size(ctx context.Context, key string) (int64, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, pkgminio.StatObjectOptions{})
	if err != nil {
		if pkgminio.IsNotFound(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to stat object: %w", err)
	}

	return info.Size, nil
}

// Remove 删除对象，对象不存在时视为成功
func (s *MinIOBlobStore) Remove(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, key, pkgminio.RemoveObjectOptions{})
	if err != nil {
		if pkgminio.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to remove object: %w", err)
	}

	return nil
}
