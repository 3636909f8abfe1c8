package minio

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Client wraps the MinIO client with additional functionality
type Client struct {
	client *minio.Client
	config *Config
	logger *zap.Logger
	mu     sync.RWMutex
	closed bool
}

// NewClient creates a new MinIO client
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if cfg == nil {
		return nil, ErrInvalidArgument
	}

	if err := cfg.Validate(); err != nil {
		return nil, WrapErrorWithMessage("NewClient", err, "invalid configuration")
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	}
	if cfg.Region != "" {
		opts.Region = cfg.Region
	}

	minioClient, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, WrapErrorWithMessage("NewClient", err, "failed to create minio client")
	}

	if cfg.TraceEnabled {
		minioClient.TraceOn(os.Stderr)
	}

	client := &Client{
		client: minioClient,
		config: cfg,
		logger: logger,
	}

	if logger != nil {
		logger.Info("minio client initialized successfully",
			zap.String("endpoint", cfg.Endpoint),
			zap.String("region", cfg.Region),
			zap.Bool("use_ssl", cfg.UseSSL),
		)
	}

	return client, nil
}

// Ping checks if the MinIO server is accessible by listing buckets
func (c *Client) Ping(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrConnectionFailed
	}

	_, err := c.client.ListBuckets(ctx)
	if err != nil {
		return WrapErrorWithMessage("Ping", err, "failed to connect to minio server")
	}

	return nil
}

// EnsureBucket creates the bucket if it does not exist yet
func (c *Client) EnsureBucket(ctx context.Context, bucketName string) error {
	if err := c.checkClosed(); err != nil {
		return err
	}

	if bucketName == "" {
		return WrapError("EnsureBucket", ErrInvalidBucketName, bucketName, "")
	}

	exists, err := c.client.BucketExists(ctx, bucketName)
	if err != nil {
		return WrapError("EnsureBucket", err, bucketName, "")
	}
	if exists {
		return nil
	}

	if err := c.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
		return WrapError("EnsureBucket", err, bucketName, "")
	}

	if c.logger != nil {
		c.logger.Info("bucket created successfully", zap.String("bucket", bucketName))
	}

	return nil
}

// Close closes the client and releases resources
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true

	if c.logger != nil {
		c.logger.Info("minio client closed")
	}

	return nil
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// checkClosed returns an error if the client is closed
func (c *Client) checkClosed() error {
	if c.IsClosed() {
		return fmt.Errorf("minio: client is closed")
	}
	return nil
}
