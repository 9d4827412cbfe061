package minio

import (
	"Foryou/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Init 初始化对象存储地址解析器
// 公开链接模式下不需要访问 MinIO，签名模式会检查主存储桶是否存在
func Init(cfg config.MinIOConfig) (*URLResolver, error) {
	resolver, err := NewURLResolver(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.UsePublicLink {
		log.Info("MinIO resolver uses public links", "endpoint", cfg.ExternalEndpoint, "bucket", cfg.MainBucket)
		return resolver, nil
	}

	endpoint, useSSL := cfg.ExternalEndpoint, true
	if cfg.InternalEndpoint != "" {
		endpoint, useSSL = cfg.InternalEndpoint, cfg.InternalUseSSL
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.MainBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("minio bucket %q not found", cfg.MainBucket)
	}

	log.Info("MinIO resolver uses presigned links", "endpoint", cfg.ExternalEndpoint, "bucket", cfg.MainBucket)
	return resolver, nil
}
