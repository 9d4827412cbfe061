package minio

import (
	"Foryou/internal/api/config"
	"context"
	"fmt"
	log "log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultPresignExpiry = time.Hour

// URLResolver 把视频/封面的对象键转换为客户端可访问的外部地址
type URLResolver struct {
	endpoint   string
	bucket     string
	publicLink bool
	expiry     time.Duration
	// signer 指向外部域名，仅用于本地签名，不发起请求
	signer *minio.Client
}

func NewURLResolver(cfg config.MinIOConfig) (*URLResolver, error) {
	if cfg.ExternalEndpoint == "" {
		return nil, fmt.Errorf("minio external endpoint is empty")
	}
	expiry := time.Duration(cfg.PresignExpiry) * time.Second
	if expiry <= 0 {
		expiry = defaultPresignExpiry
	}

	s := &URLResolver{
		endpoint:   strings.TrimSuffix(cfg.ExternalEndpoint, "/"),
		bucket:     cfg.MainBucket,
		publicLink: cfg.UsePublicLink,
		expiry:     expiry,
	}
	if !cfg.UsePublicLink {
		// 显式设置 Region，避免签名前的桶区域查询
		signer, err := minio.New(s.endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: true,
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize minio signer: %w", err)
		}
		s.signer = signer
	}
	return s, nil
}

// Resolve 空键返回空串，已是绝对地址的原样返回
func (s *URLResolver) Resolve(ctx context.Context, key string) string {
	if key == "" {
		return ""
	}
	if strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return key
	}
	objectName := strings.TrimPrefix(key, "/")

	if s.publicLink || s.signer == nil {
		return s.publicURL(objectName)
	}

	u, err := s.signer.PresignedGetObject(ctx, s.bucket, objectName, s.expiry, url.Values{})
	if err != nil {
		log.WarnContext(ctx, "presign object failed, fallback to public link", "key", objectName, "err", err)
		return s.publicURL(objectName)
	}
	return u.String()
}

func (s *URLResolver) publicURL(objectName string) string {
	return fmt.Sprintf("https://%s/%s/%s", s.endpoint, s.bucket, objectName)
}
