package minio

import (
	"Foryou/internal/api/config"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLResolver_PublicLink(t *testing.T) {
	r, err := NewURLResolver(config.MinIOConfig{
		ExternalEndpoint: "cdn.example.com/",
		MainBucket:       "videos",
		UsePublicLink:    true,
	})
	require.NoError(t, err)

	ctx := context.Background()
	assert.Equal(t, "https://cdn.example.com/videos/a/b.mp4", r.Resolve(ctx, "a/b.mp4"))
	assert.Equal(t, "https://cdn.example.com/videos/a/b.mp4", r.Resolve(ctx, "/a/b.mp4"))
	assert.Equal(t, "https://other.example.com/x.jpg", r.Resolve(ctx, "https://other.example.com/x.jpg"))
	assert.Empty(t, r.Resolve(ctx, ""))
}

func TestURLResolver_Presigned(t *testing.T) {
	r, err := NewURLResolver(config.MinIOConfig{
		ExternalEndpoint: "cdn.example.com",
		MainBucket:       "videos",
		AccessKey:        "ak",
		SecretKey:        "sk",
		Region:           "us-east-1",
		PresignExpiry:    600,
	})
	require.NoError(t, err)

	got := r.Resolve(context.Background(), "a/b.mp4")
	assert.True(t, strings.HasPrefix(got, "https://cdn.example.com/videos/a/b.mp4?"), got)
	assert.Contains(t, got, "X-Amz-Signature=")
	assert.Contains(t, got, "X-Amz-Expires=600")
}

func TestNewURLResolver_RequiresEndpoint(t *testing.T) {
	_, err := NewURLResolver(config.MinIOConfig{MainBucket: "videos"})
	assert.Error(t, err)
}
