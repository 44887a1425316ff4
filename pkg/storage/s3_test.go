package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		bucket string
		key    string
		want   string
	}{
		{"cdn", "https://cdn.example.com", "photos", "avatars/u-1/a.jpg", "https://cdn.example.com/avatars/u-1/a.jpg"},
		{"bucket fallback", "", "photos", "avatars/u-1/a.jpg", "https://photos.s3.amazonaws.com/avatars/u-1/a.jpg"},
		{"escapes spaces", "https://cdn.example.com", "photos", "avatars/u 1/a.jpg", "https://cdn.example.com/avatars/u%201/a.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicURL(tt.base, tt.bucket, tt.key))
		})
	}
}

func TestNewS3Client(t *testing.T) {
	_, err := NewS3Client(S3Config{Region: "us-east-1"})
	assert.Error(t, err, "bucket is required")

	c, err := NewS3Client(S3Config{
		Endpoint:       "http://localhost:9000",
		Region:         "us-east-1",
		Bucket:         "photos",
		PublicURL:      "https://cdn.example.com/",
		BasePath:       "uploads/",
		ForcePathStyle: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/a.png", c.URL("uploads/a.png"))
}
