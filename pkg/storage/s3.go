package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/alumnet/alumnet-backend/pkg/logger"
)

// S3Client stores objects in S3-compatible storage (AWS, R2, MinIO)
type S3Client struct {
	client    *s3.Client
	bucket    string
	publicURL string // optional CDN or bucket website base URL
	basePath  string // prefix for all keys, e.g. "uploads/"
}

// S3Config connection settings for S3-compatible storage
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
	BasePath        string
	ForcePathStyle  bool // true for MinIO/R2
}

// NewS3Client creates a new S3-compatible storage client
func NewS3Client(cfg S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	logger.GetLogger().Info().
		Str("bucket", cfg.Bucket).
		Str("endpoint", cfg.Endpoint).
		Msg("S3 storage client initialized")

	return &S3Client{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		basePath:  cfg.BasePath,
	}, nil
}

// Upload writes body under key and returns the object's public URL
func (c *S3Client) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (string, error) {
	fullKey := c.basePath + key

	input := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(fullKey),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}
	if _, err := c.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}
	return c.URL(fullKey), nil
}

// Delete removes an object; key includes the base path
func (c *S3Client) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}
	if _, err := c.client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

// URL returns the public URL for key, preferring the configured public base
func (c *S3Client) URL(key string) string {
	return PublicURL(c.publicURL, c.bucket, key)
}

// PublicURL builds the URL an object is served from
func PublicURL(base, bucket, key string) string {
	escaped := (&url.URL{Path: key}).EscapedPath()
	if base != "" {
		return base + "/" + escaped
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, escaped)
}
