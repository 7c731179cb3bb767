package integrations

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"townboard/backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client wraps the object storage bucket the service publishes to
// (sitemaps, exports). Works against AWS or any S3-compatible endpoint.
type S3Client struct {
	bucket         string
	endpoint       string
	publicEndpoint string
	client         *s3.Client
}

// NewS3 creates s3.
func NewS3(ctx context.Context, cfg config.S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	endpoint := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	publicEndpoint := normalizeEndpoint(cfg.PublicEndpoint, cfg.UseSSL)
	if publicEndpoint == "" {
		publicEndpoint = endpoint
	}

	options := s3.Options{
		Region:       region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if endpoint != "" {
		options.BaseEndpoint = aws.String(endpoint)
	}

	return &S3Client{
		bucket:         cfg.Bucket,
		endpoint:       endpoint,
		publicEndpoint: publicEndpoint,
		client:         s3.New(options),
	}, nil
}

// PutObject uploads body under the given stable key and returns the public
// URL it is reachable at.
func (s *S3Client) PutObject(ctx context.Context, key, contentType string, body []byte) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", err
	}
	return s.publicURLForKey(key), nil
}

// publicURLForKey handles public u r l for key.
func (s *S3Client) publicURLForKey(key string) string {
	if s.publicEndpoint == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	}

	endpoint := s.publicEndpoint
	if !strings.HasPrefix(endpoint, "http") {
		endpoint = "https://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Sprintf("%s/%s/%s", endpoint, s.bucket, key)
	}
	u.Path = path.Join(u.Path, s.bucket, key)
	return u.String()
}

// normalizeEndpoint normalizes endpoint.
func normalizeEndpoint(endpoint string, useSSL bool) string {
	if endpoint == "" {
		return ""
	}
	if strings.HasPrefix(endpoint, "http") {
		return endpoint
	}
	scheme := "https"
	if !useSSL {
		scheme = "http"
	}
	return scheme + "://" + endpoint
}
