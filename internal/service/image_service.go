package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	appconfig "github.com/TavolaHQ/tavola_api/internal/config"
)

// ImageService stores gallery images in S3. When credentials are not
// configured (local development) uploads are skipped and only the would-be
// object URL is returned, so the rest of the pipeline keeps working.
type ImageService struct {
	client     *s3.Client
	bucket     string
	region     string
	endpoint   string
	configured bool
}

// NewImageService creates a new ImageService from config.
func NewImageService(cfg *appconfig.S3Config) (*ImageService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("S3 config is nil")
	}

	svc := &ImageService{
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: cfg.Endpoint,
	}

	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		log.Warn().Msg("S3 credentials not configured - gallery uploads will be skipped")
		return svc, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	svc.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	svc.configured = true
	return svc, nil
}

// Upload writes an object and returns its public URL.
func (s *ImageService) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if !s.configured {
		log.Warn().Str("key", key).Msg("S3 not configured - skipping upload")
		return s.ObjectURL(key), nil
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload to S3")
		return "", fmt.Errorf("upload object: %w", err)
	}

	log.Info().Str("key", key).Msg("Uploaded to S3")
	return s.ObjectURL(key), nil
}

// Delete removes an object. Deleting an absent object is not an error.
func (s *ImageService) Delete(ctx context.Context, key string) error {
	if !s.configured {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// ObjectURL returns the public URL for an object key.
func (s *ImageService) ObjectURL(key string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(s.endpoint, "/"), s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
