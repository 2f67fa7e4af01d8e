package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/XdebronneX/backend-TeamPOOR/models"
)

// ImageStorage persists uploaded images and returns their public
// location. Payloads arrive as base64 data URIs from the frontend.
type ImageStorage interface {
	Upload(ctx context.Context, payload, folder string) (models.Image, error)
	Delete(ctx context.Context, publicID string) error
}

// S3ImageStorage stores images in an S3 bucket keyed by
// "<folder>/<uuid>".
type S3ImageStorage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewS3ImageStorage(ctx context.Context) (*S3ImageStorage, error) {
	bucket := os.Getenv("AWS_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET not set")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if key := os.Getenv("AWS_S3_ACCESS_KEY"); key != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, os.Getenv("AWS_S3_SECRET_KEY"), "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	// LocalStack support for development environments.
	var optFns []func(*s3.Options)
	if endpoint := os.Getenv("AWS_S3_ENDPOINT"); endpoint != "" {
		optFns = append(optFns, func(o *s3.Options) {
			o.BaseEndpoint = sdkaws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	publicURL := os.Getenv("AWS_S3_PUBLIC_URL")
	if publicURL == "" {
		region := cfg.Region
		if region == "" {
			region = os.Getenv("AWS_REGION")
		}
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &S3ImageStorage{
		client:    s3.NewFromConfig(cfg, optFns...),
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload decodes a base64 data URI and writes it under the given
// folder. The returned PublicID is the object key usable with Delete.
func (s *S3ImageStorage) Upload(ctx context.Context, payload, folder string) (models.Image, error) {
	contentType, data, err := decodeDataURI(payload)
	if err != nil {
		return models.Image{}, err
	}

	key := fmt.Sprintf("%s/%s", folder, uuid.NewString())
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      sdkaws.String(s.bucket),
		Key:         sdkaws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: sdkaws.String(contentType),
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("failed to upload image: %w", err)
	}

	return models.Image{
		PublicID: key,
		URL:      fmt.Sprintf("%s/%s", s.publicURL, key),
	}, nil
}

func (s *S3ImageStorage) Delete(ctx context.Context, publicID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: sdkaws.String(s.bucket),
		Key:    sdkaws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// decodeDataURI splits "data:<type>;base64,<payload>" into its content
// type and raw bytes. A bare base64 string is treated as image/jpeg.
func decodeDataURI(payload string) (string, []byte, error) {
	contentType := "image/jpeg"
	encoded := payload
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return "", nil, fmt.Errorf("malformed image payload")
		}
		meta := strings.TrimPrefix(parts[0], "data:")
		contentType = strings.TrimSuffix(strings.SplitN(meta, ";", 2)[0], ";")
		encoded = parts[1]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, fmt.Errorf("invalid image payload: %w", err)
	}
	return contentType, data, nil
}
