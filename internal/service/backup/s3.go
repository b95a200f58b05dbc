package backup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds the S3 connection parameters. Credentials come from the
// default AWS chain (environment, shared config, instance role).
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, e.g. MinIO
	PathStyle bool
	Prefix    string
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads exported camera configurations to a bucket.
type S3Store struct {
	client putObjectAPI
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Store creates a store from cfg.
func NewS3Store(ctx context.Context, cfg Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "camera-config/"
	}
	return &S3Store{client: client, bucket: cfg.Bucket, prefix: prefix, now: time.Now}, nil
}

// Upload stores data under <prefix><timestamp>-<name> and returns the key.
func (s *S3Store) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := fmt.Sprintf("%s%s-%s", s.prefix, s.now().UTC().Format("20060102T150405Z"), name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to s3://%s: %w", key, s.bucket, err)
	}
	return key, nil
}
