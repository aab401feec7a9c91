package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"Warbler/api/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrDisabled = errors.New("image storage is not configured")

// ImageStore saves uploaded images and returns their public URL.
type ImageStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// ObjectPutter is the part of the S3 client the store uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Store struct {
	client        ObjectPutter
	bucket        string
	region        string
	prefix        string
	publicBaseURL string
}

// NewS3Store loads the default AWS credential chain for cfg.Region.
func NewS3Store(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	bucket := strings.SplitN(cfg.Bucket, "/", 2)[0]
	if bucket == "" {
		return nil, ErrDisabled
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("aws configuration error: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})

	return NewS3StoreWithClient(client, cfg), nil
}

func NewS3StoreWithClient(client ObjectPutter, cfg config.StorageConfig) *S3Store {
	return &S3Store{
		client:        client,
		bucket:        strings.SplitN(cfg.Bucket, "/", 2)[0],
		region:        cfg.Region,
		prefix:        strings.Trim(cfg.Prefix, "/"),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if s.prefix != "" {
		key = s.prefix + "/" + key
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload failed: %w", err)
	}

	return s.URL(key), nil
}

// URL is the public address of key.
func (s *S3Store) URL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
