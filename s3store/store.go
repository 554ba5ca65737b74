// Package s3store implements the remote asset store on S3-compatible object
// storage. It works against AWS S3 as well as MinIO-style deployments via a
// custom endpoint.
package s3store

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/libris-io/libris"
)

// Config holds object storage connection settings.
type Config struct {
	Region string `mapstructure:"region" validate:"required"`
	Bucket string `mapstructure:"bucket" validate:"required"`
	// Endpoint overrides the AWS endpoint for MinIO-compatible stores.
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	// BaseURL is the public prefix baked into durable references, e.g. a
	// CDN in front of the bucket. Defaults to the bucket's own address.
	BaseURL string `mapstructure:"base_url"`
}

// Store uploads and deletes book assets in one bucket. Failures are wrapped
// in libris.ErrStorage and never retried here; compensation policy belongs
// to the orchestrator.
type Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

// New builds a Store from config. Static credentials are used when provided;
// otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("new s3 store: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("new s3 store: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: cfg.resolveBaseURL(),
	}, nil
}

func (c Config) resolveBaseURL() string {
	if c.BaseURL != "" {
		return strings.TrimSuffix(c.BaseURL, "/")
	}
	if c.Endpoint != "" {
		return strings.TrimSuffix(c.Endpoint, "/") + "/" + c.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.Region)
}

// Upload stores the file at localPath under the spec's category and name
// and returns the durable reference URL for the object.
func (s *Store) Upload(ctx context.Context, localPath string, spec libris.UploadSpec) (string, error) {
	ref := libris.AssetRef{
		Category: spec.Category,
		Name:     spec.Name,
		Format:   spec.Format,
		Kind:     spec.Kind,
	}
	if err := ref.Validate(); err != nil {
		return "", fmt.Errorf("s3 upload to %s: %w", spec.Category, err)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("s3 upload to %s: open staged file: %w", spec.Category, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			slog.Warn("failed to close staged file", "path", localPath, "err", closeErr)
		}
	}()

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref.ObjectKey()),
		Body:   f,
	}
	if spec.ContentType != "" {
		input.ContentType = aws.String(spec.ContentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 upload %s to %s: %w: %w", spec.Name, spec.Category, libris.ErrStorage, err)
	}

	return ref.URL(s.baseURL), nil
}

// Delete removes the object a reference points at, deriving the object key
// via libris.ParseRef.
func (s *Store) Delete(ctx context.Context, ref string, kind libris.AssetKind) error {
	key, err := libris.ParseRef(ref, kind)
	if err != nil {
		return fmt.Errorf("s3 delete: %w: %w", libris.ErrStorage, err)
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s: %w: %w", key, libris.ErrStorage, err)
	}

	return nil
}
