package imagestore

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/weathercloset/weathercloset/internal/conf"
	"github.com/weathercloset/weathercloset/internal/errors"
	"github.com/weathercloset/weathercloset/internal/logger"
)

// s3API is the subset of the S3 client used by S3Store.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store writes images to a bucket under a key prefix.
type S3Store struct {
	client s3API
	bucket string
	prefix string
}

// NewS3Store loads AWS credentials from the default chain and returns a
// store for the configured bucket.
func NewS3Store(ctx context.Context, settings conf.S3Settings) (*S3Store, error) {
	if settings.Bucket == "" {
		return nil, errors.Newf("s3 bucket is not configured").
			Component("imagestore").
			Category(errors.CategoryConfiguration).
			Build()
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(settings.Region))
	if err != nil {
		return nil, errors.New(err).
			Component("imagestore").
			Category(errors.CategoryConfiguration).
			Context("operation", "load_aws_config").
			Build()
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(settings.Endpoint)
			o.UsePathStyle = true
		}
	})

	getLogger().Info("using s3 image store",
		logger.String("bucket", settings.Bucket),
		logger.String("region", settings.Region))

	return newS3Store(client, settings.Bucket, settings.Prefix), nil
}

func newS3Store(client s3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return strings.TrimSuffix(s.prefix, "/") + "/" + name
}

// Save uploads body as the named object.
func (s *S3Store) Save(ctx context.Context, name, contentType string, body io.Reader) error {
	if err := validateName(name); err != nil {
		return err
	}
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return s.storageError(err, "put_object", name)
	}
	return nil
}

// Delete removes the named object.
func (s *S3Store) Delete(ctx context.Context, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	if err != nil {
		return s.storageError(err, "delete_object", name)
	}
	return nil
}

func (s *S3Store) storageError(err error, op, name string) error {
	return errors.New(err).
		Component("imagestore").
		Category(errors.CategoryStorage).
		Context("operation", op).
		Context("bucket", s.bucket).
		Context("key", s.key(name)).
		Build()
}
