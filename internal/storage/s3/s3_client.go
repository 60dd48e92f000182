// Package s3 implements port.ObjectStorage for invoice documents on S3 or any
// S3-compatible store (MinIO, localstack).
package s3

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"smartinvoice/internal/config"
	"smartinvoice/internal/port"
)

// documentStore is a single-bucket S3 store for uploaded invoice documents.
type documentStore struct {
	bucket    string
	client    *s3.Client
	presigner *s3.PresignClient
	uploader  *manager.Uploader
}

// NewS3Client creates the S3-backed ObjectStorage bound to cfg.Bucket. A
// custom endpoint switches on path-style addressing for MinIO and localstack.
func NewS3Client(cfg *config.S3Config) (port.ObjectStorage, error) {
	awsCfg, err := loadAWSConfig(cfg)
	if err != nil {
		return nil, err
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &documentStore{
		bucket:    cfg.Bucket,
		client:    client,
		presigner: s3.NewPresignClient(client),
		uploader:  manager.NewUploader(client),
	}, nil
}

func loadAWSConfig(cfg *config.S3Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading aws config: %w", err)
	}
	return awsCfg, nil
}

func (d *documentStore) Upload(ctx context.Context, upload port.DocumentUpload) (string, error) {
	result, err := d.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(upload.Key),
		Body:        upload.Body,
		ContentType: aws.String(upload.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("uploading document %s: %w", upload.Key, err)
	}
	return result.Location, nil
}

func (d *documentStore) Download(ctx context.Context, key string) ([]byte, error) {
	result, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("downloading document %s: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", key, err)
	}
	return data, nil
}

func (d *documentStore) Delete(ctx context.Context, key string) error {
	_, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting document %s: %w", key, err)
	}
	return nil
}

func (d *documentStore) PresignGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	result, err := d.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", fmt.Errorf("presigning document %s: %w", key, err)
	}
	return result.URL, nil
}
