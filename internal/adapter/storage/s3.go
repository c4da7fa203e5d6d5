package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3manager "github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/samber/lo"
	appconfig "github.com/semmidev/mongos3/internal/config"
	"github.com/semmidev/mongos3/internal/domain"
)

// DeleteObjects accepts at most this many keys per request.
const maxDeleteBatch = 1000

const delimiter = "/"

type S3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

type S3Storage struct {
	client   S3API
	uploader Uploader
	bucket   string
}

// NewS3 creates a new S3Storage instance using AWS SDK v2. A custom endpoint
// switches the client to path-style addressing for S3-compatible providers.
func NewS3(ctx context.Context, cfg *appconfig.Config) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.AWS.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWS.AccessKeyID, cfg.AWS.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.AWS.Endpoint != "" {
		endpoint := cfg.AWS.Endpoint
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, clientOpts...)

	return &S3Storage{
		client:   client,
		uploader: s3manager.NewUploader(client),
		bucket:   cfg.S3.Bucket,
	}, nil
}

func (s *S3Storage) Bucket() string {
	return s.bucket
}

// Upload uploads a local file to S3
func (s *S3Storage) Upload(ctx context.Context, in domain.UploadInput) error {
	file, err := os.Open(in.LocalPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	input := &s3.PutObjectInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(in.Key),
		Body:     file,
		Metadata: in.Metadata,
	}
	if in.ContentType != "" {
		input.ContentType = aws.String(in.ContentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return wrapS3Error("failed to upload "+in.Key, err)
	}

	return nil
}

// ListFolders returns the common prefixes one level below prefix, e.g.
// "backups/mongodb/shop-2024-01-01T00-00-00-000Z/".
func (s *S3Storage) ListFolders(ctx context.Context, prefix string) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String(delimiter),
	})

	var folders []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, wrapS3Error("failed to list S3 folders", err)
		}
		for _, p := range page.CommonPrefixes {
			folders = append(folders, aws.ToString(p.Prefix))
		}
	}

	return folders, nil
}

// ListObjects returns every object whose key starts with prefix.
func (s *S3Storage) ListObjects(ctx context.Context, prefix string) ([]domain.ObjectInfo, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	var objects []domain.ObjectInfo
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, wrapS3Error("failed to list S3 objects", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil {
				continue
			}
			objects = append(objects, domain.ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	return objects, nil
}

func (s *S3Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapS3Error("failed to get "+key, err)
	}
	return out.Body, nil
}

// Delete removes keys from S3 in batches.
func (s *S3Storage) Delete(ctx context.Context, keys []string) error {
	for _, batch := range lo.Chunk(keys, maxDeleteBatch) {
		objects := lo.Map(batch, func(key string, _ int) types.ObjectIdentifier {
			return types.ObjectIdentifier{Key: aws.String(key)}
		})

		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: objects, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return wrapS3Error("failed to delete from S3", err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return fmt.Errorf("failed to delete %s from S3: %s: %s (%d errors)",
				aws.ToString(first.Key), aws.ToString(first.Code), aws.ToString(first.Message), len(out.Errors))
		}
	}

	return nil
}

func wrapS3Error(msg string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: %s: %w", msg, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
