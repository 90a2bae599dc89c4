package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/hashicorp/go-multierror"

	"github.com/lakestream-io/prefixbatch/pkg/logging"
)

// maxDeleteBatch is the S3 DeleteObjects per-request key limit.
const maxDeleteBatch = 1000

// defaultPageSize matches the S3 listing default.
const defaultPageSize = 1000

// s3API captures the subset of the S3 client used here, so tests can
// substitute a mock.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Client implements ObjectClient on top of the AWS S3 SDK.
type S3Client struct {
	client s3API
	logger logging.Interface
	config *S3Config
}

// S3Config represents S3 client configuration
type S3Config struct {
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	ForcePathStyle  bool   `mapstructure:"force_path_style"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PageSize        int    `mapstructure:"page_size"`
}

// DefaultS3Config returns default S3 client configuration
func DefaultS3Config() *S3Config {
	return &S3Config{
		PageSize: defaultPageSize,
	}
}

// NewS3Client creates a new S3-backed object client. Static credentials
// are used when configured, otherwise the default AWS credential chain.
func NewS3Client(ctx context.Context, cfg *S3Config, logger logging.Interface) (*S3Client, error) {
	if cfg == nil {
		cfg = DefaultS3Config()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return &S3Client{
		client: client,
		logger: logger,
		config: cfg,
	}, nil
}

// Get fetches the full object body.
func (c *S3Client) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	resp, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, NewError("get", bucket+"/"+key, classifyAPIError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewError("get", bucket+"/"+key, err)
	}

	return body, nil
}

// Put stores body at key.
func (c *S3Client) Put(ctx context.Context, bucket, key string, body []byte) error {
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return NewError("put", bucket+"/"+key, classifyAPIError(err))
	}
	return nil
}

// Copy copies an object within or across buckets.
func (c *S3Client) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	copySource := fmt.Sprintf("%s/%s", srcBucket, srcKey)

	_, err := c.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(copySource),
	})
	if err != nil {
		return NewError("copy", copySource, classifyAPIError(err))
	}
	return nil
}

// Delete removes a single object.
func (c *S3Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return NewError("delete", bucket+"/"+key, classifyAPIError(err))
	}
	return nil
}

// DeleteMany removes the given keys using the batch delete API, in
// chunks of up to 1000 keys. Per-key failures reported by the store are
// aggregated into a single error.
func (c *S3Client) DeleteMany(ctx context.Context, bucket string, keys []string) error {
	var result *multierror.Error

	for start := 0; start < len(keys); start += maxDeleteBatch {
		end := start + maxDeleteBatch
		if end > len(keys) {
			end = len(keys)
		}

		objects := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			objects = append(objects, types.ObjectIdentifier{Key: aws.String(key)})
		}

		resp, err := c.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &types.Delete{
				Objects: objects,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return NewError("delete-many", bucket, classifyAPIError(err))
		}

		for _, keyErr := range resp.Errors {
			result = multierror.Append(result, NewError("delete-many",
				bucket+"/"+aws.ToString(keyErr.Key),
				fmt.Errorf("%s: %s", aws.ToString(keyErr.Code), aws.ToString(keyErr.Message))))
		}
	}

	return result.ErrorOrNil()
}

// ListPage returns one page of keys under prefix, starting strictly
// after marker. An empty page signals the end of the listing.
func (c *S3Client) ListPage(ctx context.Context, bucket, prefix, marker string) ([]string, error) {
	input := &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		MaxKeys: aws.Int32(int32(c.config.PageSize)),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}
	if marker != "" {
		input.StartAfter = aws.String(marker)
	}

	resp, err := c.client.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, NewError("list", bucket+"/"+prefix, classifyAPIError(err))
	}

	keys := make([]string, 0, len(resp.Contents))
	for _, obj := range resp.Contents {
		keys = append(keys, aws.ToString(obj.Key))
	}

	return keys, nil
}

// classifyAPIError maps store API errors onto the package sentinels so
// callers can test with errors.Is. Unrecognized errors pass through.
func classifyAPIError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.ErrorCode() {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return fmt.Errorf("%w: %s", ErrNotFound, apiErr.ErrorMessage())
	case "AccessDenied":
		return fmt.Errorf("%w: %s", ErrAccessDenied, apiErr.ErrorMessage())
	}

	return err
}
