package ingestion

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jonathan/careergate/internal/types"
)

// MaxResumeBytes caps resume downloads.
const MaxResumeBytes = 10 << 20

// ResumeSource produces the plain text of a candidate's resume.
type ResumeSource interface {
	ResumeText(ctx context.Context, ref types.ResumeRef) (string, error)
}

// ObjectGetter is the subset of the S3 client used for downloads.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Config configures an S3-compatible resume bucket (AWS, R2, MinIO).
type S3Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// S3ResumeSource reads resumes from an S3-compatible bucket.
type S3ResumeSource struct {
	client ObjectGetter
	bucket string
}

// NewS3ResumeSource builds an S3 client from cfg. Static credentials are used
// when both keys are set, otherwise the default AWS credential chain applies.
func NewS3ResumeSource(ctx context.Context, cfg S3Config) (*S3ResumeSource, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("resume bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3ResumeSourceWithClient(client, cfg.Bucket), nil
}

// NewS3ResumeSourceWithClient wraps an existing client.
func NewS3ResumeSourceWithClient(client ObjectGetter, bucket string) *S3ResumeSource {
	return &S3ResumeSource{client: client, bucket: bucket}
}

// ResumeText downloads ref.StoragePath and extracts its text.
func (s *S3ResumeSource) ResumeText(ctx context.Context, ref types.ResumeRef) (string, error) {
	if ref.StoragePath == "" {
		return "", fmt.Errorf("resume has no storage path")
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref.StoragePath),
	})
	if err != nil {
		return "", fmt.Errorf("failed to download resume %q: %w", ref.StoragePath, err)
	}
	defer func() { _ = out.Body.Close() }()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(out.Body, MaxResumeBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read resume body: %w", err)
	}
	if n > MaxResumeBytes {
		return "", fmt.Errorf("resume exceeds %d bytes", MaxResumeBytes)
	}

	declared := ref.ContentType
	if declared == "" && out.ContentType != nil {
		declared = *out.ContentType
	}
	return ExtractText(DetectContentType(declared, ref.StoragePath), buf.Bytes())
}

// StaticResumeSource serves text held in memory, keyed by storage path.
// It backs local development when no bucket is configured.
type StaticResumeSource map[string]string

// ResumeText returns the stored text for ref.StoragePath.
func (s StaticResumeSource) ResumeText(_ context.Context, ref types.ResumeRef) (string, error) {
	text, ok := s[ref.StoragePath]
	if !ok {
		return "", fmt.Errorf("resume %q not found", ref.StoragePath)
	}
	return CleanText(text), nil
}
