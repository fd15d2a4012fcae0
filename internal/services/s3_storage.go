package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"alfredoptarigan/interview-coach/internal/config"
	"alfredoptarigan/interview-coach/internal/models"
	"alfredoptarigan/interview-coach/internal/observability"
)

// ObjectPutter is the subset of the S3 client the recording store uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3RecordingStore struct {
	client ObjectPutter
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Client builds an S3 client for cfg. A custom endpoint enables
// S3-compatible stores such as R2 or MinIO.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func NewS3RecordingStore(client ObjectPutter, bucket string) RecordingStore {
	return &s3RecordingStore{
		client: client,
		bucket: bucket,
		prefix: "recordings/",
		now:    time.Now,
	}
}

func (s *s3RecordingStore) Backend() string {
	return config.StorageS3
}

// Save implements RecordingStore.
func (s *s3RecordingStore) Save(ctx context.Context, upload models.RecordingUpload) (*models.Recording, error) {
	body, contentType, err := detectContentType(upload.Body, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}

	id := uuid.New().String()
	storedName := StoredRecordingName(id, upload.OriginalName)
	key := s.prefix + storedName

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"original-name": upload.OriginalName,
			"recording-id":  id,
		},
	}
	if upload.Size > 0 {
		input.ContentLength = aws.Int64(upload.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to upload recording: %w", err)
	}

	observability.RecordingsSavedTotal.WithLabelValues(s.Backend()).Inc()

	return &models.Recording{
		ID:           id,
		OriginalName: upload.OriginalName,
		StoredName:   storedName,
		ContentType:  contentType,
		Size:         upload.Size,
		Location:     fmt.Sprintf("s3://%s/%s", s.bucket, key),
		CreatedAt:    s.now(),
	}, nil
}
