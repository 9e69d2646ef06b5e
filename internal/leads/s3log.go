package leads

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3API is the subset of the S3 client the lead log uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Log mirrors sealed lead records into an S3 bucket, one object per
// record. If bucket is empty the log is disabled.
type S3Log struct {
	bucket   string
	s3Client S3API
}

// NewS3Log creates the S3 lead log.
func NewS3Log(s3Client S3API, bucket string) *S3Log {
	return &S3Log{bucket: bucket, s3Client: s3Client}
}

// Enabled reports whether the log is configured to write anywhere.
func (l *S3Log) Enabled() bool {
	return l != nil && l.bucket != "" && l.s3Client != nil
}

// Put stores one sealed record.
func (l *S3Log) Put(ctx context.Context, sealed string) error {
	if !l.Enabled() {
		return nil
	}

	now := time.Now().UTC()
	key := fmt.Sprintf("leads/v1/by-date/%d/%02d/%02d/%s.enc",
		now.Year(), now.Month(), now.Day(), uuid.NewString())

	_, err := l.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(l.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(sealed),
		ContentType: aws.String("text/plain"),
	})
	if err != nil {
		return fmt.Errorf("leads: s3 put %s: %w", key, err)
	}
	return nil
}
