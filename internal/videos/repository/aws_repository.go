package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hassanbadawy/media-downloader/internal/videos"
)

type awsRepository struct {
	client        *s3.Client
	preSignClient *s3.PresignClient
}

func NewAwsRepository(awsClient *s3.Client, preSignClient *s3.PresignClient) videos.AWSRepository {
	return &awsRepository{
		client:        awsClient,
		preSignClient: preSignClient,
	}
}

// PutFile archives a downloaded file. The caller keeps the local copy; the
// object key is the caller's concern.
func (a *awsRepository) PutFile(ctx context.Context, bucket, key, filePath string) (*s3.PutObjectOutput, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filePath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	size := info.Size()

	res, err := a.client.PutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket:        &bucket,
			Key:           &key,
			Body:          file,
			ContentLength: &size,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return res, nil
}

func (a *awsRepository) GetPresignedURL(ctx context.Context, bucket, key string, lifetime time.Duration) (string, error) {
	req, err := a.preSignClient.PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: &bucket,
			Key:    &key,
		},
		s3.WithPresignExpires(lifetime),
	)
	if err != nil {
		return "", fmt.Errorf("failed to presign get object : %w", err)
	}
	return req.URL, nil
}

func (a *awsRepository) RemoveObject(ctx context.Context, bucket, key string) error {
	if _, err := a.client.DeleteObject(
		ctx,
		&s3.DeleteObjectInput{
			Bucket: &bucket,
			Key:    &key,
		},
	); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}
