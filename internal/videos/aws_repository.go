package videos

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type AWSRepository interface {
	PutFile(ctx context.Context, bucket, key, filePath string) (*s3.PutObjectOutput, error)
	GetPresignedURL(ctx context.Context, bucket, key string, lifetime time.Duration) (string, error)
	RemoveObject(ctx context.Context, bucket, key string) error
}
