package videos

import (
	"context"

	"github.com/hassanbadawy/media-downloader/internal/models"
)

type RedisRepository interface {
	EnqueueJob(ctx context.Context, key string, job *models.DownloadJob) error
	DequeueJob(ctx context.Context, key string) (*models.DownloadJob, error)
	QueueLength(ctx context.Context, key string) (int64, error)
}
