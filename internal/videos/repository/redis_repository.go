package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hassanbadawy/media-downloader/internal/models"
	"github.com/hassanbadawy/media-downloader/internal/videos"
)

const dequeueBlockTimeout = 5 * time.Second

type jobRedisRepo struct {
	redisClient *redis.Client
}

func NewJobRedisRepo(redisClient *redis.Client) videos.RedisRepository {
	return &jobRedisRepo{
		redisClient: redisClient,
	}
}

func (r *jobRedisRepo) EnqueueJob(ctx context.Context, key string, job *models.DownloadJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return r.redisClient.LPush(ctx, key, data).Err()
}

// DequeueJob blocks until a job is available or the poll window lapses, in
// which case it returns nil, nil so the worker loop can check for shutdown.
func (r *jobRedisRepo) DequeueJob(ctx context.Context, key string) (*models.DownloadJob, error) {
	res, err := r.redisClient.BLPop(ctx, dequeueBlockTimeout, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue job: %w", err)
	}
	// BLPop returns the key name followed by the value.
	if len(res) < 2 {
		return nil, fmt.Errorf("unexpected blpop reply of length %d", len(res))
	}

	job := &models.DownloadJob{}
	if err := json.Unmarshal([]byte(res[1]), job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	return job, nil
}

func (r *jobRedisRepo) QueueLength(ctx context.Context, key string) (int64, error) {
	length, err := r.redisClient.LLen(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue length: %w", err)
	}
	return length, nil
}
