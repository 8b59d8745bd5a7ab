package worker

import (
	"context"
	"sync"
	"time"

	"github.com/hassanbadawy/media-downloader/internal/config"
	"github.com/hassanbadawy/media-downloader/internal/videos"
	"github.com/hassanbadawy/media-downloader/pkg/logger"
	"github.com/hassanbadawy/media-downloader/pkg/utils"
)

const cpuBackoff = 5 * time.Second

// Worker drains the download queue. Jobs are claimed by the API before they
// are enqueued, so the pool's only transitions are processing to completed
// or failed.
type Worker struct {
	cfg         *config.Config
	logger      logger.Logger
	client      videos.MediaClient
	sessionRepo videos.SessionRepository
	redisRepo   videos.RedisRepository
	historyRepo videos.Repository
	awsRepo     videos.AWSRepository
	wg          sync.WaitGroup
}

func NewWorker(
	cfg *config.Config,
	log logger.Logger,
	client videos.MediaClient,
	sessionRepo videos.SessionRepository,
	redisRepo videos.RedisRepository,
	historyRepo videos.Repository,
	awsRepo videos.AWSRepository,
) *Worker {
	return &Worker{
		cfg:         cfg,
		logger:      log,
		client:      client,
		sessionRepo: sessionRepo,
		redisRepo:   redisRepo,
		historyRepo: historyRepo,
		awsRepo:     awsRepo,
	}
}

func (w *Worker) Start(ctx context.Context) {
	count := w.cfg.Worker.WorkerCount
	if count <= 0 {
		count = 1
	}
	w.logger.Infof("starting %d download workers", count)
	for i := 0; i < count; i++ {
		w.wg.Add(1)
		go w.loop(ctx, i)
	}
}

func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) loop(ctx context.Context, id int) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("worker %d stopping", id)
			return
		default:
		}

		if w.cfg.Worker.MaxCPUUsage > 0 {
			if ok, usage := utils.CheckCPUUsage(w.cfg.Worker.MaxCPUUsage); !ok {
				w.logger.Warnf("worker %d backing off, cpu at %.1f%%", id, usage)
				select {
				case <-ctx.Done():
					return
				case <-time.After(cpuBackoff):
				}
				continue
			}
		}

		job, err := w.redisRepo.DequeueJob(ctx, w.cfg.Redis.JobQueueKey)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Errorf("worker %d dequeue error: %v", id, err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		if job == nil {
			continue
		}

		w.ProcessJob(ctx, job)
	}
}
