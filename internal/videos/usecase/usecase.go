package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hassanbadawy/media-downloader/internal/config"
	"github.com/hassanbadawy/media-downloader/internal/models"
	"github.com/hassanbadawy/media-downloader/internal/videos"
	"github.com/hassanbadawy/media-downloader/internal/ytdlp"
	"github.com/hassanbadawy/media-downloader/pkg/logger"
	"github.com/hassanbadawy/media-downloader/pkg/utils"
)

// ErrFileNotReady marks a file request for a job that has not completed.
var ErrFileNotReady = errors.New("file not ready")

type videoUC struct {
	cfg         *config.Config
	client      videos.MediaClient
	sessionRepo videos.SessionRepository
	redisRepo   videos.RedisRepository
	historyRepo videos.Repository
	awsRepo     videos.AWSRepository
	logger      logger.Logger
}

func NewVideoUseCase(
	cfg *config.Config,
	client videos.MediaClient,
	sessionRepo videos.SessionRepository,
	redisRepo videos.RedisRepository,
	historyRepo videos.Repository,
	awsRepo videos.AWSRepository,
	log logger.Logger,
) videos.UseCase {
	return &videoUC{
		cfg:         cfg,
		client:      client,
		sessionRepo: sessionRepo,
		redisRepo:   redisRepo,
		historyRepo: historyRepo,
		awsRepo:     awsRepo,
		logger:      log,
	}
}

// FetchSource classifies the URL, fetches metadata and opens a session with
// one pending job per video. A failing playlist fetch still opens a session,
// just with no videos; a failing single-video fetch is an error because
// there is nothing to show.
func (v *videoUC) FetchSource(ctx context.Context, input *models.FetchInput) (*models.Session, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		return nil, fmt.Errorf("invalid input: %v", err)
	}

	isPlaylist := ytdlp.IsPlaylistURL(input.URL)

	var records []*models.VideoRecord
	var fetchDiag string
	if isPlaylist {
		var err error
		records, err = v.client.FetchPlaylist(ctx, input.URL)
		if err != nil {
			v.logger.Warnf("FetchSource - playlist fetch failed for %s: %v", input.URL, err)
			records = []*models.VideoRecord{}
			fetchDiag = err.Error()
		}
	} else {
		record, err := v.client.FetchSingle(ctx, input.URL)
		if err != nil {
			v.logger.Errorf("FetchSource - video fetch failed for %s: %v", input.URL, err)
			return nil, err
		}
		records = []*models.VideoRecord{record}
	}

	session, err := v.sessionRepo.Create(ctx, input.URL, isPlaylist, records, fetchDiag)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	v.logger.Infof("opened session %s with %d videos", session.SessionID, len(session.Videos))
	return session, nil
}

func (v *videoUC) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	return v.sessionRepo.Get(ctx, sessionID)
}

// TriggerDownload claims a pending job and hands it to the worker queue.
// Claiming before enqueueing makes double submissions fail fast instead of
// racing in the queue.
func (v *videoUC) TriggerDownload(ctx context.Context, sessionID, videoID string) (*models.DownloadJob, error) {
	job, err := v.sessionRepo.MarkProcessing(ctx, sessionID, videoID)
	if err != nil {
		return nil, err
	}

	if err := v.redisRepo.EnqueueJob(ctx, v.cfg.Redis.JobQueueKey, job); err != nil {
		v.logger.Errorf("TriggerDownload - enqueue failed for job %s: %v", job.JobID, err)
		if failErr := v.sessionRepo.Fail(ctx, sessionID, videoID, "failed to enqueue download"); failErr != nil {
			v.logger.Errorf("TriggerDownload - fail transition error: %v", failErr)
		}
		return nil, fmt.Errorf("failed to enqueue download: %w", err)
	}

	v.logger.Infof("enqueued job %s (session %s, video %s)", job.JobID, sessionID, videoID)
	return job, nil
}

// ResolveFile returns the path to serve for a completed job. A completed
// job whose file has vanished is flipped to failed when FailOnMissingFile
// is set, so the session view stops advertising a file that cannot be
// served.
func (v *videoUC) ResolveFile(ctx context.Context, sessionID, videoID string) (string, error) {
	job, err := v.sessionRepo.GetJob(ctx, sessionID, videoID)
	if err != nil {
		return "", err
	}
	if job.Status != models.JobStatusCompleted || job.FilePath == "" {
		return "", ErrFileNotReady
	}

	if _, err := os.Stat(job.FilePath); err != nil {
		v.logger.Warnf("ResolveFile - file missing for job %s: %s", job.JobID, job.FilePath)
		if v.cfg.Downloader.FailOnMissingFile {
			if failErr := v.sessionRepo.Fail(ctx, sessionID, videoID, "downloaded file is missing"); failErr != nil {
				v.logger.Errorf("ResolveFile - fail transition error: %v", failErr)
			}
		}
		return "", fmt.Errorf("downloaded file is missing: %w", ErrFileNotReady)
	}
	return job.FilePath, nil
}

// CleanDownloads removes regular files and symlinks from the download
// directory and resets every job to pending. Subdirectories are left alone.
// Returns how many entries were removed.
func (v *videoUC) CleanDownloads(ctx context.Context) (int, error) {
	dir := v.cfg.Downloader.Dir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, v.sessionRepo.ResetAll(ctx)
		}
		return 0, fmt.Errorf("failed to read download directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			v.logger.Errorf("CleanDownloads - failed to remove %s: %v", path, err)
			continue
		}
		removed++
	}

	if err := v.sessionRepo.ResetAll(ctx); err != nil {
		return removed, err
	}
	v.logger.Infof("cleaned %d downloaded files from %s", removed, dir)
	return removed, nil
}

const archiveURLLifetime = time.Hour

func (v *videoUC) GetHistory(ctx context.Context, pq *utils.Pagination) (*models.DownloadList, error) {
	list, err := v.historyRepo.GetRecords(ctx, pq)
	if err != nil {
		v.logger.Errorf("GetHistory - GetRecords error: %v", err)
		return nil, fmt.Errorf("failed to get download history: %w", err)
	}

	if v.cfg.S3.Enabled && v.awsRepo != nil {
		for _, record := range list.Records {
			if record.S3Key == "" {
				continue
			}
			url, err := v.awsRepo.GetPresignedURL(ctx, record.S3Bucket, record.S3Key, archiveURLLifetime)
			if err != nil {
				v.logger.Errorf("GetHistory - presign error for %s: %v", record.S3Key, err)
				continue
			}
			record.ArchiveURL = url
		}
	}
	return list, nil
}
