package worker

import (
	"context"
	"path/filepath"
	"time"

	"github.com/hassanbadawy/media-downloader/internal/models"
)

// ProcessJob runs one download end to end: invoke the tool, record the
// outcome in the session and append it to the history table. History and
// archive errors are logged but never fail the job; the download itself is
// the source of truth.
func (w *Worker) ProcessJob(ctx context.Context, job *models.DownloadJob) {
	current, err := w.sessionRepo.GetJob(ctx, job.SessionID, job.VideoID)
	if err != nil {
		w.logger.Warnf("dropping job %s, session state is gone: %v", job.JobID, err)
		return
	}
	if current.Status != models.JobStatusProcessing {
		// A reset raced the queue; the claim no longer stands.
		w.logger.Warnf("dropping job %s, status is %s", job.JobID, current.Status)
		return
	}

	w.logger.Infof("downloading video %s (job %s)", job.VideoID, job.JobID)
	path, err := w.client.Download(ctx, job.URL, w.cfg.Downloader.Dir(), job.OrderingIndex)
	if err != nil {
		w.logger.Errorf("download failed for job %s: %v", job.JobID, err)
		if failErr := w.sessionRepo.Fail(ctx, job.SessionID, job.VideoID, err.Error()); failErr != nil {
			w.logger.Errorf("fail transition error for job %s: %v", job.JobID, failErr)
		}
		w.recordHistory(ctx, job, "", err.Error())
		return
	}

	if err := w.sessionRepo.Complete(ctx, job.SessionID, job.VideoID, path); err != nil {
		w.logger.Errorf("complete transition error for job %s: %v", job.JobID, err)
		return
	}
	w.logger.Infof("completed job %s: %s", job.JobID, path)
	w.recordHistory(ctx, job, path, "")
}

func (w *Worker) recordHistory(ctx context.Context, job *models.DownloadJob, path, errMsg string) {
	if w.historyRepo == nil {
		return
	}

	status := models.JobStatusCompleted
	if errMsg != "" {
		status = models.JobStatusFailed
	}
	record := &models.DownloadRecord{
		VideoID:    job.VideoID,
		SourceURL:  job.URL,
		FilePath:   path,
		Status:     status,
		Error:      errMsg,
		FinishedAt: time.Now(),
	}
	if path != "" {
		record.Title = filepath.Base(path)
	}

	if path != "" && w.awsRepo != nil && w.cfg.S3.Enabled {
		key := filepath.Base(path)
		if _, err := w.awsRepo.PutFile(ctx, w.cfg.S3.ArchiveBucket, key, path); err != nil {
			w.logger.Errorf("archive upload failed for job %s: %v", job.JobID, err)
		} else {
			record.S3Key = key
			record.S3Bucket = w.cfg.S3.ArchiveBucket
		}
	}

	if _, err := w.historyRepo.CreateRecord(ctx, record); err != nil {
		w.logger.Errorf("history insert failed for job %s: %v", job.JobID, err)
	}
}
