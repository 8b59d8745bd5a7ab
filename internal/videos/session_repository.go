package videos

import (
	"context"
	"errors"

	"github.com/hassanbadawy/media-downloader/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrJobNotFound     = errors.New("job not found")
	ErrJobNotPending   = errors.New("job is not pending")
)

// SessionRepository holds the per-submission working state: the fetched
// video records and one job per video. Implementations return snapshot
// copies so callers never observe a job mid-transition.
type SessionRepository interface {
	Create(ctx context.Context, sourceURL string, isPlaylist bool, videos []*models.VideoRecord, fetchError string) (*models.Session, error)
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	GetJob(ctx context.Context, sessionID, videoID string) (*models.DownloadJob, error)
	MarkProcessing(ctx context.Context, sessionID, videoID string) (*models.DownloadJob, error)
	Complete(ctx context.Context, sessionID, videoID, filePath string) error
	Fail(ctx context.Context, sessionID, videoID, reason string) error
	ResetAll(ctx context.Context) error
}
