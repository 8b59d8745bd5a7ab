package videos

import (
	"context"

	"github.com/hassanbadawy/media-downloader/internal/models"
	"github.com/hassanbadawy/media-downloader/pkg/utils"
)

type UseCase interface {
	FetchSource(ctx context.Context, input *models.FetchInput) (*models.Session, error)
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	TriggerDownload(ctx context.Context, sessionID, videoID string) (*models.DownloadJob, error)
	ResolveFile(ctx context.Context, sessionID, videoID string) (string, error)
	CleanDownloads(ctx context.Context) (int, error)
	GetHistory(ctx context.Context, pq *utils.Pagination) (*models.DownloadList, error)
}
