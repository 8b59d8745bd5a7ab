package videos

import (
	"context"

	"github.com/hassanbadawy/media-downloader/internal/models"
	"github.com/hassanbadawy/media-downloader/pkg/utils"
)

type Repository interface {
	CreateRecord(ctx context.Context, record *models.DownloadRecord) (*models.DownloadRecord, error)
	GetRecords(ctx context.Context, pq *utils.Pagination) (*models.DownloadList, error)
}
