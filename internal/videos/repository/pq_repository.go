package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hassanbadawy/media-downloader/internal/models"
	"github.com/hassanbadawy/media-downloader/internal/videos"
	"github.com/hassanbadawy/media-downloader/pkg/utils"
)

type historyRepo struct {
	db *sqlx.DB
}

func NewHistoryRepo(db *sqlx.DB) videos.Repository {
	return &historyRepo{
		db: db,
	}
}

func (h *historyRepo) CreateRecord(ctx context.Context, record *models.DownloadRecord) (*models.DownloadRecord, error) {
	created := &models.DownloadRecord{}
	if err := h.db.QueryRowxContext(
		ctx,
		createRecordQuery,
		record.VideoID,
		record.Title,
		record.SourceURL,
		record.FilePath,
		record.S3Key,
		record.S3Bucket,
		record.Status,
		record.Error,
		record.FinishedAt,
	).StructScan(created); err != nil {
		return nil, fmt.Errorf("failed to create download record: %w", err)
	}
	return created, nil
}

func (h *historyRepo) GetRecords(ctx context.Context, pq *utils.Pagination) (*models.DownloadList, error) {
	var totalCount int
	if err := h.db.GetContext(ctx, &totalCount, getTotalRecordsQuery); err != nil {
		return nil, fmt.Errorf("failed to get download records count: %w", err)
	}
	if totalCount == 0 {
		return &models.DownloadList{
			Records:    make([]*models.DownloadRecord, 0),
			TotalCount: 0,
			Page:       pq.GetPage(),
			PageSize:   pq.GetSize(),
			HasMore:    false,
		}, nil
	}

	rows, err := h.db.QueryxContext(
		ctx,
		getRecordsQuery,
		pq.GetOffset(),
		pq.GetLimit(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get download records: %w", err)
	}
	defer rows.Close()

	records := make([]*models.DownloadRecord, 0, pq.GetSize())
	for rows.Next() {
		var record models.DownloadRecord
		if err = rows.StructScan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan download record: %w", err)
		}
		records = append(records, &record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan download records: %w", err)
	}

	return &models.DownloadList{
		Records:    records,
		TotalCount: totalCount,
		Page:       pq.GetPage(),
		PageSize:   pq.GetSize(),
		HasMore:    utils.GetHasMore(pq.GetPage(), totalCount, pq.GetSize()),
	}, nil
}
