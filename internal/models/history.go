package models

import (
	"time"

	"github.com/google/uuid"
)

// DownloadRecord is the persisted outcome of one download attempt.
type DownloadRecord struct {
	RecordID   uuid.UUID `json:"record_id" db:"record_id" validate:"omitempty"`
	VideoID    string    `json:"video_id" db:"video_id" validate:"required,lte=255"`
	Title      string    `json:"title" db:"title" validate:"omitempty,lte=512"`
	SourceURL  string    `json:"source_url" db:"source_url" validate:"required,lte=2048"`
	FilePath   string    `json:"file_path" db:"file_path" validate:"omitempty,lte=1024"`
	S3Key      string    `json:"s3_key,omitempty" db:"s3_key" validate:"omitempty,lte=1024"`
	S3Bucket   string    `json:"s3_bucket,omitempty" db:"s3_bucket" validate:"omitempty,lte=255"`
	Status     JobStatus `json:"status" db:"status" validate:"required"`
	Error      string    `json:"error,omitempty" db:"error" validate:"omitempty"`
	FinishedAt time.Time `json:"finished_at" db:"finished_at" validate:"omitempty"`

	// Presigned GET URL for the archived copy, filled at read time when the
	// archive is enabled. Never persisted.
	ArchiveURL string `json:"archive_url,omitempty" db:"-"`
}

type DownloadList struct {
	Records    []*DownloadRecord `json:"records"`
	TotalCount int               `json:"total_count"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	HasMore    bool              `json:"has_more"`
}
