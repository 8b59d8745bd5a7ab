package models

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further transitions are allowed short of a
// full session reset.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// DownloadJob tracks one video's download through the queue and the worker.
// FilePath is set on completion, Error on failure; the two are exclusive.
type DownloadJob struct {
	JobID         string    `json:"job_id" redis:"job_id" validate:"omitempty"`
	SessionID     string    `json:"session_id" redis:"session_id" validate:"required"`
	VideoID       string    `json:"video_id" redis:"video_id" validate:"required"`
	URL           string    `json:"url" redis:"url" validate:"required"`
	OrderingIndex int       `json:"ordering_index,omitempty" redis:"ordering_index"`
	Status        JobStatus `json:"status" redis:"status"`
	FilePath      string    `json:"file_path,omitempty" redis:"file_path"`
	Error         string    `json:"error,omitempty" redis:"error"`
	EnqueuedAt    time.Time `json:"enqueued_at,omitempty" redis:"enqueued_at"`
	StartedAt     time.Time `json:"started_at,omitempty" redis:"started_at"`
	FinishedAt    time.Time `json:"finished_at,omitempty" redis:"finished_at"`
}
