package repository

const (
	createRecordQuery = `INSERT INTO download_records (video_id, title, source_url, file_path, s3_key, s3_bucket, status, error, finished_at)
					VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''), $9)
					RETURNING record_id, video_id, title, source_url, file_path, COALESCE(s3_key, '') AS s3_key, COALESCE(s3_bucket, '') AS s3_bucket, status, COALESCE(error, '') AS error, finished_at`
	getRecordsQuery = `SELECT record_id, video_id, title, source_url, file_path, COALESCE(s3_key, '') AS s3_key, COALESCE(s3_bucket, '') AS s3_bucket, status, COALESCE(error, '') AS error, finished_at
					FROM download_records ORDER BY finished_at DESC OFFSET $1 LIMIT $2`
	getTotalRecordsQuery = `SELECT COUNT(record_id) FROM download_records`
)
