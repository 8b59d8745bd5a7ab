package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hassanbadawy/media-downloader/internal/models"
	"github.com/hassanbadawy/media-downloader/internal/videos"
)

// Upper bound on retained sessions; the oldest are evicted first. Each URL
// submission opens a new session, so without a cap the map grows for the
// process lifetime.
const maxSessions = 100

// sessionRepo is the in-memory session store. State is scoped to this
// process; restarting the server discards it, which is acceptable because
// files on disk outlive it and the history table records outcomes.
type sessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	// Session ids in creation order, oldest first.
	order []string
}

func NewSessionRepo() videos.SessionRepository {
	return &sessionRepo{
		sessions: make(map[string]*models.Session),
	}
}

func (r *sessionRepo) Create(ctx context.Context, sourceURL string, isPlaylist bool, records []*models.VideoRecord, fetchError string) (*models.Session, error) {
	session := &models.Session{
		SessionID:  uuid.New().String(),
		SourceURL:  sourceURL,
		IsPlaylist: isPlaylist,
		Videos:     records,
		Jobs:       make(map[string]*models.DownloadJob, len(records)),
		FetchError: fetchError,
		CreatedAt:  time.Now(),
	}
	for _, record := range records {
		session.Jobs[record.ID] = &models.DownloadJob{
			JobID:         uuid.New().String(),
			SessionID:     session.SessionID,
			VideoID:       record.ID,
			URL:           record.URL,
			OrderingIndex: record.PlaylistIndex,
			Status:        models.JobStatusPending,
		}
	}

	r.mu.Lock()
	r.sessions[session.SessionID] = session
	r.order = append(r.order, session.SessionID)
	for len(r.order) > maxSessions {
		delete(r.sessions, r.order[0])
		r.order = r.order[1:]
	}
	r.mu.Unlock()

	return copySession(session), nil
}

func (r *sessionRepo) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, videos.ErrSessionNotFound
	}
	return copySession(session), nil
}

func (r *sessionRepo) GetJob(ctx context.Context, sessionID, videoID string) (*models.DownloadJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, err := r.job(sessionID, videoID)
	if err != nil {
		return nil, err
	}
	return copyJob(job), nil
}

// MarkProcessing transitions a job from pending to processing. Any other
// starting state is rejected so a job can never be picked up twice.
func (r *sessionRepo) MarkProcessing(ctx context.Context, sessionID, videoID string) (*models.DownloadJob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, err := r.job(sessionID, videoID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusPending {
		return nil, videos.ErrJobNotPending
	}
	now := time.Now()
	job.Status = models.JobStatusProcessing
	job.EnqueuedAt = now
	job.StartedAt = now
	return copyJob(job), nil
}

func (r *sessionRepo) Complete(ctx context.Context, sessionID, videoID, filePath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, err := r.job(sessionID, videoID)
	if err != nil {
		return err
	}
	job.Status = models.JobStatusCompleted
	job.FilePath = filePath
	job.Error = ""
	job.FinishedAt = time.Now()
	return nil
}

func (r *sessionRepo) Fail(ctx context.Context, sessionID, videoID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, err := r.job(sessionID, videoID)
	if err != nil {
		return err
	}
	job.Status = models.JobStatusFailed
	job.Error = reason
	job.FilePath = ""
	job.FinishedAt = time.Now()
	return nil
}

// ResetAll returns every job in every session to pending. Paired with
// removing the files on disk so state and filesystem agree.
func (r *sessionRepo) ResetAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, session := range r.sessions {
		for _, job := range session.Jobs {
			job.Status = models.JobStatusPending
			job.FilePath = ""
			job.Error = ""
			job.EnqueuedAt = time.Time{}
			job.StartedAt = time.Time{}
			job.FinishedAt = time.Time{}
		}
	}
	return nil
}

// job looks up without copying. Callers hold the lock.
func (r *sessionRepo) job(sessionID, videoID string) (*models.DownloadJob, error) {
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, videos.ErrSessionNotFound
	}
	job, ok := session.Jobs[videoID]
	if !ok {
		return nil, videos.ErrJobNotFound
	}
	return job, nil
}

func copyJob(job *models.DownloadJob) *models.DownloadJob {
	cp := *job
	return &cp
}

func copySession(session *models.Session) *models.Session {
	cp := &models.Session{
		SessionID:  session.SessionID,
		SourceURL:  session.SourceURL,
		IsPlaylist: session.IsPlaylist,
		Videos:     make([]*models.VideoRecord, len(session.Videos)),
		Jobs:       make(map[string]*models.DownloadJob, len(session.Jobs)),
		FetchError: session.FetchError,
		CreatedAt:  session.CreatedAt,
	}
	for i, record := range session.Videos {
		rc := *record
		cp.Videos[i] = &rc
	}
	for id, job := range session.Jobs {
		cp.Jobs[id] = copyJob(job)
	}
	return cp
}
