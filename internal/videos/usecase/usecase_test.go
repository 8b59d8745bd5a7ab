package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hassanbadawy/media-downloader/internal/config"
	"github.com/hassanbadawy/media-downloader/internal/models"
	"github.com/hassanbadawy/media-downloader/internal/videos"
	"github.com/hassanbadawy/media-downloader/internal/videos/repository"
	"github.com/hassanbadawy/media-downloader/pkg/logger"
	"github.com/hassanbadawy/media-downloader/pkg/utils"
)

type fakeMediaClient struct {
	playlist    []*models.VideoRecord
	playlistErr error
	single      *models.VideoRecord
	singleErr   error
}

func (f *fakeMediaClient) FetchPlaylist(ctx context.Context, url string) ([]*models.VideoRecord, error) {
	if f.playlistErr != nil {
		return []*models.VideoRecord{}, f.playlistErr
	}
	return f.playlist, nil
}

func (f *fakeMediaClient) FetchSingle(ctx context.Context, url string) (*models.VideoRecord, error) {
	return f.single, f.singleErr
}

func (f *fakeMediaClient) Download(ctx context.Context, url, destDir string, orderingIndex int) (string, error) {
	return "", errors.New("not used")
}

type fakeQueue struct {
	jobs       []*models.DownloadJob
	enqueueErr error
}

func (f *fakeQueue) EnqueueJob(ctx context.Context, key string, job *models.DownloadJob) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeQueue) DequeueJob(ctx context.Context, key string) (*models.DownloadJob, error) {
	if len(f.jobs) == 0 {
		return nil, nil
	}
	job := f.jobs[0]
	f.jobs = f.jobs[1:]
	return job, nil
}

func (f *fakeQueue) QueueLength(ctx context.Context, key string) (int64, error) {
	return int64(len(f.jobs)), nil
}

type fakeHistory struct {
	records []*models.DownloadRecord
}

func (f *fakeHistory) CreateRecord(ctx context.Context, record *models.DownloadRecord) (*models.DownloadRecord, error) {
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeHistory) GetRecords(ctx context.Context, pq *utils.Pagination) (*models.DownloadList, error) {
	return &models.DownloadList{
		Records:    f.records,
		TotalCount: len(f.records),
		Page:       pq.GetPage(),
		PageSize:   pq.GetSize(),
	}, nil
}

type ucFixture struct {
	uc          videos.UseCase
	cfg         *config.Config
	client      *fakeMediaClient
	queue       *fakeQueue
	sessionRepo videos.SessionRepository
	history     *fakeHistory
}

func newFixture(t *testing.T, mutate func(cfg *config.Config)) *ucFixture {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "Development"},
		Logger: config.Logger{Encoding: "console", Level: "error"},
		Redis:  config.RedisConfig{JobQueueKey: "queue:downloads"},
		Downloader: config.DownloaderConfig{
			DownloadDir:       t.TempDir(),
			FailOnMissingFile: true,
		},
	}
	if mutate != nil {
		mutate(cfg)
	}
	log := logger.NewApiLogger(cfg)
	log.InitLogger()

	f := &ucFixture{
		cfg:         cfg,
		client:      &fakeMediaClient{},
		queue:       &fakeQueue{},
		sessionRepo: repository.NewSessionRepo(),
		history:     &fakeHistory{},
	}
	f.uc = NewVideoUseCase(cfg, f.client, f.sessionRepo, f.queue, f.history, nil, log)
	return f
}

func TestFetchSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("playlist url opens a session with pending jobs", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		f.client.playlist = []*models.VideoRecord{
			{ID: "abc123", Title: "First", URL: "https://www.youtube.com/watch?v=abc123", PlaylistIndex: 1},
			{ID: "def456", Title: "Second", URL: "https://www.youtube.com/watch?v=def456", PlaylistIndex: 2},
		}

		session, err := f.uc.FetchSource(ctx, &models.FetchInput{URL: "https://www.youtube.com/playlist?list=PL1"})
		require.NoError(t, err)
		require.True(t, session.IsPlaylist)
		require.Len(t, session.Videos, 2)
		for _, job := range session.Jobs {
			require.Equal(t, models.JobStatusPending, job.Status)
		}
	})

	t.Run("failed playlist fetch still opens an empty session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		f.client.playlistErr = errors.New("fetch playlist: exit status 1")

		session, err := f.uc.FetchSource(ctx, &models.FetchInput{URL: "https://www.youtube.com/playlist?list=PL2"})
		require.NoError(t, err)
		require.True(t, session.IsPlaylist)
		require.Empty(t, session.Videos)
		require.Empty(t, session.Jobs)
		require.Contains(t, session.FetchError, "exit status 1")

		// The diagnostic survives into later polls.
		got, err := f.uc.GetSession(ctx, session.SessionID)
		require.NoError(t, err)
		require.Contains(t, got.FetchError, "exit status 1")
	})

	t.Run("empty playlist carries no diagnostic", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		f.client.playlist = []*models.VideoRecord{}

		session, err := f.uc.FetchSource(ctx, &models.FetchInput{URL: "https://www.youtube.com/playlist?list=PL3"})
		require.NoError(t, err)
		require.Empty(t, session.Videos)
		require.Empty(t, session.FetchError)
	})

	t.Run("single video url", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		f.client.single = &models.VideoRecord{ID: "abc123", Title: "Clip", URL: "https://youtu.be/abc123"}

		session, err := f.uc.FetchSource(ctx, &models.FetchInput{URL: "https://youtu.be/abc123"})
		require.NoError(t, err)
		require.False(t, session.IsPlaylist)
		require.Len(t, session.Videos, 1)
		require.Contains(t, session.Jobs, "abc123")
	})

	t.Run("failed single fetch is an error", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		f.client.singleErr = errors.New("fetch video: exit status 1")

		_, err := f.uc.FetchSource(ctx, &models.FetchInput{URL: "https://youtu.be/gone"})
		require.Error(t, err)
	})

	t.Run("rejects a non url", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)

		_, err := f.uc.FetchSource(ctx, &models.FetchInput{URL: "not a url"})
		require.Error(t, err)
	})
}

func TestTriggerDownload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seed := func(t *testing.T, f *ucFixture) *models.Session {
		t.Helper()
		f.client.single = &models.VideoRecord{ID: "abc123", Title: "Clip", URL: "https://youtu.be/abc123"}
		session, err := f.uc.FetchSource(ctx, &models.FetchInput{URL: "https://youtu.be/abc123"})
		require.NoError(t, err)
		return session
	}

	t.Run("claims and enqueues a pending job", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		session := seed(t, f)

		job, err := f.uc.TriggerDownload(ctx, session.SessionID, "abc123")
		require.NoError(t, err)
		require.Equal(t, models.JobStatusProcessing, job.Status)
		require.False(t, job.EnqueuedAt.IsZero())
		require.Len(t, f.queue.jobs, 1)
		require.Equal(t, "abc123", f.queue.jobs[0].VideoID)

		// Polling the session shows the same enqueue time, not a zero value.
		stored, err := f.sessionRepo.GetJob(ctx, session.SessionID, "abc123")
		require.NoError(t, err)
		require.Equal(t, job.EnqueuedAt, stored.EnqueuedAt)
	})

	t.Run("second trigger is rejected", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		session := seed(t, f)

		_, err := f.uc.TriggerDownload(ctx, session.SessionID, "abc123")
		require.NoError(t, err)
		_, err = f.uc.TriggerDownload(ctx, session.SessionID, "abc123")
		require.ErrorIs(t, err, videos.ErrJobNotPending)
		require.Len(t, f.queue.jobs, 1)
	})

	t.Run("unknown video id", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		session := seed(t, f)

		_, err := f.uc.TriggerDownload(ctx, session.SessionID, "missing")
		require.ErrorIs(t, err, videos.ErrJobNotFound)
	})

	t.Run("enqueue failure fails the job", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		session := seed(t, f)
		f.queue.enqueueErr = errors.New("redis down")

		_, err := f.uc.TriggerDownload(ctx, session.SessionID, "abc123")
		require.Error(t, err)

		job, err := f.sessionRepo.GetJob(ctx, session.SessionID, "abc123")
		require.NoError(t, err)
		require.Equal(t, models.JobStatusFailed, job.Status)
	})
}

func TestResolveFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seed := func(t *testing.T, f *ucFixture) *models.Session {
		t.Helper()
		f.client.single = &models.VideoRecord{ID: "abc123", Title: "Clip", URL: "https://youtu.be/abc123"}
		session, err := f.uc.FetchSource(ctx, &models.FetchInput{URL: "https://youtu.be/abc123"})
		require.NoError(t, err)
		return session
	}

	t.Run("pending job has no file", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		session := seed(t, f)

		_, err := f.uc.ResolveFile(ctx, session.SessionID, "abc123")
		require.ErrorIs(t, err, ErrFileNotReady)
	})

	t.Run("completed job serves its file", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		session := seed(t, f)

		path := filepath.Join(t.TempDir(), "clip.mp4")
		require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
		_, err := f.sessionRepo.MarkProcessing(ctx, session.SessionID, "abc123")
		require.NoError(t, err)
		require.NoError(t, f.sessionRepo.Complete(ctx, session.SessionID, "abc123", path))

		got, err := f.uc.ResolveFile(ctx, session.SessionID, "abc123")
		require.NoError(t, err)
		require.Equal(t, path, got)
	})

	t.Run("missing file flips the job to failed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, nil)
		session := seed(t, f)

		_, err := f.sessionRepo.MarkProcessing(ctx, session.SessionID, "abc123")
		require.NoError(t, err)
		require.NoError(t, f.sessionRepo.Complete(ctx, session.SessionID, "abc123", filepath.Join(t.TempDir(), "gone.mp4")))

		_, err = f.uc.ResolveFile(ctx, session.SessionID, "abc123")
		require.ErrorIs(t, err, ErrFileNotReady)

		job, err := f.sessionRepo.GetJob(ctx, session.SessionID, "abc123")
		require.NoError(t, err)
		require.Equal(t, models.JobStatusFailed, job.Status)
	})
}

func TestCleanDownloads(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t, nil)
	dir := f.cfg.Downloader.Dir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1 - First.mp4"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2 - Second.mp4"), []byte("b"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "keep"), 0o755))

	f.client.single = &models.VideoRecord{ID: "abc123", Title: "Clip", URL: "https://youtu.be/abc123"}
	session, err := f.uc.FetchSource(ctx, &models.FetchInput{URL: "https://youtu.be/abc123"})
	require.NoError(t, err)
	_, err = f.sessionRepo.MarkProcessing(ctx, session.SessionID, "abc123")
	require.NoError(t, err)
	require.NoError(t, f.sessionRepo.Complete(ctx, session.SessionID, "abc123", filepath.Join(dir, "1 - First.mp4")))

	removed, err := f.uc.CleanDownloads(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, removed)
	require.DirExists(t, filepath.Join(dir, "keep"))

	job, err := f.sessionRepo.GetJob(ctx, session.SessionID, "abc123")
	require.NoError(t, err)
	require.Equal(t, models.JobStatusPending, job.Status)
	require.Empty(t, job.FilePath)
}

func TestGetHistory(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	f.history.records = []*models.DownloadRecord{
		{VideoID: "abc123", Title: "Clip", Status: models.JobStatusCompleted},
	}

	list, err := f.uc.GetHistory(context.Background(), &utils.Pagination{Page: 1, Size: 10})
	require.NoError(t, err)
	require.Equal(t, 1, list.TotalCount)
	require.Len(t, list.Records, 1)
}
