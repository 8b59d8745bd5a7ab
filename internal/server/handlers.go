package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hassanbadawy/media-downloader/internal/middleware"
	videoHttp "github.com/hassanbadawy/media-downloader/internal/videos/delivery/http"
	videoRepository "github.com/hassanbadawy/media-downloader/internal/videos/repository"
	videoUsecase "github.com/hassanbadawy/media-downloader/internal/videos/usecase"
	"github.com/hassanbadawy/media-downloader/internal/worker"
	"github.com/hassanbadawy/media-downloader/internal/ytdlp"
	"github.com/hassanbadawy/media-downloader/pkg/utils"
)

// MapHandlers wires repositories, the download client, the worker pool and
// the HTTP routes. Workers run in this process because session state lives
// in memory; the queue only decouples request handling from download time.
func (s *Server) MapHandlers(e *echo.Echo) error {
	client := ytdlp.NewClient(s.cfg, s.logger)

	sessionRepo := videoRepository.NewSessionRepo()
	redisRepo := videoRepository.NewJobRedisRepo(s.redisClient)
	historyRepo := videoRepository.NewHistoryRepo(s.db)
	awsRepo := videoRepository.NewAwsRepository(s.s3Client, s.preSignClient)

	videoUC := videoUsecase.NewVideoUseCase(s.cfg, client, sessionRepo, redisRepo, historyRepo, awsRepo, s.logger)
	videoHandlers := videoHttp.NewVideoHandler(videoUC, s.logger)

	pool := worker.NewWorker(s.cfg, s.logger, client, sessionRepo, redisRepo, historyRepo, awsRepo)
	workerCtx, cancel := context.WithCancel(context.Background())
	s.stopWorkers = cancel
	pool.Start(workerCtx)

	mw := middleware.NewMiddlewareManager(s.cfg, []string{"*"}, s.logger)
	e.Use(mw.RequestLoggerMiddleware)

	v1 := e.Group("/api/v1")
	health := v1.Group("/health")

	videoHttp.MapVideoRoutes(v1, videoHandlers)
	health.GET("", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}
