package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/hassanbadawy/media-downloader/internal/models"
	"github.com/hassanbadawy/media-downloader/internal/videos"
	"github.com/hassanbadawy/media-downloader/internal/videos/usecase"
	"github.com/hassanbadawy/media-downloader/pkg/logger"
	"github.com/hassanbadawy/media-downloader/pkg/utils"
)

type videoHandler struct {
	videoUC videos.UseCase
	logger  logger.Logger
}

func NewVideoHandler(videoUC videos.UseCase, log logger.Logger) videos.Handlers {
	return &videoHandler{
		videoUC: videoUC,
		logger:  log,
	}
}

func (h *videoHandler) FetchSource() echo.HandlerFunc {
	return func(c echo.Context) error {
		input := &models.FetchInput{}
		if err := c.Bind(input); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request payload"})
		}
		session, err := h.videoUC.FetchSource(c.Request().Context(), input)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, session)
	}
}

func (h *videoHandler) GetSession() echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := h.videoUC.GetSession(c.Request().Context(), c.Param("session_id"))
		if err != nil {
			if errors.Is(err, videos.ErrSessionNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, session)
	}
}

// TriggerDownload answers 202 with the claimed job; polling the session
// endpoint is how the caller observes completion.
func (h *videoHandler) TriggerDownload() echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := h.videoUC.TriggerDownload(
			c.Request().Context(),
			c.Param("session_id"),
			c.Param("video_id"),
		)
		if err != nil {
			switch {
			case errors.Is(err, videos.ErrSessionNotFound), errors.Is(err, videos.ErrJobNotFound):
				return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
			case errors.Is(err, videos.ErrJobNotPending):
				return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
			default:
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
			}
		}
		return c.JSON(http.StatusAccepted, job)
	}
}

func (h *videoHandler) ServeFile() echo.HandlerFunc {
	return func(c echo.Context) error {
		path, err := h.videoUC.ResolveFile(
			c.Request().Context(),
			c.Param("session_id"),
			c.Param("video_id"),
		)
		if err != nil {
			switch {
			case errors.Is(err, videos.ErrSessionNotFound), errors.Is(err, videos.ErrJobNotFound), errors.Is(err, usecase.ErrFileNotReady):
				return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
			default:
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
			}
		}
		c.Response().Header().Set(
			echo.HeaderContentDisposition,
			fmt.Sprintf("attachment; filename=%q", filepath.Base(path)),
		)
		return c.File(path)
	}
}

func (h *videoHandler) CleanDownloads() echo.HandlerFunc {
	return func(c echo.Context) error {
		removed, err := h.videoUC.CleanDownloads(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, map[string]int{"removed": removed})
	}
}

func (h *videoHandler) GetHistory() echo.HandlerFunc {
	return func(c echo.Context) error {
		pagination, err := utils.GetPaginationFromCtx(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		list, err := h.videoUC.GetHistory(c.Request().Context(), pagination)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, list)
	}
}
