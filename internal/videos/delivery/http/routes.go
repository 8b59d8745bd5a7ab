package http

import (
	"github.com/labstack/echo/v4"

	"github.com/hassanbadawy/media-downloader/internal/videos"
)

func MapVideoRoutes(group *echo.Group, h videos.Handlers) {
	group.POST("/session/fetch", h.FetchSource())
	group.GET("/session/:session_id", h.GetSession())
	group.POST("/session/:session_id/download/:video_id", h.TriggerDownload())
	group.GET("/session/:session_id/file/:video_id", h.ServeFile())
	group.DELETE("/downloads", h.CleanDownloads())
	group.GET("/downloads/history", h.GetHistory())
}
