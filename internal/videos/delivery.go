package videos

import "github.com/labstack/echo/v4"

type Handlers interface {
	FetchSource() echo.HandlerFunc
	GetSession() echo.HandlerFunc
	TriggerDownload() echo.HandlerFunc
	ServeFile() echo.HandlerFunc
	CleanDownloads() echo.HandlerFunc
	GetHistory() echo.HandlerFunc
}
