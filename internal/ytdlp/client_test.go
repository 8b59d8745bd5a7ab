package ytdlp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hassanbadawy/media-downloader/internal/config"
	"github.com/hassanbadawy/media-downloader/pkg/logger"
)

// writeScript drops an executable shell script standing in for the external
// tool so tests exercise the real subprocess plumbing.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-yt-dlp")
	err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755)
	require.NoError(t, err)
	return path
}

func newTestClient(t *testing.T, script string, mutate func(*config.DownloaderConfig)) *Client {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "Development"},
		Logger: config.Logger{Encoding: "console", Level: "error"},
		Downloader: config.DownloaderConfig{
			BinPath: script,
		},
	}
	if mutate != nil {
		mutate(&cfg.Downloader)
	}
	log := logger.NewApiLogger(cfg)
	log.InitLogger()
	return NewClient(cfg, log)
}
