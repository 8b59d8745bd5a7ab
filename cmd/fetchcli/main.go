package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hassanbadawy/media-downloader/internal/config"
	"github.com/hassanbadawy/media-downloader/internal/models"
	"github.com/hassanbadawy/media-downloader/internal/videos"
	"github.com/hassanbadawy/media-downloader/internal/ytdlp"
	"github.com/hassanbadawy/media-downloader/pkg/logger"
)

// fetchcli is the synchronous command line front end: classify the URL,
// fetch metadata and download every video one by one, printing a status
// line per video. Exits non-zero if the fetch or any download failed.
func main() {
	urlFlag := flag.String("url", "", "video or playlist URL")
	outDir := flag.String("out-dir", "", "download directory (defaults to the configured one)")
	binPath := flag.String("bin", "", "path to the yt-dlp binary")
	metadataOnly := flag.Bool("metadata-only", false, "list videos without downloading")
	flag.Parse()

	url := *urlFlag
	if url == "" && flag.NArg() > 0 {
		url = flag.Arg(0)
	}
	if url == "" {
		fmt.Fprintln(os.Stderr, "usage: fetchcli [flags] <url>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "Development"},
		Logger: config.Logger{Encoding: "console", Level: "warn"},
		Downloader: config.DownloaderConfig{
			BinPath:     *binPath,
			DownloadDir: *outDir,
		},
	}
	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()

	client := ytdlp.NewClient(cfg, appLogger)
	os.Exit(run(context.Background(), client, cfg, url, *metadataOnly, os.Stdout, os.Stderr))
}

func run(ctx context.Context, client videos.MediaClient, cfg *config.Config, url string, metadataOnly bool, out, errOut io.Writer) int {
	var records []*models.VideoRecord
	if ytdlp.IsPlaylistURL(url) {
		var err error
		records, err = client.FetchPlaylist(ctx, url)
		if err != nil {
			fmt.Fprintf(errOut, "fetch failed: %v\n", err)
			return 1
		}
		fmt.Fprintf(out, "playlist with %d videos\n", len(records))
	} else {
		record, err := client.FetchSingle(ctx, url)
		if err != nil {
			fmt.Fprintf(errOut, "fetch failed: %v\n", err)
			return 1
		}
		records = []*models.VideoRecord{record}
	}

	if metadataOnly {
		for _, record := range records {
			fmt.Fprintf(out, "%s\t%s\n", record.ID, record.Title)
		}
		return 0
	}

	failed := 0
	for _, record := range records {
		path, err := client.Download(ctx, record.URL, cfg.Downloader.Dir(), record.PlaylistIndex)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAILED\t%s\t%v\n", record.Title, err)
			continue
		}
		fmt.Fprintf(out, "OK\t%s\t%s\n", record.Title, path)
	}
	if failed > 0 {
		fmt.Fprintf(errOut, "%d of %d downloads failed\n", failed, len(records))
		return 1
	}
	return 0
}
