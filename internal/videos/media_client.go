package videos

import (
	"context"

	"github.com/hassanbadawy/media-downloader/internal/models"
)

// MediaClient is the surface of the external extraction tool the rest of
// the service depends on. Satisfied by ytdlp.Client.
type MediaClient interface {
	FetchPlaylist(ctx context.Context, url string) ([]*models.VideoRecord, error)
	FetchSingle(ctx context.Context, url string) (*models.VideoRecord, error)
	Download(ctx context.Context, url, destDir string, orderingIndex int) (string, error)
}
