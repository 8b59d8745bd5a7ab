package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hassanbadawy/media-downloader/internal/models"
)

const videoURLTemplate = "https://www.youtube.com/watch?v=%s"

type metadataEntry struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	PlaylistIndex *int   `json:"playlist_index"`
	URL           string `json:"url"`
}

// FetchPlaylist lists a playlist's entries in flat mode, one JSON object per
// stdout line. Malformed lines are logged and skipped; a failed or empty
// invocation yields an empty slice plus the diagnostic error.
func (c *Client) FetchPlaylist(ctx context.Context, url string) ([]*models.VideoRecord, error) {
	res, err := c.run(ctx, "fetch playlist", c.playlistTimeout, "--flat-playlist", "--print-json", url)
	if err != nil {
		return []*models.VideoRecord{}, err
	}
	if len(res.stdoutLines) == 0 {
		return []*models.VideoRecord{}, &RunError{
			Op:     "fetch playlist",
			Err:    errors.New("no output, playlist may be empty or private"),
			Stderr: res.stderr,
		}
	}

	records := make([]*models.VideoRecord, 0, len(res.stdoutLines))
	for _, line := range res.stdoutLines {
		var entry metadataEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			c.logger.Warnf("skipping unparsable playlist entry: %v", err)
			continue
		}
		records = append(records, normalizeEntry(&entry, len(records)+1, url))
	}
	return records, nil
}

// FetchSingle resolves one video's metadata. Any failure yields nil plus the
// diagnostic error.
func (c *Client) FetchSingle(ctx context.Context, url string) (*models.VideoRecord, error) {
	res, err := c.run(ctx, "fetch video", c.singleTimeout, "--print-json", url)
	if err != nil {
		return nil, err
	}
	if len(res.stdoutLines) == 0 {
		return nil, &RunError{
			Op:     "fetch video",
			Err:    errors.New("no output"),
			Stderr: res.stderr,
		}
	}

	var entry metadataEntry
	if err := json.Unmarshal([]byte(res.stdout()), &entry); err != nil {
		return nil, &RunError{
			Op:     "fetch video",
			Err:    fmt.Errorf("parse metadata: %w", err),
			Stdout: res.stdout(),
			Stderr: res.stderr,
		}
	}

	record := normalizeEntry(&entry, 1, url)
	record.PlaylistIndex = 0
	// The submitted URL already identifies a single video.
	record.URL = url
	if entry.Title == "" {
		record.Title = "Untitled Video"
	}
	return record, nil
}

// normalizeEntry turns a raw extractor record into a VideoRecord. ordinal is
// 1-based by encounter order among valid entries and backs both the synthetic
// identity and the default title when the extractor omits them.
func normalizeEntry(entry *metadataEntry, ordinal int, sourceURL string) *models.VideoRecord {
	index := ordinal
	if entry.PlaylistIndex != nil {
		index = *entry.PlaylistIndex
	}

	record := &models.VideoRecord{
		ID:            entry.ID,
		Title:         entry.Title,
		PlaylistIndex: index,
	}
	if record.ID == "" {
		record.ID = models.SyntheticVideoID(ordinal)
	}
	if record.Title == "" {
		record.Title = models.UntitledVideoTitle(index)
	}
	switch {
	case entry.ID != "":
		record.URL = fmt.Sprintf(videoURLTemplate, entry.ID)
	case entry.URL != "":
		record.URL = entry.URL
	default:
		record.URL = sourceURL
	}
	return record
}
