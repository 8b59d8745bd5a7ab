package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// OutputTemplate builds the tool's output-path pattern. A positive ordering
// index yields "<index> - <title>.<ext>" so playlist entries sort by position;
// the tool resolves the title and extension placeholders itself.
func OutputTemplate(orderingIndex int) string {
	if orderingIndex > 0 {
		return fmt.Sprintf("%d - %%(title)s.%%(ext)s", orderingIndex)
	}
	return "%(title)s.%(ext)s"
}

// Download fetches one video into destDir and returns the absolute path the
// tool reports. The tool may print auxiliary lines (remux steps); the last
// stdout line is authoritative and must name an existing file.
func (c *Client) Download(ctx context.Context, url, destDir string, orderingIndex int) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("create download directory %s: %w", destDir, err)
	}

	template := filepath.Join(destDir, OutputTemplate(orderingIndex))
	res, err := c.run(ctx, "download", c.downloadTimeout,
		"-o", template,
		"--no-simulate",
		"--print", "filename",
		url,
	)
	if err != nil {
		return "", err
	}
	if len(res.stdoutLines) == 0 {
		return "", &RunError{
			Op:     "download",
			Err:    errors.New("no filename printed"),
			Stderr: res.stderr,
		}
	}

	path := res.stdoutLines[len(res.stdoutLines)-1]
	if _, err := os.Stat(path); err != nil {
		return "", &RunError{
			Op:     "download",
			Err:    fmt.Errorf("reported file does not exist: %s", path),
			Stdout: res.stdout(),
			Stderr: res.stderr,
		}
	}
	return path, nil
}
