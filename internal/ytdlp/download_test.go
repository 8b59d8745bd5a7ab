package ytdlp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hassanbadawy/media-downloader/internal/config"
)

func TestOutputTemplate(t *testing.T) {
	t.Parallel()
	require.Equal(t, "3 - %(title)s.%(ext)s", OutputTemplate(3))
	require.Equal(t, "1 - %(title)s.%(ext)s", OutputTemplate(1))
	require.Equal(t, "%(title)s.%(ext)s", OutputTemplate(0))
	require.Equal(t, "%(title)s.%(ext)s", OutputTemplate(-1))
}

func TestDownload(t *testing.T) {
	t.Parallel()

	t.Run("last stdout line names the file", func(t *testing.T) {
		t.Parallel()
		destDir := t.TempDir()
		produced := filepath.Join(destDir, "3 - clip.mp4")
		argsFile := filepath.Join(t.TempDir(), "args.txt")
		script := writeScript(t, fmt.Sprintf(`printf '%%s\n' "$@" > %q
echo "[Merger] remuxing"
touch %q
echo %q
`, argsFile, produced, produced))
		client := newTestClient(t, script, nil)

		path, err := client.Download(context.Background(), "https://youtu.be/abc123", destDir, 3)
		require.NoError(t, err)
		require.Equal(t, produced, path)

		args, err := os.ReadFile(argsFile)
		require.NoError(t, err)
		require.Contains(t, string(args), "3 - %(title)s.%(ext)s")
		require.Contains(t, string(args), "--no-simulate")
	})

	t.Run("creates the destination directory", func(t *testing.T) {
		t.Parallel()
		destDir := filepath.Join(t.TempDir(), "nested", "downloads")
		produced := filepath.Join(t.TempDir(), "clip.mp4")
		script := writeScript(t, fmt.Sprintf(`touch %q
echo %q
`, produced, produced))
		client := newTestClient(t, script, nil)

		_, err := client.Download(context.Background(), "https://youtu.be/abc123", destDir, 0)
		require.NoError(t, err)
		require.DirExists(t, destDir)
	})

	t.Run("zero exit with missing file is a failure", func(t *testing.T) {
		t.Parallel()
		missing := filepath.Join(t.TempDir(), "never-written.mp4")
		script := writeScript(t, fmt.Sprintf(`echo %q
`, missing))
		client := newTestClient(t, script, nil)

		path, err := client.Download(context.Background(), "https://youtu.be/abc123", t.TempDir(), 1)
		require.Error(t, err)
		require.Empty(t, path)
		require.Contains(t, err.Error(), missing)
	})

	t.Run("zero exit with no output is a failure", func(t *testing.T) {
		t.Parallel()
		script := writeScript(t, `exit 0
`)
		client := newTestClient(t, script, nil)

		_, err := client.Download(context.Background(), "https://youtu.be/abc123", t.TempDir(), 1)
		require.Error(t, err)
		require.Contains(t, err.Error(), "no filename printed")
	})

	t.Run("deadline kills helper processes too", func(t *testing.T) {
		t.Parallel()
		// The background sleep inherits the output pipes the way a remux
		// helper does; the deadline must not wait out its lifetime.
		script := writeScript(t, `sleep 5 &
sleep 5
`)
		client := newTestClient(t, script, func(d *config.DownloaderConfig) {
			d.DownloadTimeout = 1
		})

		start := time.Now()
		_, err := client.Download(context.Background(), "https://youtu.be/slow", t.TempDir(), 1)
		elapsed := time.Since(start)

		require.Error(t, err)
		require.Less(t, elapsed, 4*time.Second)
	})

	t.Run("deadline kills the subprocess", func(t *testing.T) {
		t.Parallel()
		script := writeScript(t, `exec sleep 5
`)
		client := newTestClient(t, script, func(d *config.DownloaderConfig) {
			d.DownloadTimeout = 1
		})

		start := time.Now()
		_, err := client.Download(context.Background(), "https://youtu.be/slow", t.TempDir(), 1)
		elapsed := time.Since(start)

		require.Error(t, err)
		require.Less(t, elapsed, 4*time.Second)

		var runErr *RunError
		require.True(t, errors.As(err, &runErr))
		require.Contains(t, runErr.Err.Error(), "timed out")
	})
}
