package ytdlp

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/hassanbadawy/media-downloader/internal/config"
	"github.com/hassanbadawy/media-downloader/pkg/logger"
)

const (
	// Cap on how much subprocess output is retained for diagnostics.
	maxCapturedBytes = 8192

	// A single metadata blob is one stdout line and can run to megabytes.
	maxLineBytes = 8 << 20

	killGracePeriod = 5 * time.Second
)

// Client invokes the external media extraction tool as a subprocess. It
// depends only on the tool's JSON-per-line metadata output, its zero exit
// code convention and its ability to print the resolved filename.
type Client struct {
	bin             string
	playlistTimeout time.Duration
	singleTimeout   time.Duration
	downloadTimeout time.Duration
	logger          logger.Logger
}

func NewClient(cfg *config.Config, log logger.Logger) *Client {
	return &Client{
		bin:             cfg.Downloader.Bin(),
		playlistTimeout: cfg.Downloader.PlaylistTimeout(),
		singleTimeout:   cfg.Downloader.SingleTimeout(),
		downloadTimeout: cfg.Downloader.DownloadDeadline(),
		logger:          log,
	}
}

// RunError carries the captured subprocess output alongside the failure so
// callers can surface a diagnostic without re-running the tool.
type RunError struct {
	Op     string
	Err    error
	Stdout string
	Stderr string
}

func (e *RunError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Op, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *RunError) Unwrap() error {
	return e.Err
}

type runResult struct {
	stdoutLines []string
	stderr      string
}

func (r *runResult) stdout() string {
	return strings.Join(r.stdoutLines, "\n")
}

// run executes the tool with a hard deadline. Both output streams are
// drained concurrently while waiting so the subprocess can never stall on a
// full pipe; on deadline the process is killed and the error says so.
func (c *Client) run(ctx context.Context, op string, timeout time.Duration, args ...string) (*runResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.bin, args...)
	cmd.WaitDelay = killGracePeriod
	// The tool forks helpers (ffmpeg for remuxing) that inherit the output
	// pipes. It runs in its own process group so the deadline kill reaches
	// every helper; killing only the direct child would leave an orphan
	// holding the pipes open and the drains blocked past the deadline.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &RunError{Op: op, Err: fmt.Errorf("setup stdout pipe: %w", err)}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, &RunError{Op: op, Err: fmt.Errorf("setup stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return nil, &RunError{Op: op, Err: fmt.Errorf("start %s: %w", c.bin, err)}
	}

	var (
		mu          sync.Mutex
		stdoutLines []string
		stderrBuf   strings.Builder
		wg          sync.WaitGroup
		stdoutErr   error
		stderrErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		stdoutErr = scanLines(stdoutPipe, func(line string) {
			mu.Lock()
			stdoutLines = append(stdoutLines, line)
			mu.Unlock()
		})
	}()
	go func() {
		defer wg.Done()
		stderrErr = scanLines(stderrPipe, func(line string) {
			mu.Lock()
			if stderrBuf.Len() < maxCapturedBytes {
				stderrBuf.WriteString(line)
				stderrBuf.WriteString("\n")
			}
			mu.Unlock()
		})
	}()
	wg.Wait()

	waitErr := cmd.Wait()

	mu.Lock()
	res := &runResult{
		stdoutLines: stdoutLines,
		stderr:      stderrBuf.String(),
	}
	mu.Unlock()

	if waitErr != nil {
		cause := waitErr
		if ctx.Err() == context.DeadlineExceeded {
			cause = fmt.Errorf("timed out after %s, process killed", timeout)
		}
		return res, &RunError{Op: op, Err: cause, Stdout: res.stdout(), Stderr: res.stderr}
	}
	if stdoutErr != nil {
		return res, &RunError{Op: op, Err: fmt.Errorf("read stdout: %w", stdoutErr), Stdout: res.stdout(), Stderr: res.stderr}
	}
	if stderrErr != nil {
		c.logger.Warnf("%s: stderr read error: %v", op, stderrErr)
	}
	return res, nil
}

func scanLines(r io.Reader, fn func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	scanner.Split(splitByNewlineOrCR)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			fn(line)
		}
	}
	err := scanner.Err()
	if err != nil {
		// A scan error stops line delivery but the pipe must stay drained,
		// or the subprocess stalls on a full buffer and the failure shows
		// up as a timeout instead of the real cause.
		_, _ = io.Copy(io.Discard, r)
	}
	return err
}

// The tool rewrites progress lines with bare carriage returns, so both CR
// and LF terminate a token.
func splitByNewlineOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' || data[i] == '\r' {
			if i == 0 {
				return 1, nil, nil
			}
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
