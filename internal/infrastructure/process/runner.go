package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"sync"
)

const stderrTailSize = 16 * 1024

var ErrExecutableNotFound = errors.New("executable not found")

type Command struct {
	// Name is the tool name used in error messages, e.g. "mongodump".
	Name string
	Path string
	Args []string
	// Hint is appended to the not-found error, e.g. how to install or point at the tool.
	Hint string
}

type ExitError struct {
	Name   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s failed with exit code %d", e.Name, e.Code)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func NewRunner() *Runner {
	return &Runner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts the command, streams its output as it arrives and blocks until it exits.
// A non-zero exit yields *ExitError carrying the tail of the captured stderr.
func (r *Runner) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)

	stderr := &tailBuffer{limit: stderrTailSize}
	cmd.Stdout = writerOrDiscard(r.Stdout)
	cmd.Stderr = io.MultiWriter(writerOrDiscard(r.Stderr), stderr)

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			msg := fmt.Sprintf("%s (%s)", c.Name, c.Path)
			if c.Hint != "" {
				msg += ". " + c.Hint
			}
			return fmt.Errorf("%w: %s", ErrExecutableNotFound, msg)
		}
		return fmt.Errorf("failed to start %s: %w", c.Name, err)
	}

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s interrupted: %w", c.Name, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{
				Name:   c.Name,
				Code:   exitErr.ExitCode(),
				Stderr: stderr.String(),
			}
		}
		return fmt.Errorf("%s failed: %w", c.Name, err)
	}

	return nil
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
