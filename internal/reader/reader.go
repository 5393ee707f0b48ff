// ABOUTME: Producer worker: streams candidate lines from stdin or a shell command into the pool
// ABOUTME: Announces growth on the UI box in batches and whenever the source is about to block

package reader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/mauromedda/sk-go/internal/event"
	"github.com/mauromedda/sk-go/internal/eventbox"
	"github.com/mauromedda/sk-go/internal/item"
	"github.com/mauromedda/sk-go/internal/log"
)

const (
	batchSize   = 1024
	maxLineSize = 1 << 20
	maxStderr   = 4 << 10
	shellPath   = "/bin/sh"
)

// Options selects the candidate source. Input wins when set; otherwise
// Command runs under /bin/sh -c.
type Options struct {
	Input   io.Reader
	Command string
}

// Reader appends every line of its source to the pool.
type Reader struct {
	pool *item.Pool
	box  *eventbox.Box
	opts Options

	announced int
}

// New creates a reader feeding pool and signalling box.
func New(pool *item.Pool, box *eventbox.Box, opts Options) *Reader {
	return &Reader{pool: pool, box: box, opts: opts}
}

// Run reads the source to the end, then marks the pool finished and sets
// Finished on the box. A failing source is reported in Finished and
// logged; it is not an error for the caller.
func (r *Reader) Run(ctx context.Context) error {
	var err error
	if r.opts.Input != nil {
		err = r.scanInput(ctx, r.opts.Input)
	} else {
		err = r.runCommand(ctx)
	}
	if err != nil && ctx.Err() == nil {
		log.Warn("reader: %v", err)
	} else {
		err = nil
	}

	r.pool.Finish()
	r.box.Set(event.Finished{Total: r.pool.Len(), Err: err})
	return nil
}

func (r *Reader) runCommand(ctx context.Context) error {
	if strings.TrimSpace(r.opts.Command) == "" {
		return errors.New("no command to run")
	}
	cmd := exec.CommandContext(ctx, shellPath, "-c", r.opts.Command)
	stderr := &limitedBuffer{limit: maxStderr}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("command %q: %w", r.opts.Command, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %q: %w", r.opts.Command, err)
	}
	log.Debug("reader: started %q (pid %d)", r.opts.Command, cmd.Process.Pid)

	scanErr := r.scan(ctx, stdout)
	if scanErr != nil {
		// The child may be blocked writing to a pipe nobody reads.
		_ = cmd.Process.Kill()
	}
	waitErr := cmd.Wait()
	if scanErr != nil {
		return scanErr
	}
	if waitErr != nil {
		if msg := firstLine(stderr.String()); msg != "" {
			return fmt.Errorf("command %q: %w: %s", r.opts.Command, waitErr, msg)
		}
		return fmt.Errorf("command %q: %w", r.opts.Command, waitErr)
	}
	return nil
}

// scanInput scans src on its own goroutine so Run returns as soon as ctx
// ends, even while a read from an endless pipe is blocked.
func (r *Reader) scanInput(ctx context.Context, src io.Reader) error {
	done := make(chan error, 1)
	go func() { done <- r.scan(ctx, src) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// scan appends lines from src until EOF or ctx ends.
func (r *Reader) scan(ctx context.Context, src io.Reader) error {
	sc := bufio.NewScanner(&announcingReader{r: src, announce: r.announce})
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSuffix(sc.Text(), "\r")
		if n := r.pool.Append(line) + 1; n-r.announced >= batchSize {
			r.announce()
		}
	}
	r.announce()
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading candidates: %w", err)
	}
	return nil
}

// announce sets NewItem when lines arrived since the last announcement.
func (r *Reader) announce() {
	if n := r.pool.Len(); n > r.announced {
		r.announced = n
		r.box.Set(event.NewItem{Total: n})
	}
}

// announcingReader calls announce before every read of the source, so lines
// already buffered are visible before a read that may block.
type announcingReader struct {
	r        io.Reader
	announce func()
}

func (a *announcingReader) Read(p []byte) (int, error) {
	a.announce()
	return a.r.Read(p)
}

// limitedBuffer keeps the first limit bytes written and drops the rest.
type limitedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (lb *limitedBuffer) Write(p []byte) (int, error) {
	if room := lb.limit - lb.buf.Len(); room > 0 {
		lb.buf.Write(p[:min(len(p), room)])
	}
	return len(p), nil
}

func (lb *limitedBuffer) String() string { return lb.buf.String() }

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
