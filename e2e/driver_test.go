//go:build e2e && unix

// ABOUTME: PTY driver for end-to-end tests: builds sk-go once and runs it on a pseudo terminal
// ABOUTME: The finder draws on the pty while stdout is captured separately for the printed selection

package e2e

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

var binPath string

// ansiRe strips CSI, OSC and APC sequences so screen text can be matched.
var ansiRe = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]|\x1b\][^\x07]*\x07|\x1b_[^\x07]*\x07|\r`)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "sk-go-e2e")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	binPath = filepath.Join(dir, "sk-go")
	build := exec.Command("go", "build", "-o", binPath, "../cmd/sk-go")
	build.Stdout, build.Stderr = os.Stdout, os.Stderr
	if err := build.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "building sk-go:", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// session is one sk-go process on a pty.
type session struct {
	t      *testing.T
	cmd    *exec.Cmd
	pty    *os.File
	stdout bytes.Buffer

	mu     sync.Mutex
	screen bytes.Buffer
	done   chan struct{}
}

// start runs shell under a pty; it should invoke "$SK" somewhere. extraEnv
// entries are appended to a scrubbed environment.
func start(t *testing.T, shell string, extraEnv ...string) *session {
	t.Helper()

	home := t.TempDir()
	s := &session{t: t, done: make(chan struct{})}
	s.cmd = exec.Command("/bin/sh", "-c", shell)
	s.cmd.Env = append([]string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + home,
		"TERM=xterm-256color",
		"SK=" + binPath,
		"SK_GO_CONFIG=" + filepath.Join(home, "none.yaml"),
	}, extraEnv...)
	s.cmd.Stdout = &s.stdout

	f, err := pty.StartWithSize(s.cmd, &pty.Winsize{Rows: 20, Cols: 80})
	require.NoError(t, err)
	s.pty = f

	go func() {
		defer close(s.done)
		buf := make([]byte, 4096)
		for {
			n, err := f.Read(buf)
			if n > 0 {
				s.mu.Lock()
				s.screen.Write(buf[:n])
				s.mu.Unlock()
			}
			if err != nil {
				return
			}
		}
	}()
	t.Cleanup(func() {
		if s.cmd.ProcessState == nil {
			_ = s.cmd.Process.Kill()
			_ = s.cmd.Wait()
		}
		_ = f.Close()
	})
	return s
}

// screenText returns everything drawn so far with escape sequences removed.
func (s *session) screenText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ansiRe.ReplaceAllString(s.screen.String(), "")
}

func (s *session) expect(want string, timeout time.Duration) {
	s.t.Helper()
	require.Eventually(s.t, func() bool {
		return strings.Contains(s.screenText(), want)
	}, timeout, 10*time.Millisecond, "screen never showed %q:\n%s", want, s.screenText())
}

func (s *session) send(keys string) {
	s.t.Helper()
	_, err := s.pty.Write([]byte(keys))
	require.NoError(s.t, err)
}

// wait returns the exit status and captured stdout.
func (s *session) wait(timeout time.Duration) (int, string) {
	s.t.Helper()
	errc := make(chan error, 1)
	go func() { errc <- s.cmd.Wait() }()
	select {
	case <-errc:
	case <-time.After(timeout):
		s.t.Fatalf("sk-go did not exit; screen:\n%s", s.screenText())
	}
	return s.cmd.ProcessState.ExitCode(), s.stdout.String()
}
