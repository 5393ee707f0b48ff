// ABOUTME: StdinBuffer reads raw tty bytes from an io.Reader and dispatches parsed key events.
// ABOUTME: Handles escape sequence buffering, lone-ESC timeout (~50ms), and bracketed paste as typed runes.

package input

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mauromedda/sk-go/pkg/tui/key"
)

const (
	readBufSize  = 256
	escTimeout   = 50 * time.Millisecond
	bracketStart = "\x1b[200~"
	bracketEnd   = "\x1b[201~"
)

// StdinBuffer reads from a reader and dispatches parsed key events via onKey.
type StdinBuffer struct {
	reader io.Reader
	onKey  func(key.Key)
	buf    []byte
	pasted []key.Key
	mu     sync.Mutex
}

// NewStdinBuffer creates a StdinBuffer that reads from r and calls onKey for each parsed key.
func NewStdinBuffer(r io.Reader, onKey func(key.Key)) *StdinBuffer {
	return &StdinBuffer{
		reader: r,
		onKey:  onKey,
		buf:    make([]byte, 0, readBufSize),
	}
}

// Start reads from the underlying reader until ctx is cancelled or the reader returns an error.
// It blocks until completion; call it in a goroutine if non-blocking behavior is needed.
// An incomplete sequence left in the buffer for escTimeout is flushed as-is, so a
// lone ESC becomes an Escape key.
func (b *StdinBuffer) Start(ctx context.Context) {
	readCh := make(chan readResult)
	done := make(chan struct{})

	go b.readLoop(readCh, done)
	defer close(done)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-pending:
			pending = nil
			b.flushRemaining()
		case result, ok := <-readCh:
			if !ok || result.err != nil {
				b.flushRemaining()
				return
			}
			pending = nil
			if b.processBytes(ctx, result.data) {
				pending = time.After(escTimeout)
			}
		}
	}
}

// readResult holds the outcome of a single Read call.
type readResult struct {
	data []byte
	err  error
}

// readLoop continuously reads from the reader and sends data on ch.
// It stops when done is closed, preventing goroutine leaks on context cancellation.
func (b *StdinBuffer) readLoop(ch chan<- readResult, done <-chan struct{}) {
	defer close(ch)
	tmp := make([]byte, readBufSize)
	for {
		n, err := b.reader.Read(tmp)
		if n > 0 {
			data := make([]byte, n)
			copy(data, tmp[:n])
			select {
			case ch <- readResult{data: data}:
			case <-done:
				return
			}
		}
		if err != nil {
			if n == 0 {
				select {
				case ch <- readResult{err: err}:
				case <-done:
				}
			}
			return
		}
	}
}

// processBytes appends incoming data to the internal buffer and dispatches complete keys.
// It reports whether an incomplete sequence is still buffered.
func (b *StdinBuffer) processBytes(ctx context.Context, data []byte) bool {
	b.mu.Lock()
	b.buf = append(b.buf, data...)
	b.mu.Unlock()

	return b.dispatchKeys(ctx, false)
}

// dispatchKeys parses and dispatches all complete key sequences from the buffer.
// With force set, a sequence that would otherwise wait for more bytes is
// consumed one byte at a time. Returns true when bytes remain buffered.
func (b *StdinBuffer) dispatchKeys(ctx context.Context, force bool) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		default:
		}

		b.mu.Lock()
		if len(b.buf) == 0 {
			b.mu.Unlock()
			return false
		}

		consumed, k, needsWait := b.tryParse()
		if needsWait {
			if !force {
				b.mu.Unlock()
				return true
			}
			consumed, k = 1, key.Key{Type: key.KeyUnknown}
			if b.buf[0] == 0x1b {
				k = key.Key{Type: key.KeyEscape}
			}
		}
		if consumed == 0 {
			b.mu.Unlock()
			return false
		}

		b.buf = b.buf[consumed:]
		pasted := b.pasted
		b.pasted = nil
		b.mu.Unlock()

		if pasted != nil {
			for _, pk := range pasted {
				b.onKey(pk)
			}
			continue
		}
		b.onKey(k)
	}
}

// tryParse attempts to parse one key from the front of b.buf.
// Returns (consumed bytes, parsed key, needs-wait flag).
// Must be called with b.mu held.
func (b *StdinBuffer) tryParse() (int, key.Key, bool) {
	if len(b.buf) == 0 {
		return 0, key.Key{}, false
	}

	// Bracketed paste: the pasted runes are queued ahead of the buffer.
	if consumed, complete := b.takeBracketedPaste(); complete {
		return consumed, key.Key{}, false
	} else if consumed < 0 {
		return 0, key.Key{}, true
	}

	// Escape sequence: need at least 2 bytes to distinguish ESC from escape seq.
	if b.buf[0] == 0x1b {
		if len(b.buf) == 1 {
			// Might be lone ESC or start of sequence; caller should wait.
			return 0, key.Key{}, true
		}
		return b.parseEscapeFromBuf()
	}

	// Check for incomplete UTF-8 rune; wait for more bytes if the buffer
	// is shorter than the maximum rune length.
	if !utf8.FullRune(b.buf) {
		if len(b.buf) < utf8.UTFMax {
			return 0, key.Key{}, true
		}
		// Buffer is long enough but still invalid; consume one byte.
		return 1, key.Key{Type: key.KeyUnknown}, false
	}

	r, size := utf8.DecodeRune(b.buf)
	if r == utf8.RuneError {
		return 1, key.Key{Type: key.KeyUnknown}, false
	}

	k := key.ParseKey(string(b.buf[:size]))
	return size, k, false
}

// parseEscapeFromBuf parses an escape sequence from the buffer.
// Must be called with b.mu held and len(b.buf) >= 2.
func (b *StdinBuffer) parseEscapeFromBuf() (int, key.Key, bool) {
	// A bare CSI/SS3 introducer is never a complete key.
	if len(b.buf) == 2 && (b.buf[1] == '[' || b.buf[1] == 'O') {
		return 0, key.Key{}, true
	}

	// Try progressively longer prefixes (CSI u sequences run up to ~16 bytes).
	maxLen := min(len(b.buf), 16)

	// Try longest match first, then shorter.
	for end := maxLen; end >= 2; end-- {
		candidate := string(b.buf[:end])
		k := key.ParseKey(candidate)
		if k.Type != key.KeyUnknown {
			return end, k, false
		}
	}

	// No known sequence matched; could be incomplete or truly unknown.
	// If buffer is short and second byte indicates CSI/SS3, wait for more.
	if len(b.buf) <= 3 && (b.buf[1] == '[' || b.buf[1] == 'O') {
		return 0, key.Key{}, true
	}

	// Unknown sequence; consume the ESC and let the rest be re-parsed.
	return 1, key.Key{Type: key.KeyEscape}, false
}

// takeBracketedPaste detects a bracketed paste at the front of the buffer.
// A complete paste is removed and its printable runes are appended to
// b.pasted; complete reports that case. consumed is -1 while the end
// marker has not arrived yet and 0 when the buffer holds no paste.
// Must be called with b.mu held.
func (b *StdinBuffer) takeBracketedPaste() (consumed int, complete bool) {
	if !bytes.HasPrefix(b.buf, []byte(bracketStart)) {
		if len(b.buf) < len(bracketStart) && bytes.HasPrefix([]byte(bracketStart), b.buf) && len(b.buf) > 2 {
			return -1, false
		}
		return 0, false
	}
	end := bytes.Index(b.buf[len(bracketStart):], []byte(bracketEnd))
	if end < 0 {
		return -1, false
	}
	body := b.buf[len(bracketStart) : len(bracketStart)+end]
	b.pasted = make([]key.Key, 0, len(body))
	for _, r := range string(body) {
		if r == '\n' || r == '\r' || r == '\t' {
			r = ' '
		}
		if r < 0x20 || r == 0x7f || r == utf8.RuneError {
			continue
		}
		b.pasted = append(b.pasted, key.Key{Type: key.KeyRune, Rune: r})
	}
	return len(bracketStart) + end + len(bracketEnd), true
}

// flushRemaining dispatches any leftover bytes in the buffer without waiting.
func (b *StdinBuffer) flushRemaining() {
	b.dispatchKeys(context.Background(), true)
}
