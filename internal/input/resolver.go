// ABOUTME: Key resolver worker: parses tty bytes into keys and keys into ordered commands
// ABOUTME: Commands travel on a buffered channel; the UI box only carries the wake-up

package input

import (
	"context"
	"io"

	"github.com/mauromedda/sk-go/internal/event"
	"github.com/mauromedda/sk-go/internal/eventbox"
	"github.com/mauromedda/sk-go/internal/keymap"
	"github.com/mauromedda/sk-go/internal/log"
	tuiinput "github.com/mauromedda/sk-go/pkg/tui/input"
	"github.com/mauromedda/sk-go/pkg/tui/key"
)

// queueSize bounds the commands waiting for the coordinating loop.
const queueSize = 256

// Command is one resolved key press: either a bound action or a rune to
// insert into the query.
type Command struct {
	Action keymap.Action
	Rune   rune // non-zero for text input
}

// IsText reports whether c inserts a rune rather than running an action.
func (c Command) IsText() bool { return c.Rune != 0 }

// Resolver turns keyboard input into commands.
type Resolver struct {
	r    io.Reader
	km   *keymap.Keymap
	box  *eventbox.Box
	cmds chan Command
}

// NewResolver creates a resolver reading raw bytes from r.
func NewResolver(r io.Reader, km *keymap.Keymap, box *eventbox.Box) *Resolver {
	return &Resolver{
		r:    r,
		km:   km,
		box:  box,
		cmds: make(chan Command, queueSize),
	}
}

// Commands returns the ordered command queue.
func (res *Resolver) Commands() <-chan Command {
	return res.cmds
}

// Resolve maps k to a command. Bound keys win over text input; ok is false
// for keys that are neither bound nor printable.
func (res *Resolver) Resolve(k key.Key) (Command, bool) {
	if a, ok := res.km.Resolve(k); ok {
		return Command{Action: a}, true
	}
	if k.Printable() {
		return Command{Rune: k.Rune}, true
	}
	return Command{}, false
}

// Run reads input until ctx ends or the reader is exhausted. Neither is an
// error.
func (res *Resolver) Run(ctx context.Context) error {
	buf := tuiinput.NewStdinBuffer(res.r, func(k key.Key) {
		cmd, ok := res.Resolve(k)
		if !ok {
			log.Debug("input: unbound key %s", k)
			res.box.Set(event.InvalidInput{Raw: k.String()})
			return
		}
		select {
		case res.cmds <- cmd:
			res.box.Set(event.KeysQueued{})
		case <-ctx.Done():
		}
	})
	buf.Start(ctx)
	return nil
}
