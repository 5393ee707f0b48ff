// ABOUTME: Coalescing event box: one pending event per kind, latest write wins
// ABOUTME: Wait takes the whole pending set at once; Set never blocks on a slow consumer

package eventbox

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/mauromedda/sk-go/internal/event"
)

// Box is a mailbox keyed by event kind. Setting a kind that is already
// pending replaces its payload instead of queueing behind it. Boxes are
// created once at startup and live as long as the process.
type Box struct {
	mu      sync.Mutex
	pending map[event.Kind]event.Event
	signal  chan struct{}
}

// New creates an empty Box.
func New() *Box {
	return &Box{
		pending: make(map[event.Kind]event.Event),
		signal:  make(chan struct{}, 1),
	}
}

// Set stores e under its kind, replacing any unread event of that kind,
// and wakes a waiter.
func (b *Box) Set(e event.Event) {
	b.mu.Lock()
	b.pending[e.Kind()] = e
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default: // Already signalled; coalesced
	}
}

// Wait blocks until at least one event is pending, then removes and
// returns all of them. It returns ctx.Err() if ctx ends first. Callers
// must not rely on the order of events within a batch.
func (b *Box) Wait(ctx context.Context) ([]event.Event, error) {
	for {
		if batch := b.TryTake(); batch != nil {
			return batch, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-b.signal:
		}
	}
}

// WaitTimeout is Wait bounded by d. It returns nil when nothing arrived.
func (b *Box) WaitTimeout(d time.Duration) []event.Event {
	timer := time.NewTimer(d)
	defer timer.Stop()

	for {
		if batch := b.TryTake(); batch != nil {
			return batch
		}
		select {
		case <-timer.C:
			return b.TryTake()
		case <-b.signal:
		}
	}
}

// TryTake removes and returns all pending events without blocking.
// It returns nil when the box is empty.
func (b *Box) TryTake() []event.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.pending) == 0 {
		return nil
	}
	batch := make([]event.Event, 0, len(b.pending))
	for _, e := range b.pending {
		batch = append(batch, e)
	}
	clear(b.pending)
	slices.SortFunc(batch, func(x, y event.Event) int { return int(x.Kind()) - int(y.Kind()) })
	return batch
}

// Pending returns the number of kinds currently pending.
func (b *Box) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Peek returns the pending event of kind k without removing it.
func (b *Box) Peek(k event.Kind) (event.Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.pending[k]
	return e, ok
}
