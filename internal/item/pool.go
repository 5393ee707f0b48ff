// ABOUTME: Append-only candidate pool: one producer appends while the matcher scans by index
// ABOUTME: Fixed-size chunks never move; the length is published atomically after each write

package item

import (
	"sync"
	"sync/atomic"
)

const chunkSize = 1024

type chunk [chunkSize]Item

// Pool stores candidates in append order. Append must only be called from
// one goroutine; Len, Get and Snapshot are safe from any goroutine and only
// ever see fully written items.
type Pool struct {
	mu       sync.RWMutex // guards the chunks slice header
	chunks   []*chunk
	n        atomic.Int64
	finished atomic.Bool
}

// NewPool creates an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// Append stores raw as the next candidate and returns its index.
func (p *Pool) Append(raw string) int {
	idx := int(p.n.Load())
	ci, off := idx/chunkSize, idx%chunkSize

	p.mu.RLock()
	var c *chunk
	if ci < len(p.chunks) {
		c = p.chunks[ci]
	}
	p.mu.RUnlock()

	if c == nil {
		c = new(chunk)
		p.mu.Lock()
		p.chunks = append(p.chunks, c)
		p.mu.Unlock()
	}

	c[off] = New(idx, raw)
	p.n.Store(int64(idx + 1))
	return idx
}

// Len returns the number of published candidates.
func (p *Pool) Len() int {
	return int(p.n.Load())
}

// Get returns the candidate at index i.
func (p *Pool) Get(i int) (Item, bool) {
	if i < 0 || i >= p.Len() {
		return Item{}, false
	}
	p.mu.RLock()
	c := p.chunks[i/chunkSize]
	p.mu.RUnlock()
	return c[i%chunkSize], true
}

// Snapshot copies candidates [from, to) into dst and returns it. to is
// clamped to the published length, so callers read the bound once per batch.
func (p *Pool) Snapshot(dst []Item, from, to int) []Item {
	to = min(to, p.Len())
	if from < 0 || from >= to {
		return dst[:0]
	}

	p.mu.RLock()
	chunks := p.chunks
	p.mu.RUnlock()

	dst = dst[:0]
	for i := from; i < to; {
		c := chunks[i/chunkSize]
		end := min(to, (i/chunkSize+1)*chunkSize)
		dst = append(dst, c[i%chunkSize:i%chunkSize+(end-i)]...)
		i = end
	}
	return dst
}

// Finish marks the producer as done.
func (p *Pool) Finish() {
	p.finished.Store(true)
}

// Finished reports whether the producer is done.
func (p *Pool) Finished() bool {
	return p.finished.Load()
}
