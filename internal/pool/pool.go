// Package pool provides a bounded pool of byte buffers for codec
// scratch space. Unlike sync.Pool it has a fixed capacity and an
// explicit Close, so holders of a closed pool fail fast instead of
// allocating forever.
package pool

import (
	"bytes"
	"errors"
	"sync"
)

// ErrClosed is returned by Get after Close.
var ErrClosed = errors.New("pool: closed")

// Buffers is a bounded pool of *bytes.Buffer. Get returns a pooled
// buffer when one is available and allocates otherwise; Put returns a
// buffer unless the pool is already full, in which case the buffer is
// dropped for the garbage collector.
type Buffers struct {
	mu     sync.Mutex
	free   []*bytes.Buffer
	cap    int
	closed bool
}

// New creates a pool holding at most capacity buffers.
func New(capacity int) *Buffers {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffers{cap: capacity}
}

// Get returns an empty buffer, pooled or fresh.
func (p *Buffers) Get() (*bytes.Buffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	if n := len(p.free); n > 0 {
		b := p.free[n-1]
		p.free = p.free[:n-1]
		return b, nil
	}
	return &bytes.Buffer{}, nil
}

// Put resets b and returns it to the pool if there is room.
func (p *Buffers) Put(b *bytes.Buffer) {
	if b == nil {
		return
	}
	b.Reset()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || len(p.free) >= p.cap {
		return
	}
	p.free = append(p.free, b)
}

// Close empties the pool; subsequent Get calls fail with ErrClosed.
// Close is idempotent.
func (p *Buffers) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.free = nil
}
