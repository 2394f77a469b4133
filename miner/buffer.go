package miner

import "sync"

// Buffer is the shared recitation store. The miner's background loop is the
// sole writer; any number of goroutines may read it concurrently. Appends are
// atomic per unit: a snapshot reflects either the pre- or post-append state,
// never a partially written unit.
type Buffer struct {
	mu    sync.RWMutex
	data  []byte
	units int
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append appends one text unit to the buffer. Called only from the miner's
// tick loop.
func (b *Buffer) Append(unit string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = append(b.data, unit...)
	b.units++
}

// Snapshot returns an immutable copy of the current contents. Safe to call
// from any goroutine at any time, including during an in-flight append.
func (b *Buffer) Snapshot() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.data)
}

// Len returns the current length of the buffered text in bytes.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.data)
}

// Units returns the number of units appended since creation or the last
// Reset.
func (b *Buffer) Units() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.units
}

// Reset clears the buffer. Intended for host-driven use between sessions; the
// miner never calls it.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = b.data[:0]
	b.units = 0
}
