package ringbuffer

import "github.com/pkg/errors"

// Buffer is a fixed-capacity circular buffer of float64 values.
//
// Put and Get only move the tail and head cursors, there is no overwrite
// protection. Size and Sum bookkeeping belongs to the caller, because the
// growing-window and sliding-window phases of the averaging operators need
// different update rules over the same storage.
type Buffer struct {
	storage []float64
	head    int
	tail    int

	// Size is the number of live elements, maintained by the caller.
	Size int

	// Sum is the running sum of the live elements, maintained by the caller.
	Sum float64
}

func New(capacity int) (*Buffer, error) {
	if capacity <= 0 {
		return nil, errors.Errorf("ringbuffer: capacity should be positive, given: %d", capacity)
	}

	return &Buffer{storage: make([]float64, capacity)}, nil
}

// Put writes v at the tail position and advances the tail cursor.
func (b *Buffer) Put(v float64) {
	b.storage[b.tail] = v
	b.tail = (b.tail + 1) % len(b.storage)
}

// Get returns the oldest value and advances the head cursor.
func (b *Buffer) Get() float64 {
	v := b.storage[b.head]
	b.head = (b.head + 1) % len(b.storage)
	return v
}

// At returns the i-th oldest value without moving the head cursor.
func (b *Buffer) At(i int) float64 {
	return b.storage[(b.head+i)%len(b.storage)]
}

// Reset rewinds the cursors and clears Sum without releasing the storage, so
// the buffer can be refilled in place. Size stays untouched, like the rest
// of the caller-maintained bookkeeping.
func (b *Buffer) Reset() {
	b.head = 0
	b.tail = 0
	b.Sum = 0
}

func (b *Buffer) Cap() int {
	return len(b.storage)
}
