package audio

import "sync"

// Buffer accumulates PCM chunks delivered by the capture callback.
// Append is called from the audio driver thread, Drain from the thread that
// stops the recording; the mutex is held only for the copy/append and the
// take, never across any I/O.
type Buffer struct {
	mu      sync.Mutex
	chunks  [][]int16
	samples int
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Append copies chunk into the buffer. The driver reuses the callback slice
// between invocations, so ownership transfer means copying here.
func (b *Buffer) Append(chunk []int16) {
	if len(chunk) == 0 {
		return
	}
	c := make([]int16, len(chunk))
	copy(c, chunk)

	b.mu.Lock()
	b.chunks = append(b.chunks, c)
	b.samples += len(c)
	b.mu.Unlock()
}

// Drain atomically takes everything appended so far and resets the buffer.
// Concatenation into one contiguous stream happens outside the critical
// section to keep contention with an in-flight Append bounded.
func (b *Buffer) Drain() []int16 {
	b.mu.Lock()
	chunks := b.chunks
	total := b.samples
	b.chunks = nil
	b.samples = 0
	b.mu.Unlock()

	if total == 0 {
		return nil
	}
	out := make([]int16, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

// Len returns the number of buffered samples.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.samples
}
