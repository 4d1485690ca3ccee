package mpmc

import "sync/atomic"

// Receiver is an independent-cursor consumer handle. Every Receiver created
// from a channel (directly or via Clone) observes every item sent on that
// channel, in order; independent receivers never split work between each
// other the way a SharedReceiver family does.
type Receiver[T any] struct {
	buf      *buffer[T]
	cursorID uint64
	closed   atomic.Bool
}

func newReceiver[T any](buf *buffer[T]) *Receiver[T] {
	return &Receiver[T]{buf: buf, cursorID: buf.newCursor()}
}

// ID returns (bufferID, cursorID). Two independent receivers of the same
// channel share bufferID and differ in cursorID.
func (r *Receiver[T]) ID() (bufferID, cursorID uint64) {
	return r.buf.id, r.cursorID
}

// Recv blocks until an item is available at this receiver's cursor, the
// channel corks with nothing left to read, or the buffer is poisoned.
func (r *Receiver[T]) Recv() (T, error) {
	return r.buf.recv(r.cursorID)
}

// TryRecv is the non-blocking counterpart to Recv. ok is false with a nil
// error when the cursor has simply caught up to the sender and the channel
// has not corked.
func (r *Receiver[T]) TryRecv() (v T, ok bool, err error) {
	return r.buf.tryRecv(r.cursorID)
}

// IsCorked reports whether the channel has been corked. A corked channel
// may still have items left to drain at this receiver's cursor.
func (r *Receiver[T]) IsCorked() bool {
	return r.buf.isCorked()
}

// Pending returns the number of items currently held in the buffer. This is
// a buffer-global count, not a per-cursor one: items already consumed by
// this cursor may still be pending for a slower sibling.
func (r *Receiver[T]) Pending() int {
	return r.buf.length()
}

// Clone allocates a new independent cursor anchored at the buffer's current
// offset — the oldest item still held on behalf of any receiver — not at
// the sender's latest position. A freshly cloned receiver therefore never
// misses an item the system kept alive for another reader's benefit.
func (r *Receiver[T]) Clone() *Receiver[T] {
	return newReceiver[T](r.buf)
}

// Close removes this receiver's cursor. Once removed, the buffer no longer
// waits on it, and its position can no longer hold the sliding window back.
// Close is idempotent.
func (r *Receiver[T]) Close() {
	if r.closed.CompareAndSwap(false, true) {
		r.buf.dropCursor(r.cursorID)
	}
}
