package mpmc

import "sync/atomic"

// sharedReceiverState is the refcounted wrapper around a single Receiver
// that every clone of a SharedReceiver points at.
type sharedReceiverState[T any] struct {
	rx       *Receiver[T]
	refCount atomic.Int64
}

// SharedReceiver lets a family of handles cooperatively drain a single
// cursor: items are delivered exactly once across the group, a
// "worker-pool" pattern layered on top of the broadcast primitive. Cloning
// a SharedReceiver bumps a reference count; it never allocates a new cursor
// the way cloning a bare Receiver does.
type SharedReceiver[T any] struct {
	shared *sharedReceiverState[T]
	closed atomic.Bool
}

// NewSharedReceiver wraps rx. rx must not be used directly afterwards;
// all access should go through the returned SharedReceiver and its clones.
func NewSharedReceiver[T any](rx *Receiver[T]) *SharedReceiver[T] {
	st := &sharedReceiverState[T]{rx: rx}
	st.refCount.Store(1)
	return &SharedReceiver[T]{shared: st}
}

// Clone returns a new handle sharing this SharedReceiver's cursor. No new
// cursor is allocated; the returned handle competes with every other clone
// for the same stream of items.
func (s *SharedReceiver[T]) Clone() *SharedReceiver[T] {
	s.shared.refCount.Add(1)
	return &SharedReceiver[T]{shared: s.shared}
}

// ID returns the same (bufferID, cursorID) pair for every clone of a given
// SharedReceiver.
func (s *SharedReceiver[T]) ID() (bufferID, cursorID uint64) {
	return s.shared.rx.ID()
}

// Recv blocks until an item is available at the shared cursor. If two
// clones race, exactly one of them receives any given item.
func (s *SharedReceiver[T]) Recv() (T, error) {
	return s.shared.rx.Recv()
}

// TryRecv is the non-blocking counterpart to Recv.
func (s *SharedReceiver[T]) TryRecv() (v T, ok bool, err error) {
	return s.shared.rx.TryRecv()
}

// IsCorked reports whether the underlying channel has been corked.
func (s *SharedReceiver[T]) IsCorked() bool {
	return s.shared.rx.IsCorked()
}

// Pending returns the buffer-global pending count.
func (s *SharedReceiver[T]) Pending() int {
	return s.shared.rx.Pending()
}

// Close releases this handle. When the last SharedReceiver clone is closed,
// the wrapped Receiver is closed and its cursor removed; this happens even
// if the caller still holds the *Receiver that was passed to
// NewSharedReceiver, which is not counted as a live handle. Close is
// idempotent: calling it more than once on the
// same handle only decrements the shared refcount the first time.
func (s *SharedReceiver[T]) Close() {
	if s.closed.CompareAndSwap(false, true) {
		if s.shared.refCount.Add(-1) == 0 {
			s.shared.rx.Close()
		}
	}
}

// TryUnwrap returns the wrapped Receiver and true if this is the only live
// handle to it, allowing the caller to fall back to independent-cursor
// semantics. It returns (nil, false) if other clones are still outstanding,
// in which case s is untouched and remains usable as before.
func (s *SharedReceiver[T]) TryUnwrap() (*Receiver[T], bool) {
	if s.shared.refCount.Load() == 1 {
		return s.shared.rx, true
	}
	return nil, false
}
