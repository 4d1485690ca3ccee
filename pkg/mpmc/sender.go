package mpmc

import "sync/atomic"

// Sender is the producer-facing handle. All Senders created from the same
// channel (directly or via Clone) share one underlying Buffer; dropping the
// last of them corks the channel.
type Sender[T any] struct {
	buf    *buffer[T]
	closed atomic.Bool
}

func newSender[T any](buf *buffer[T]) *Sender[T] {
	buf.addSender()
	return &Sender[T]{buf: buf}
}

// ID returns the channel's globally unique buffer id. Every Sender and
// Receiver created from the same channel shares this id.
func (s *Sender[T]) ID() uint64 {
	return s.buf.id
}

// Send writes v to the channel, blocking while the slowest receiver has not
// yet consumed enough to make room. It returns ErrIsCorked once the channel
// has been corked, whether by Cork on this or any sibling Sender or by the
// last Sender being closed (a Send blocked on a full ring is woken by the
// cork and v is discarded), and ErrPoisoned if a prior panic left the
// buffer in an untrustworthy state.
func (s *Sender[T]) Send(v T) error {
	return s.buf.send(v)
}

// TrySend is the non-blocking counterpart to Send. ok reports whether v was
// enqueued; when ok is false and err is nil the ring was full and v was not
// stored — the caller still owns v regardless, since Go never moves values.
func (s *Sender[T]) TrySend(v T) (ok bool, err error) {
	return s.buf.trySend(v)
}

// Cork declares that no more values will be sent. All sibling Senders and
// every Receiver observe the cork; it is idempotent.
func (s *Sender[T]) Cork() {
	s.buf.cork()
}

// IsCorked reports whether the channel has been corked.
func (s *Sender[T]) IsCorked() bool {
	return s.buf.isCorked()
}

// Pending returns the number of items currently held in the buffer, on
// behalf of at least one receiver.
func (s *Sender[T]) Pending() int {
	return s.buf.length()
}

// Clone registers a new Sender against the same buffer, incrementing the
// live sender count. The channel corks only once every clone (and the
// original) has been Closed.
func (s *Sender[T]) Clone() *Sender[T] {
	return newSender[T](s.buf)
}

// Close deregisters this Sender. Once the last live Sender is closed, the
// channel corks automatically. Close is idempotent.
func (s *Sender[T]) Close() {
	if s.closed.CompareAndSwap(false, true) {
		if s.buf.removeSender() == 0 {
			s.buf.cork()
		}
	}
}
