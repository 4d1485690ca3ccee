// Package mpmc implements a bounded, broadcast-capable, multi-producer /
// multi-consumer channel with cursor-based shared-buffer storage.
//
// A single ring of pending items is shared by every Sender and Receiver of a
// channel. Each independent Receiver owns a cursor into that ring rather than
// a private queue, so an item is stored exactly once no matter how many
// receivers will eventually read it; it is only reclaimed once every live
// cursor has moved past it. This keeps memory proportional to the slowest
// reader instead of to the number of readers, at the cost of blocking
// producers (backpressure) when that slowest reader falls `bound` items
// behind.
package mpmc

import (
	"sync"
	"sync/atomic"

	rbtree "github.com/twmb/go-rbtree"
)

var nextBufferID atomic.Uint64

// cursorPos is the rbtree.Item backing a cursor's position in the
// order-statistic index: alongside the id -> position map used for O(1)
// point lookups, every live cursor's position is kept in a tree so "is any
// cursor still at the window head" is a Min() lookup instead of a scan over
// every cursor.
type cursorPos struct {
	id  uint64
	pos uint64
}

func (c *cursorPos) Less(than rbtree.Item) bool {
	o := than.(*cursorPos)
	if c.pos != o.pos {
		return c.pos < o.pos
	}
	return c.id < o.id
}

// buffer is the shared state behind a Sender/Receiver/SharedReceiver family.
type buffer[T any] struct {
	id    uint64
	bound int

	mu          sync.Mutex
	ring        []T
	offset      uint64
	cursors     map[uint64]*cursorPos
	cursorOrder *rbtree.Tree
	nextCursor  uint64

	onNewData      *sync.Cond
	onDataConsumed *sync.Cond

	corked      atomic.Bool
	poisoned    atomic.Bool
	senderCount atomic.Int64
}

func newBuffer[T any](bound int) *buffer[T] {
	if bound < 1 {
		panic("mpmc: bound must be >= 1")
	}
	b := &buffer[T]{
		id:          nextBufferID.Add(1) - 1,
		bound:       bound,
		ring:        make([]T, 0, bound),
		cursors:     make(map[uint64]*cursorPos),
		cursorOrder: rbtree.New(),
	}
	b.onNewData = sync.NewCond(&b.mu)
	b.onDataConsumed = sync.NewCond(&b.mu)
	return b
}

// withLock runs fn with the buffer's mutex held, recovering a panicking
// mutator into a poisoned buffer instead of propagating the panic: once a
// holder panics, every later operation fails. Go's sync.Mutex does not
// itself poison, so this recover-and-flag is the stand-in.
func (b *buffer[T]) withLock(fn func() error) (err error) {
	if b.poisoned.Load() {
		return ErrPoisoned
	}
	b.mu.Lock()
	defer func() {
		if r := recover(); r != nil {
			b.poisoned.Store(true)
			b.mu.Unlock()
			err = ErrPoisoned
		}
	}()
	err = fn()
	b.mu.Unlock()
	return err
}

func (b *buffer[T]) isCorked() bool {
	return b.corked.Load()
}

func (b *buffer[T]) send(v T) error {
	if b.isCorked() {
		return ErrIsCorked
	}
	appended := false
	err := b.withLock(func() error {
		for {
			// Corked wins over "there happens to be room": once corked, no
			// further items may be appended, even if a window slide just
			// freed a slot.
			if b.corked.Load() {
				return ErrIsCorked
			}
			if len(b.ring) < b.bound {
				b.ring = append(b.ring, v)
				appended = true
				return nil
			}
			b.onDataConsumed.Wait()
			// spurious-wake safe: loop back and re-check both conditions
		}
	})
	if appended {
		b.onNewData.Broadcast()
	}
	return err
}

// trySend is the non-blocking counterpart to send. ok reports whether v was
// stored; when ok is false and err is nil, the ring was full and v was not
// stored. The caller retains ownership of v regardless.
func (b *buffer[T]) trySend(v T) (ok bool, err error) {
	if b.isCorked() {
		return false, ErrIsCorked
	}
	err = b.withLock(func() error {
		if b.corked.Load() {
			return ErrIsCorked
		}
		if len(b.ring) < b.bound {
			b.ring = append(b.ring, v)
			ok = true
		}
		return nil
	})
	if ok {
		b.onNewData.Broadcast()
	}
	return ok, err
}

func (b *buffer[T]) recv(cursorID uint64) (T, error) {
	var zero T
	var result T
	err := b.withLock(func() error {
		for {
			c, ok := b.cursors[cursorID]
			if !ok {
				// cursor was dropped (Close on its Receiver ran before or
				// concurrently with this call); treat as corked since
				// there is no longer anything to read on its behalf.
				return ErrIsCorked
			}
			pos := c.pos
			o := b.offset
			n := uint64(len(b.ring))
			if pos < o+n {
				result = b.ring[pos-o]
				b.setCursorPos(cursorID, pos+1)
				if pos == o {
					b.slideWindowLocked()
				}
				return nil
			}
			if b.corked.Load() {
				return ErrIsCorked
			}
			b.onNewData.Wait()
			// fall through and re-check: ring may now hold data, the
			// cursor may have moved (a sibling SharedReceiver could have
			// consumed it first), or the channel may have corked.
		}
	})
	if err != nil {
		return zero, err
	}
	return result, nil
}

// tryRecv is the non-blocking counterpart to recv.
func (b *buffer[T]) tryRecv(cursorID uint64) (T, bool, error) {
	var zero T
	var result T
	found := false
	err := b.withLock(func() error {
		c, ok := b.cursors[cursorID]
		if !ok {
			return ErrIsCorked
		}
		pos := c.pos
		o := b.offset
		n := uint64(len(b.ring))
		if pos < o+n {
			result = b.ring[pos-o]
			b.setCursorPos(cursorID, pos+1)
			if pos == o {
				b.slideWindowLocked()
			}
			found = true
			return nil
		}
		if b.corked.Load() {
			return ErrIsCorked
		}
		return nil
	})
	if err != nil {
		return zero, false, err
	}
	if !found {
		return zero, false, nil
	}
	return result, true, nil
}

// setCursorPos updates both the point-lookup map and the order-statistic
// index for cursorID. Must be called with b.mu held.
func (b *buffer[T]) setCursorPos(cursorID, pos uint64) {
	if old, ok := b.cursors[cursorID]; ok {
		b.cursorOrder.Delete(old)
	}
	next := &cursorPos{id: cursorID, pos: pos}
	b.cursors[cursorID] = next
	b.cursorOrder.Insert(next)
}

// slideWindowLocked pops every item from the front of the ring that no live
// cursor still needs, signalling onDataConsumed once per slot freed. A
// single recv call can only ever have advanced the cursor that was at the
// head by one position, so ordinarily this pops at most one item;
// dropCursor reuses the same routine because removing the slowest cursor
// can free many slots at once. Must be called with b.mu held.
func (b *buffer[T]) slideWindowLocked() {
	for len(b.ring) > 0 {
		min := b.cursorOrder.Min()
		if min != nil && min.(*cursorPos).pos <= b.offset {
			return
		}
		b.ring = b.ring[1:]
		b.offset++
		b.onDataConsumed.Signal()
	}
}

// cork is idempotent.
func (b *buffer[T]) cork() {
	_ = b.withLock(func() error {
		b.corked.Store(true)
		b.onDataConsumed.Broadcast()
		b.onNewData.Broadcast()
		return nil
	})
}

func (b *buffer[T]) addSender() {
	b.senderCount.Add(1)
}

// removeSender returns the post-decrement sender count so the caller can
// cork on reaching zero.
func (b *buffer[T]) removeSender() int64 {
	return b.senderCount.Add(-1)
}

func (b *buffer[T]) newCursor() uint64 {
	var id uint64
	_ = b.withLock(func() error {
		id = b.nextCursor
		b.nextCursor++
		b.setCursorPos(id, b.offset)
		return nil
	})
	return id
}

// dropCursor removes a cursor and wakes any producer whose wait is no
// longer justified because this was the cursor holding the window back.
func (b *buffer[T]) dropCursor(cursorID uint64) {
	_ = b.withLock(func() error {
		if old, ok := b.cursors[cursorID]; ok {
			delete(b.cursors, cursorID)
			b.cursorOrder.Delete(old)
		}
		b.slideWindowLocked()
		return nil
	})
}

func (b *buffer[T]) length() int {
	var n int
	_ = b.withLock(func() error {
		n = len(b.ring)
		return nil
	})
	return n
}
