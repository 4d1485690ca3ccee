package mpmc

// New creates a bounded broadcast channel holding at most bound items and
// returns the initial Sender/Receiver pair. bound must be at
// least 1; New panics otherwise, the same way make(chan T, n) would reject a
// negative capacity.
//
// Additional Senders and Receivers are obtained by cloning the ones returned
// here, not by calling New again — every clone shares the same underlying
// Buffer.
func New[T any](bound int) (*Sender[T], *Receiver[T]) {
	buf := newBuffer[T](bound)
	return newSender[T](buf), newReceiver[T](buf)
}
