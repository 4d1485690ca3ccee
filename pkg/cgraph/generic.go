package cgraph

import (
	"context"
	"errors"

	"github.com/mattiekat/cgraph/pkg/mpmc"
)

// Func1To1 is a Node built from a single transform function: it pulls one
// value at a time from rx, calls f with ok=true, and forwards the result to
// tx when f reports emit=true. Once rx has corked and is drained, f is
// called one last time with ok=false (and a zero input), so f can flush any
// buffered state before the node exits; this can be the first call if rx
// corks before delivering anything. No ok=false call is made when Run
// returns because ctx was cancelled or rx reported another error.
type Func1To1[I, O any] struct {
	name string
	f    func(in I, ok bool) (out O, emit bool)
	rx   *mpmc.Receiver[I]
	tx   *mpmc.Sender[O]
}

// NewFunc1To1 builds a node named name that reads from rx, applies f, and
// writes to tx. tx is always closed when Run returns, corking it for
// downstream nodes if this was the last live sender.
func NewFunc1To1[I, O any](name string, rx *mpmc.Receiver[I], tx *mpmc.Sender[O], f func(in I, ok bool) (out O, emit bool)) *Func1To1[I, O] {
	return &Func1To1[I, O]{name: name, f: f, rx: rx, tx: tx}
}

func (n *Func1To1[I, O]) Name() string {
	return n.name
}

func (n *Func1To1[I, O]) Run(ctx context.Context) error {
	defer n.tx.Close()
	defer n.rx.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		in, err := n.rx.Recv()
		switch {
		case err == nil:
			if out, emit := n.f(in, true); emit {
				if sendErr := n.tx.Send(out); sendErr != nil && !mpmc.IsCorked(sendErr) {
					return sendErr
				}
			}
		case mpmc.IsCorked(err):
			var zero I
			if out, emit := n.f(zero, false); emit {
				_ = n.tx.Send(out)
			}
			return nil
		case mpmc.IsPoisoned(err):
			return err
		default:
			return errors.New(n.name + ": " + err.Error())
		}
	}
}
