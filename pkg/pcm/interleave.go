package pcm

import (
	"context"

	"github.com/mattiekat/cgraph/pkg/mpmc"
)

// InterleaveChannels takes one or more input channels and round-robins
// their values into a single output, reading inputs in order and
// round-robining at the sample level rather than the packet level. If one
// channel's packets run out before a full round finishes, any samples
// already taken from the other channels for that round are dropped rather
// than emitted as a ragged frame.
type InterleaveChannels struct {
	Channels []*mpmc.Receiver[[]float32]
	Output   *mpmc.Sender[[]float32]
}

func NewInterleaveChannels(channels []*mpmc.Receiver[[]float32], output *mpmc.Sender[[]float32]) *InterleaveChannels {
	return &InterleaveChannels{Channels: channels, Output: output}
}

func (ic *InterleaveChannels) Name() string {
	return "Interleave Channels"
}

func (ic *InterleaveChannels) Run(ctx context.Context) error {
	defer ic.Output.Close()

	n := len(ic.Channels)
	buffers := make([][]float32, n)
	cursors := make([]int, n)
	output := make([]float32, 0, DefaultPacketBytes/4)

outer:
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if (len(output)+n)*4 > DefaultPacketBytes {
			if err := ic.Output.Send(output); err != nil && !mpmc.IsCorked(err) {
				return err
			}
			output = make([]float32, 0, DefaultPacketBytes/4)
		}

		for i := 0; i < n; i++ {
			if cursors[i] < len(buffers[i]) {
				output = append(output, buffers[i][cursors[i]])
				cursors[i]++
				continue
			}
			next, err := ic.Channels[i].Recv()
			switch {
			case err == nil:
				buffers[i] = next
				cursors[i] = 1
				output = append(output, next[0])
			case mpmc.IsCorked(err):
				if i > 0 {
					output = output[:len(output)-i]
				}
				break outer
			default:
				return err
			}
		}
	}

	if len(output) > 0 {
		if err := ic.Output.Send(output); err != nil && !mpmc.IsCorked(err) {
			return err
		}
	}
	return nil
}
