// Package cgraph wires compute nodes together over mpmc channels and runs
// them each on their own goroutine.
package cgraph

import "context"

// Node is a compute node: the thread-per-worker building block of a
// compute graph. A Node pulls data in from one or more channels, does some
// transformation, and publishes to others; it may also talk to the
// console, the filesystem, or the network. run is called from a dedicated
// goroutine and is expected to keep going until its inputs are exhausted
// (observed as mpmc.ErrIsCorked) or its output has corked.
type Node interface {
	// Name identifies the node for logging and error messages.
	Name() string
	// Run processes input until exhausted, or ctx is cancelled. A
	// returned error is treated as fatal to the graph.
	Run(ctx context.Context) error
}
