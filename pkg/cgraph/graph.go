package cgraph

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Graph launches a fixed set of Nodes, one goroutine each, and waits for
// them all to finish, reporting the first failure.
type Graph struct {
	log   Logger
	nodes []Node
}

// Option configures a Graph at construction time.
type Option func(*Graph)

// WithLogger attaches a Logger to the Graph; without it, logging is a
// no-op.
func WithLogger(log Logger) Option {
	return func(g *Graph) {
		g.log = log
	}
}

// New builds a Graph that will run nodes when Run is called.
func New(nodes []Node, opts ...Option) *Graph {
	g := &Graph{log: nopLogger{}, nodes: nodes}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Run starts every node on its own goroutine and blocks until they all
// return. The first node error cancels the context passed to the other
// nodes and is what Run returns; cancelling ctx is passed on to every node
// the same way, and Run still waits for each of them to return. A panic
// inside a node's Run is recovered and
// turned into an error: it fails the graph rather than taking down the
// whole process.
func (g *Graph) Run(ctx context.Context) error {
	g.log.Infow("starting compute graph", "nodes", len(g.nodes))
	defer g.log.Infow("compute graph stopped")

	wg, ctx := errgroup.WithContext(ctx)
	for _, n := range g.nodes {
		n := n
		wg.Go(func() (runErr error) {
			defer func() {
				if r := recover(); r != nil {
					runErr = fmt.Errorf("node %q panicked: %v", n.Name(), r)
				}
			}()
			g.log.Infow("starting node", "node", n.Name())
			err := n.Run(ctx)
			if err != nil {
				g.log.Errorw("node exited with error", "node", n.Name(), "error", err)
				return fmt.Errorf("node %q: %w", n.Name(), err)
			}
			g.log.Infow("node finished", "node", n.Name())
			return nil
		})
	}
	return wg.Wait()
}
