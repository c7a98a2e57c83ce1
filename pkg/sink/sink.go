// Package sink receives the quads of a conversion run. A Sink either
// buffers them for one serialization at the end of the run or sends them
// to a store as they arrive.
package sink

import (
	"context"

	"github.com/knakk/rdf"
)

// Sink accepts batches of triples for one graph
type Sink interface {
	// Insert adds triples to graph. A nil graph is the default graph.
	Insert(ctx context.Context, graph rdf.Context, triples []rdf.Triple) error
	// Close finishes the run: buffered sinks write their output here
	Close(ctx context.Context) error
}

// Store is a quad store addressed statement by statement
type Store interface {
	// Size returns the number of statements held
	Size(ctx context.Context) (int64, error)
	// Clear removes every statement and returns how many were removed
	Clear(ctx context.Context) (int64, error)
	// Insert adds one statement; a nil g is the default graph
	Insert(ctx context.Context, s rdf.Subject, p rdf.Predicate, o rdf.Object, g rdf.Context) error
	Close() error
}
