package sink

import (
	"context"

	"github.com/knakk/rdf"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/biosemantics/nanoconv/pkg/errors"
)

// RemoteOptions controls how a RemoteSink treats existing data
type RemoteOptions struct {
	// Clear empties the store before the run
	Clear bool
	// Append permits inserting into a non-empty store
	Append bool
	// RateLimit caps inserts per second; 0 means unlimited
	RateLimit float64
	Burst     int
}

// RemoteSink sends every triple to a Store as soon as it is inserted.
// Nothing is buffered and nothing is retried.
type RemoteSink struct {
	store    Store
	limiter  *rate.Limiter
	inserted int64
	logger   *zap.Logger
}

// NewRemote checks the store and returns a sink for it. With Clear set
// the store is emptied first; without Append a store that still holds
// statements is a conflict and no sink is returned.
func NewRemote(ctx context.Context, store Store, opts RemoteOptions, logger *zap.Logger) (*RemoteSink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("component", "remote_sink"))

	if opts.Clear {
		if _, err := store.Clear(ctx); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to clear remote store")
		}
	}

	if !opts.Append {
		size, err := store.Size(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to read remote store size")
		}
		if size > 0 {
			return nil, errors.New(errors.ErrorTypeConflict, "remote store is not empty; use --clear or --append").
				WithDetail("size", size)
		}
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	burst := opts.Burst
	if burst < 1 {
		burst = 1
	}

	return &RemoteSink{
		store:   store,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}, nil
}

// Insert sends each triple as its own statement
func (s *RemoteSink) Insert(ctx context.Context, graph rdf.Context, triples []rdf.Triple) error {
	for _, t := range triples {
		if err := s.limiter.Wait(ctx); err != nil {
			return errors.Wrap(err, errors.ErrorTypeTimeout, "rate limiter wait failed")
		}
		if err := s.store.Insert(ctx, t.Subj, t.Pred, t.Obj, graph); err != nil {
			return errors.Wrap(err, errors.ErrorTypeConnection, "failed to insert statement").
				WithDetail("inserted", s.inserted)
		}
		s.inserted++
	}
	return nil
}

// Inserted returns the number of statements sent so far
func (s *RemoteSink) Inserted() int64 {
	return s.inserted
}

// Close releases the store
func (s *RemoteSink) Close(_ context.Context) error {
	s.logger.Info("remote import finished", zap.Int64("inserted", s.inserted))
	return s.store.Close()
}
