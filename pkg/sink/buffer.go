package sink

import (
	"context"

	"github.com/knakk/rdf"
	"go.uber.org/zap"

	"github.com/biosemantics/nanoconv/pkg/errors"
	"github.com/biosemantics/nanoconv/pkg/output"
	"github.com/biosemantics/nanoconv/pkg/serialize"
)

// BufferConfig configures a BufferSink
type BufferConfig struct {
	// Destination is "-", a file path, s3://bucket/key or gs://bucket/key
	Destination string
	// Format of the document; empty infers it from Destination
	Format serialize.Format
	// Serialize carries the prefixes and base of Turtle and TriG output
	Serialize serialize.Options
	// Output configures compression and object storage
	Output output.Options
}

// BufferSink holds every quad in memory and writes them in one document
// when closed.
type BufferSink struct {
	config BufferConfig
	quads  []rdf.Quad
	logger *zap.Logger
}

// NewBuffer creates a buffering sink. The destination is checked here so
// that a bad descriptor fails before any input is read.
func NewBuffer(cfg BufferConfig, logger *zap.Logger) (*BufferSink, error) {
	if _, err := output.ParseLocation(cfg.Destination); err != nil {
		return nil, err
	}
	if cfg.Format == "" {
		cfg.Format = serialize.FormatFor(output.Uncompressed(cfg.Destination))
	}
	if cfg.Output.ContentType == "" {
		cfg.Output.ContentType = cfg.Format.ContentType()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Output.Logger = logger

	return &BufferSink{
		config: cfg,
		logger: logger.With(zap.String("component", "buffer_sink")),
	}, nil
}

// Format returns the output format
func (s *BufferSink) Format() serialize.Format {
	return s.config.Format
}

// Insert appends triples to the buffer
func (s *BufferSink) Insert(_ context.Context, graph rdf.Context, triples []rdf.Triple) error {
	for _, t := range triples {
		s.quads = append(s.quads, rdf.Quad{Triple: t, Ctx: graph})
	}
	return nil
}

// Quads returns the buffered quads in insertion order
func (s *BufferSink) Quads() []rdf.Quad {
	return s.quads
}

// Close serializes the buffer to the destination
func (s *BufferSink) Close(ctx context.Context) error {
	w, err := output.Open(ctx, s.config.Destination, s.config.Output)
	if err != nil {
		return err
	}

	if err := serialize.Write(w, s.config.Format, s.quads, s.config.Serialize); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to finish output").
			WithDetail("destination", s.config.Destination)
	}

	if !s.config.Format.KeepsGraphs() {
		s.logger.Warn("output format has no named graphs, nanopublication graphs were merged",
			zap.String("format", string(s.config.Format)))
	}
	s.logger.Info("wrote output",
		zap.String("destination", s.config.Destination),
		zap.String("format", string(s.config.Format)),
		zap.Int("quads", len(s.quads)))
	return nil
}
