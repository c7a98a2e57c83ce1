// Package pipeline drives a conversion run: it reads the input line by
// line and moves every line through classify, parse, assemble and sink.
//
// # Overview
//
// The driver is single-threaded and single-pass. One line is classified,
// parsed, assembled and handed to the sink before the next is read. It owns
// the only mutable run state: the line counter (inside the classifier) and
// the row index, which counts converted rows only.
//
// # Basic Usage
//
//	driver := pipeline.NewDriver(strategy, assembler, sink, pipeline.Config{
//	    HeaderPrefix: "#",
//	    Metrics:      metrics.NewCollector(strategy.Subtype()),
//	}, logger)
//
//	stats, err := driver.RunFile(ctx, "GCF_000001405.25_GRCh37.p13_assembly_report.txt")
//
// # Failures
//
// A row whose parser returns a *parse.Failure is logged at the level of its
// reason and skipped; the row index does not advance. Any other error
// (input I/O, sink, invalid IRIs) stops the run.
package pipeline

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/knakk/rdf"
	"go.uber.org/zap"

	"github.com/biosemantics/nanoconv/pkg/compression"
	"github.com/biosemantics/nanoconv/pkg/converters"
	"github.com/biosemantics/nanoconv/pkg/errors"
	"github.com/biosemantics/nanoconv/pkg/metrics"
	"github.com/biosemantics/nanoconv/pkg/models"
	"github.com/biosemantics/nanoconv/pkg/nanopub"
	"github.com/biosemantics/nanoconv/pkg/observability"
	"github.com/biosemantics/nanoconv/pkg/parse"
	"github.com/biosemantics/nanoconv/pkg/sink"
)

const (
	initialLineBuffer = 64 * 1024
	// maxLineLength fits the widest FANTOM5 expression tables
	maxLineLength = 16 * 1024 * 1024
)

// Config contains driver settings
type Config struct {
	// HeaderPrefix marks header and comment lines
	HeaderPrefix string
	// Metrics receives run counters; nil creates a collector for the subtype
	Metrics *metrics.Collector
}

// Driver converts one input into nanopublications
type Driver struct {
	strategy   converters.Strategy
	assembler  *nanopub.Assembler
	sink       sink.Sink
	classifier *models.Classifier
	metrics    *metrics.Collector
	logger     *zap.Logger

	rowIndex int
	stats    Stats
}

// NewDriver creates a driver. The strategy, assembler and sink are used
// for exactly one run.
func NewDriver(strategy converters.Strategy, assembler *nanopub.Assembler, s sink.Sink, config Config, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	collector := config.Metrics
	if collector == nil {
		collector = metrics.NewCollector(strategy.Subtype())
	}

	return &Driver{
		strategy:   strategy,
		assembler:  assembler,
		sink:       s,
		classifier: models.NewClassifier(config.HeaderPrefix),
		metrics:    collector,
		logger:     logger.With(zap.String("component", "driver"), zap.String("subtype", strategy.Subtype())),
		stats:      newStats(),
	}
}

// OpenInput opens path for reading, decompressing it when its name ends in
// a known compression suffix
func OpenInput(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from the command line
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open input").WithDetail("path", path)
	}

	alg, _ := compression.FromExtension(path)
	if alg == compression.None {
		return f, nil
	}

	r, err := compression.NewReader(f, alg)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open compressed input").WithDetail("path", path)
	}
	return &readCloser{ReadCloser: r, file: f}, nil
}

type readCloser struct {
	io.ReadCloser
	file *os.File
}

func (r *readCloser) Close() error {
	err := r.ReadCloser.Close()
	if fileErr := r.file.Close(); err == nil {
		err = fileErr
	}
	return err
}

// RunFile opens path and runs the conversion over it
func (d *Driver) RunFile(ctx context.Context, path string) (Stats, error) {
	in, err := OpenInput(path)
	if err != nil {
		return d.stats, err
	}
	defer in.Close()

	ctx, span := observability.StartSpan(ctx, "convert", observability.InputKey.String(path))
	stats, err := d.Run(ctx, in)
	span.SetAttributes(observability.RowKey.Int(stats.RowsConverted))
	observability.EndSpan(span, err)
	return stats, err
}

// Run converts every line of r and closes the sink. On error the sink is
// left open: a buffered document is never written half done.
func (d *Driver) Run(ctx context.Context, r io.Reader) (Stats, error) {
	start := time.Now()
	d.logger.Info("starting conversion")

	if err := d.document(ctx); err != nil {
		return d.stats, err
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, initialLineBuffer), maxLineLength)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return d.stats, errors.Wrap(err, errors.ErrorTypeTimeout, "conversion cancelled").
				WithDetail("line", d.classifier.LineNumber())
		}
		if err := d.processLine(ctx, scanner.Text()); err != nil {
			return d.stats, err
		}
	}
	if err := scanner.Err(); err != nil {
		return d.stats, errors.Wrap(err, errors.ErrorTypeFile, "failed to read input").
			WithDetail("line", d.classifier.LineNumber()+1)
	}

	_, span := observability.StartSpan(ctx, "finalize")
	err := d.sink.Close(ctx)
	observability.EndSpan(span, err)
	if err != nil {
		return d.stats, err
	}

	d.stats.Duration = time.Since(start)
	d.metrics.Sample()
	d.logger.Info("conversion finished", d.stats.Fields()...)
	return d.stats, nil
}

// Stats returns the counters so far
func (d *Driver) Stats() Stats {
	return d.stats
}

func (d *Driver) document(ctx context.Context) error {
	triples, err := d.strategy.Document()
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to describe document")
	}
	return d.insert(ctx, nil, nanopub.RoleDocument, triples)
}

func (d *Driver) processLine(ctx context.Context, raw string) error {
	line := d.strategy.Classify(d.classifier.Classify(raw))
	d.stats.Lines++
	d.metrics.LineRead(line.Kind.String())

	if line.Kind == models.HeaderLine {
		d.stats.HeaderLines++
		triples, err := d.strategy.Header(line)
		if err != nil {
			return d.skipOrFail(line, err)
		}
		if len(triples) == 0 {
			d.logger.Debug("ignored header line", zap.Int("line", line.Number), zap.String("text", line.Text))
			return nil
		}
		return d.insert(ctx, nil, nanopub.RoleDocument, triples)
	}

	d.stats.DataLines++
	if line.IsBlank() {
		d.logger.Debug("skipping blank line", zap.Int("line", line.Number))
		return nil
	}

	timer := metrics.NewTimer("row")
	rec := models.Record{Text: line.Text, LineNumber: line.Number, RowIndex: d.rowIndex + 1}

	row, err := d.strategy.Parse(rec)
	if err != nil {
		return d.skipOrFail(line, err)
	}

	np, err := d.assembler.Mint(rec.RowIndex)
	if err != nil {
		return err
	}
	assertion, err := row.Assert(np)
	if err != nil {
		return d.skipOrFail(line, err)
	}
	bundle, err := d.assembler.Assemble(np, assertion)
	if err != nil {
		return err
	}

	// the row counts from here on, even if the sink fails below
	d.rowIndex = rec.RowIndex
	for _, g := range bundle.Graphs {
		if err := d.insert(ctx, g.Name, g.Role, g.Triples); err != nil {
			return errors.Wrap(err, errors.TypeOf(err), "failed to sink nanopublication").
				WithDetail("line", line.Number).
				WithDetail("nanopub", np.URI.String())
		}
	}

	d.stats.RowsConverted++
	d.metrics.RowConverted()
	d.metrics.ObserveRow(timer.Stop())
	d.logger.Debug("inserted nanopub",
		zap.Int("line", line.Number),
		zap.Int("row", rec.RowIndex),
		zap.String("nanopub", np.URI.String()),
		zap.Int("quads", bundle.Len()))
	return nil
}

// skipOrFail logs a row failure and skips the line; other errors end the run
func (d *Driver) skipOrFail(line models.Line, err error) error {
	f, ok := parse.AsFailure(err)
	if !ok {
		return errors.Wrap(err, errors.TypeOf(err), "failed to convert line").WithDetail("line", line.Number)
	}

	d.stats.Skipped[f.Reason]++
	d.metrics.RowSkipped(string(f.Reason))
	d.logger.Log(f.Reason.Level(), "skipping row",
		zap.Int("line", line.Number),
		zap.String("reason", string(f.Reason)),
		zap.String("detail", f.Detail),
		zap.String("row", line.Text))
	return nil
}

func (d *Driver) insert(ctx context.Context, graph rdf.Context, role nanopub.Role, triples []rdf.Triple) error {
	if len(triples) == 0 {
		return nil
	}
	if err := d.sink.Insert(ctx, graph, triples); err != nil {
		return err
	}
	d.stats.Quads[role] += len(triples)
	d.metrics.QuadsEmitted(string(role), len(triples))
	return nil
}
