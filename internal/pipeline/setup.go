package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/biosemantics/nanoconv/pkg/compression"
	"github.com/biosemantics/nanoconv/pkg/config"
	"github.com/biosemantics/nanoconv/pkg/converters"
	"github.com/biosemantics/nanoconv/pkg/converters/registry"
	"github.com/biosemantics/nanoconv/pkg/errors"
	"github.com/biosemantics/nanoconv/pkg/metrics"
	"github.com/biosemantics/nanoconv/pkg/nanopub"
	"github.com/biosemantics/nanoconv/pkg/output"
	"github.com/biosemantics/nanoconv/pkg/serialize"
	"github.com/biosemantics/nanoconv/pkg/sink"
	"github.com/biosemantics/nanoconv/pkg/triplestore"
	"github.com/biosemantics/nanoconv/pkg/vocab"

	// converters register their subtypes on import
	_ "github.com/biosemantics/nanoconv/pkg/converters/assembly"
	_ "github.com/biosemantics/nanoconv/pkg/converters/fantom5"
)

// Setup builds the driver of a run from a validated configuration. Every
// configuration problem, and a remote store that fails its preflight
// check, is reported here before any input is read. created is the
// creation time written into every nanopublication.
func Setup(ctx context.Context, cfg *config.Config, created time.Time, collector *metrics.Collector, logger *zap.Logger) (*Driver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := registry.Lookup(cfg.Conversion.Subtype)
	if err != nil {
		return nil, err
	}

	base := cfg.Conversion.BaseURL
	if base == "" {
		base = info.Defaults.BaseURL
	}
	voc, err := vocab.New(base, cfg.Conversion.Prefixes)
	if err != nil {
		return nil, err
	}

	profile, err := nanopub.LookupProfile(cfg.Conversion.Profile)
	if err != nil {
		return nil, err
	}

	pub := nanopub.Publication{
		DatasetURI:   cfg.Publication.DatasetURI,
		ProcessURI:   cfg.Publication.ProcessURI,
		Rights:       cfg.Publication.Rights,
		RightsHolder: cfg.Publication.RightsHolder,
		Authors:      cfg.Publication.Authors,
		Creators:     cfg.Publication.Creators,
	}.Merge(info.Defaults.Publication)

	run, err := nanopub.NewRunInfo(pub, created)
	if err != nil {
		return nil, err
	}

	strategy, err := info.Factory(converters.Options{
		AssemblyMapping: cfg.Conversion.AssemblyMapping,
		AssemblyName:    cfg.Conversion.AssemblyName,
		MinExpression:   cfg.Conversion.MinExpression,
		HeaderPrefix:    cfg.Input.HeaderPrefix,
		Publication:     pub,
		Created:         created,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}

	s, err := NewSink(ctx, cfg, voc, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("conversion configured",
		zap.String("subtype", strategy.Subtype()),
		zap.String("base_url", string(voc.Base())),
		zap.String("profile", profile.Name),
		zap.String("sink", cfg.Output.Sink))

	assembler := nanopub.NewAssembler(voc.Base(), strategy.Subtype(), profile, run)
	return NewDriver(strategy, assembler, s, Config{
		HeaderPrefix: cfg.Input.HeaderPrefix,
		Metrics:      collector,
	}, logger), nil
}

// NewSink creates the sink selected by cfg.Output.Sink. Remote sinks run
// their preflight check here.
func NewSink(ctx context.Context, cfg *config.Config, voc *vocab.Vocabulary, logger *zap.Logger) (sink.Sink, error) {
	remote := sink.RemoteOptions{
		Clear:     cfg.Output.Clear,
		Append:    cfg.Output.Append,
		RateLimit: cfg.Reliability.RateLimitPerSec,
		Burst:     cfg.Reliability.RateBurst,
	}

	switch cfg.Output.Sink {
	case config.SinkFile:
		var format serialize.Format
		if cfg.Output.Format != "" {
			f, err := serialize.ParseFormat(cfg.Output.Format)
			if err != nil {
				return nil, err
			}
			format = f
		}
		return sink.NewBuffer(sink.BufferConfig{
			Destination: cfg.Output.Destination,
			Format:      format,
			Serialize: serialize.Options{
				Prefixes: voc.Prefixes(),
				Base:     string(voc.Base()),
			},
			Output: output.Options{
				Level:           compression.Level(cfg.Output.CompressionLevel),
				Region:          cfg.Output.Region,
				CredentialsFile: cfg.Output.CredentialsFile,
			},
		}, logger)

	case config.SinkAgraph:
		client, err := triplestore.New(triplestore.Config{
			Endpoint:    cfg.Remote.Endpoint(),
			Catalog:     cfg.Remote.Catalog,
			Repository:  cfg.Remote.Repository,
			Username:    cfg.Remote.Username,
			Password:    cfg.Remote.Password,
			Timeout:     cfg.Remote.Timeout,
			EnableHTTP2: cfg.Remote.EnableHTTP2,
		}, logger)
		if err != nil {
			return nil, err
		}
		s, err := sink.NewRemote(ctx, client, remote, logger)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return s, nil

	case config.SinkPostgres:
		store, err := sink.OpenPostgres(ctx, cfg.Postgres.DSN, cfg.Postgres.Table, logger)
		if err != nil {
			return nil, err
		}
		s, err := sink.NewRemote(ctx, store, remote, logger)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		return s, nil
	}
	return nil, errors.Newf(errors.ErrorTypeConfig, "unknown sink %q", cfg.Output.Sink)
}
