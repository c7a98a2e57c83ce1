package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/biosemantics/nanoconv/internal/pipeline"
	"github.com/biosemantics/nanoconv/pkg/config"
	"github.com/biosemantics/nanoconv/pkg/converters/registry"
	"github.com/biosemantics/nanoconv/pkg/errors"
	"github.com/biosemantics/nanoconv/pkg/logger"
	"github.com/biosemantics/nanoconv/pkg/metrics"
	"github.com/biosemantics/nanoconv/pkg/nanopub"
	"github.com/biosemantics/nanoconv/pkg/observability"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "nanoconv",
		Short: "nanoconv - convert genomics tables into RDF nanopublications",
		Long: `nanoconv turns NCBI genome assembly reports and FANTOM5 tables into
nanopublications: one assertion, provenance and publication-info graph per
data row, written as Turtle, TriG, N-Triples or N-Quads, or loaded into a
remote triple store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newVersionCommand(), newListCommand(), newConvertCommand(), newConfigCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nanoconv v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List nanopublication subtypes and profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available Subtypes:")
			for _, name := range registry.List() {
				info, err := registry.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  - %s: %s\n", info.Subtype, info.Description)
				fmt.Fprintf(out, "      input:    %s\n", info.Format)
				fmt.Fprintf(out, "      base url: %s\n", info.Defaults.BaseURL)
			}
			fmt.Fprintln(out, "\nAvailable Profiles:")
			for _, name := range nanopub.ProfileNames() {
				fmt.Fprintf(out, "  - %s\n", name)
			}
			return nil
		},
	}
}

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration files",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init [file]",
		Short: "Write a configuration file with every default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "nanoconv.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return errors.Newf(errors.ErrorTypeConfig, "%s already exists", path)
			}
			if err := config.Save(path, config.NewConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	})
	return cmd
}

func newConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert one input table into nanopublications",
		Long: `Convert one input table into nanopublications.

Settings are taken from the defaults, then the --config YAML file, then
NANOCONV_* environment variables (NANOCONV_ASSEMBLY_NAME, ...), then flags.

Examples:
  nanoconv convert -t assembly_report --assembly-name GRCh37 \
      -i GCF_000001405.25.assembly.txt -o GRCh37.trig.gz
  nanoconv convert -t cage_clusters -i hg19.cage_peak_ann.txt.gz \
      --sink agraph --host agraph.local --repository fantom5 --clear`,
		Args: cobra.NoArgs,
	}
	addConvertFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		v, err := newViper(cmd.Flags())
		if err != nil {
			return err
		}
		file, _ := cmd.Flags().GetString("config")
		cfg, err := loadConfig(v, file)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			_ = cmd.Usage()
			return err
		}
		return runConvert(cmd.Context(), cfg)
	}
	return cmd
}

func runConvert(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	// stdout may carry the output document; logs go to stderr
	if err := logger.Init(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Encoding:    cfg.Observability.LogFormat,
		OutputPaths: []string{"stderr"},
	}); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid logging configuration")
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	ctx = context.WithValue(ctx, logger.RunIDKey, runID)
	ctx = context.WithValue(ctx, logger.InputKey, cfg.Input.Path)
	log := logger.WithContext(ctx)

	if cfg.Observability.EnableTracing {
		if err := observability.InitTracing(observability.DefaultTracingConfig(version)); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := observability.Shutdown(shutdownCtx); err != nil {
				log.Warn("failed to flush traces", zap.Error(err))
			}
		}()
	}

	collector := metrics.NewCollector(cfg.Conversion.Subtype)
	driver, err := pipeline.Setup(ctx, cfg, time.Now().UTC(), collector, log)
	if err != nil {
		return report(log, err)
	}

	stats, err := driver.RunFile(ctx, cfg.Input.Path)
	if path := cfg.Observability.MetricsFile; path != "" {
		if mErr := collector.WriteToTextfile(path); mErr != nil {
			log.Warn("failed to write metrics", zap.String("path", path), zap.Error(mErr))
		}
	}
	if err != nil {
		return report(log, err, zap.Int("rows_converted", stats.RowsConverted))
	}
	return nil
}

// report logs a fatal run error with its details and returns it for the
// exit status
func report(log *zap.Logger, err error, fields ...zap.Field) error {
	if e, ok := err.(*errors.Error); ok {
		fields = append(fields, e.Fields()...)
	}
	log.Error("conversion failed", append(fields, zap.Error(err))...)
	return err
}
