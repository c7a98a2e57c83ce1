package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/biosemantics/nanoconv/pkg/errors"
)

// Sink kinds accepted by OutputConfig.Sink
const (
	SinkFile     = "file"
	SinkAgraph   = "agraph"
	SinkPostgres = "postgres"
)

// Config is the single configuration value for one conversion run. It is
// built once at startup and passed explicitly to every component; nothing
// reads it from package state.
type Config struct {
	Input         InputConfig         `yaml:"input" json:"input"`
	Output        OutputConfig        `yaml:"output" json:"output"`
	Conversion    ConversionConfig    `yaml:"conversion" json:"conversion"`
	Remote        RemoteConfig        `yaml:"remote" json:"remote"`
	Postgres      PostgresConfig      `yaml:"postgres" json:"postgres"`
	Publication   PublicationConfig   `yaml:"publication" json:"publication"`
	Reliability   ReliabilityConfig   `yaml:"reliability" json:"reliability"`
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// InputConfig describes the tab-delimited input file.
type InputConfig struct {
	// Path of the input file (required)
	Path string `yaml:"path" json:"path"`
	// HeaderPrefix marks metadata/comment lines
	HeaderPrefix string `yaml:"header_prefix" json:"header_prefix"`
}

// OutputConfig selects where quads go.
type OutputConfig struct {
	// Sink is one of file, agraph, postgres
	Sink string `yaml:"sink" json:"sink"`
	// Destination is a file path, "-", s3://bucket/key or gs://bucket/key
	Destination string `yaml:"destination" json:"destination"`
	// Format is turtle, trig, ntriples or nquads; empty infers from Destination
	Format string `yaml:"format" json:"format"`
	// CompressionLevel applies when Destination has a compression suffix (1-9)
	CompressionLevel int `yaml:"compression_level" json:"compression_level"`
	// Clear empties the remote target before import
	Clear bool `yaml:"clear" json:"clear"`
	// Append permits inserting into a non-empty remote target
	Append bool `yaml:"append" json:"append"`
	// Region of the S3 bucket for s3:// destinations
	Region string `yaml:"region" json:"region"`
	// CredentialsFile is a GCS service account key for gs:// destinations
	CredentialsFile string `yaml:"credentials_file" json:"credentials_file"`
}

// ConversionConfig selects the row rules and URI minting.
type ConversionConfig struct {
	// Subtype selects the converter (assembly_report, cage_clusters, ...)
	Subtype string `yaml:"subtype" json:"subtype"`
	// BaseURL is the namespace all nanopublication URIs are minted under
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Profile is the nanopublication schema profile
	Profile string `yaml:"profile" json:"profile"`
	// AssemblyMapping selects the assembly-report row mapping
	AssemblyMapping string `yaml:"assembly_mapping" json:"assembly_mapping"`
	// AssemblyName names the genome build (hg19, GRCh38, ...)
	AssemblyName string `yaml:"assembly_name" json:"assembly_name"`
	// MinExpression is the exclusive lower bound for emitted expression values
	MinExpression float64 `yaml:"min_expression" json:"min_expression"`
	// Prefixes adds or overrides namespace prefixes of Turtle and TriG output
	Prefixes map[string]string `yaml:"prefixes,omitempty" json:"prefixes,omitempty"`
}

// RemoteConfig addresses a repository on a remote triple store.
type RemoteConfig struct {
	Scheme      string        `yaml:"scheme" json:"scheme"`
	Host        string        `yaml:"host" json:"host"`
	Port        int           `yaml:"port" json:"port"`
	Catalog     string        `yaml:"catalog" json:"catalog"`
	Repository  string        `yaml:"repository" json:"repository"`
	Username    string        `yaml:"username" json:"username"`
	Password    string        `yaml:"password" json:"password"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	EnableHTTP2 bool          `yaml:"enable_http2" json:"enable_http2"`
}

// PostgresConfig addresses a PostgreSQL quad table.
type PostgresConfig struct {
	DSN   string `yaml:"dsn" json:"dsn"`
	Table string `yaml:"table" json:"table"`
}

// PublicationConfig holds the run-level constants written into every
// provenance and publication-info graph. Empty fields fall back to the
// defaults of the selected converter.
type PublicationConfig struct {
	DatasetURI   string   `yaml:"dataset_uri" json:"dataset_uri"`
	ProcessURI   string   `yaml:"process_uri" json:"process_uri"`
	Rights       string   `yaml:"rights" json:"rights"`
	RightsHolder string   `yaml:"rights_holder" json:"rights_holder"`
	Authors      []string `yaml:"authors" json:"authors"`
	Creators     []string `yaml:"creators" json:"creators"`
}

// ReliabilityConfig throttles remote writes.
type ReliabilityConfig struct {
	// RateLimitPerSec limits remote inserts per second (0 = unlimited)
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec" json:"rate_limit_per_sec"`
	// RateBurst is the burst size of the limiter
	RateBurst int `yaml:"rate_burst" json:"rate_burst"`
}

// ObservabilityConfig contains logging, metrics and tracing settings.
type ObservabilityConfig struct {
	LogLevel      string `yaml:"log_level" json:"log_level"`
	LogFormat     string `yaml:"log_format" json:"log_format"`
	MetricsFile   string `yaml:"metrics_file" json:"metrics_file"`
	EnableTracing bool   `yaml:"enable_tracing" json:"enable_tracing"`
}

// NewConfig creates a Config with defaults. Input.Path and
// Conversion.Subtype have no default.
func NewConfig() *Config {
	return &Config{
		Input: InputConfig{
			HeaderPrefix: "#",
		},
		Output: OutputConfig{
			Sink:             SinkFile,
			Destination:      "-",
			CompressionLevel: 6,
		},
		Conversion: ConversionConfig{
			Profile:         "nanopub-2.0",
			AssemblyMapping: "role-predicate",
		},
		Remote: RemoteConfig{
			Scheme:  "http",
			Host:    "localhost",
			Port:    10035,
			Timeout: 30 * time.Second,
		},
		Postgres: PostgresConfig{
			Table: "quads",
		},
		Reliability: ReliabilityConfig{
			RateBurst: 1,
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks required fields and enumerations. All failures are
// configuration errors and abort the run before any input is read.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input.Path) == "" {
		return errors.New(errors.ErrorTypeConfig, "input file is required")
	}
	if c.Input.HeaderPrefix == "" {
		return errors.New(errors.ErrorTypeConfig, "header_prefix cannot be empty")
	}
	if c.Conversion.Subtype == "" {
		return errors.New(errors.ErrorTypeConfig, "subtype is required")
	}
	if c.Conversion.MinExpression < 0 {
		return errors.New(errors.ErrorTypeConfig, "min_expression cannot be negative")
	}
	if c.Reliability.RateLimitPerSec < 0 {
		return errors.New(errors.ErrorTypeConfig, "rate_limit_per_sec cannot be negative")
	}
	if c.Output.CompressionLevel < 0 || c.Output.CompressionLevel > 9 {
		return errors.New(errors.ErrorTypeConfig, "compression_level must be between 0 and 9")
	}

	switch c.Output.Format {
	case "", "turtle", "trig", "ntriples", "nquads":
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown output format %q", c.Output.Format)
	}

	switch c.Output.Sink {
	case SinkFile:
		if c.Output.Destination == "" {
			return errors.New(errors.ErrorTypeConfig, "output destination is required for the file sink")
		}
	case SinkAgraph:
		if c.Remote.Host == "" || c.Remote.Repository == "" {
			return errors.New(errors.ErrorTypeConfig, "remote host and repository are required for the agraph sink")
		}
		if c.Remote.Port <= 0 {
			return errors.New(errors.ErrorTypeConfig, "remote port must be positive")
		}
	case SinkPostgres:
		if c.Postgres.DSN == "" {
			return errors.New(errors.ErrorTypeConfig, "postgres dsn is required for the postgres sink")
		}
		if !isIdentifier(c.Postgres.Table) {
			return errors.Newf(errors.ErrorTypeConfig, "invalid postgres table name %q", c.Postgres.Table)
		}
	default:
		return errors.Newf(errors.ErrorTypeConfig, "unknown sink %q", c.Output.Sink)
	}

	return nil
}

// IsRemote returns true if quads are sent to a remote store as they are produced
func (o *OutputConfig) IsRemote() bool {
	return o.Sink == SinkAgraph || o.Sink == SinkPostgres
}

// Endpoint returns the base URL of the remote store
func (r *RemoteConfig) Endpoint() string {
	return fmt.Sprintf("%s://%s:%d", r.Scheme, r.Host, r.Port)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		switch {
		case ch == '_', ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case ch >= '0' && ch <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
