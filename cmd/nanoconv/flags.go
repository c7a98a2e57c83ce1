package main

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/biosemantics/nanoconv/pkg/config"
)

// binding ties a flag, and the NANOCONV_* variable of the same name, to
// one configuration field
type binding struct {
	flag  string
	apply func(v *viper.Viper, key string, cfg *config.Config)
}

var bindings = []binding{
	{"input", func(v *viper.Viper, k string, c *config.Config) { c.Input.Path = v.GetString(k) }},
	{"header-prefix", func(v *viper.Viper, k string, c *config.Config) { c.Input.HeaderPrefix = v.GetString(k) }},
	{"output", func(v *viper.Viper, k string, c *config.Config) { c.Output.Destination = v.GetString(k) }},
	{"format", func(v *viper.Viper, k string, c *config.Config) { c.Output.Format = v.GetString(k) }},
	{"compression-level", func(v *viper.Viper, k string, c *config.Config) { c.Output.CompressionLevel = v.GetInt(k) }},
	{"region", func(v *viper.Viper, k string, c *config.Config) { c.Output.Region = v.GetString(k) }},
	{"credentials-file", func(v *viper.Viper, k string, c *config.Config) { c.Output.CredentialsFile = v.GetString(k) }},
	{"sink", func(v *viper.Viper, k string, c *config.Config) { c.Output.Sink = v.GetString(k) }},
	{"clear", func(v *viper.Viper, k string, c *config.Config) { c.Output.Clear = v.GetBool(k) }},
	{"append", func(v *viper.Viper, k string, c *config.Config) { c.Output.Append = v.GetBool(k) }},
	{"subtype", func(v *viper.Viper, k string, c *config.Config) { c.Conversion.Subtype = v.GetString(k) }},
	{"base-url", func(v *viper.Viper, k string, c *config.Config) { c.Conversion.BaseURL = v.GetString(k) }},
	{"profile", func(v *viper.Viper, k string, c *config.Config) { c.Conversion.Profile = v.GetString(k) }},
	{"assembly-mapping", func(v *viper.Viper, k string, c *config.Config) { c.Conversion.AssemblyMapping = v.GetString(k) }},
	{"assembly-name", func(v *viper.Viper, k string, c *config.Config) { c.Conversion.AssemblyName = v.GetString(k) }},
	{"min-expression", func(v *viper.Viper, k string, c *config.Config) { c.Conversion.MinExpression = v.GetFloat64(k) }},
	{"scheme", func(v *viper.Viper, k string, c *config.Config) { c.Remote.Scheme = v.GetString(k) }},
	{"host", func(v *viper.Viper, k string, c *config.Config) { c.Remote.Host = v.GetString(k) }},
	{"port", func(v *viper.Viper, k string, c *config.Config) { c.Remote.Port = v.GetInt(k) }},
	{"catalog", func(v *viper.Viper, k string, c *config.Config) { c.Remote.Catalog = v.GetString(k) }},
	{"repository", func(v *viper.Viper, k string, c *config.Config) { c.Remote.Repository = v.GetString(k) }},
	{"username", func(v *viper.Viper, k string, c *config.Config) { c.Remote.Username = v.GetString(k) }},
	{"password", func(v *viper.Viper, k string, c *config.Config) { c.Remote.Password = v.GetString(k) }},
	{"timeout", func(v *viper.Viper, k string, c *config.Config) { c.Remote.Timeout = v.GetDuration(k) }},
	{"http2", func(v *viper.Viper, k string, c *config.Config) { c.Remote.EnableHTTP2 = v.GetBool(k) }},
	{"postgres-dsn", func(v *viper.Viper, k string, c *config.Config) { c.Postgres.DSN = v.GetString(k) }},
	{"postgres-table", func(v *viper.Viper, k string, c *config.Config) { c.Postgres.Table = v.GetString(k) }},
	{"rate-limit", func(v *viper.Viper, k string, c *config.Config) { c.Reliability.RateLimitPerSec = v.GetFloat64(k) }},
	{"log-level", func(v *viper.Viper, k string, c *config.Config) { c.Observability.LogLevel = v.GetString(k) }},
	{"log-format", func(v *viper.Viper, k string, c *config.Config) { c.Observability.LogFormat = v.GetString(k) }},
	{"metrics-file", func(v *viper.Viper, k string, c *config.Config) { c.Observability.MetricsFile = v.GetString(k) }},
	{"trace", func(v *viper.Viper, k string, c *config.Config) { c.Observability.EnableTracing = v.GetBool(k) }},
}

func addConvertFlags(fs *pflag.FlagSet) {
	d := config.NewConfig()

	fs.StringP("config", "c", "", "YAML configuration file")
	fs.StringP("input", "i", "", "input file, optionally compressed (required)")
	fs.String("header-prefix", d.Input.HeaderPrefix, "marker of header and comment lines")

	fs.StringP("output", "o", d.Output.Destination, "output file, - for stdout, s3://bucket/key or gs://bucket/key; .gz .zst .lz4 .sz .s2 compress")
	fs.String("format", "", "turtle, trig, ntriples or nquads (default: from the output extension, else trig)")
	fs.Int("compression-level", d.Output.CompressionLevel, "compression level of compressed output (0 uses the codec default)")
	fs.String("region", d.Output.Region, "AWS region of an s3:// output")
	fs.String("credentials-file", "", "GCS service account key of a gs:// output")
	fs.String("sink", d.Output.Sink, "file, agraph or postgres")
	fs.Bool("clear", false, "empty the remote store before importing")
	fs.Bool("append", false, "import into a remote store that is not empty")

	fs.StringP("subtype", "t", "", "nanopublication subtype (see 'nanoconv list')")
	fs.String("base-url", "", "namespace nanopublication URIs are minted under (default: per subtype)")
	fs.String("profile", d.Conversion.Profile, "nanopublication schema profile: nanopub-2.0 or nanopub-legacy")
	fs.String("assembly-mapping", d.Conversion.AssemblyMapping, "assembly report mapping: role-predicate or role-class")
	fs.String("assembly-name", "", "genome build of an assembly report, e.g. GRCh37")
	fs.Float64("min-expression", 0, "emit expression values above this bound only")

	fs.String("scheme", d.Remote.Scheme, "remote store scheme")
	fs.String("host", d.Remote.Host, "remote store host")
	fs.Int("port", d.Remote.Port, "remote store port")
	fs.String("catalog", "", "remote store catalog")
	fs.String("repository", "", "remote store repository")
	fs.String("username", "", "remote store user")
	fs.String("password", "", "remote store password")
	fs.Duration("timeout", d.Remote.Timeout, "remote request timeout")
	fs.Bool("http2", false, "use HTTP/2 with the remote store")
	fs.String("postgres-dsn", "", "PostgreSQL connection string of the postgres sink")
	fs.String("postgres-table", d.Postgres.Table, "PostgreSQL quad table")
	fs.Float64("rate-limit", 0, "remote inserts per second (0 = unlimited)")

	fs.String("log-level", d.Observability.LogLevel, "log level (debug, info, warn, error)")
	fs.String("log-format", d.Observability.LogFormat, "log encoding: console or json")
	fs.String("metrics-file", "", "write Prometheus metrics of the run to this file")
	fs.Bool("trace", false, "export OpenTelemetry spans to stderr")
}

// newViper binds every flag of fs and its NANOCONV_* environment variable
func newViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("NANOCONV")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, b := range bindings {
		if err := v.BindPFlag(b.flag, fs.Lookup(b.flag)); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// loadConfig layers defaults, the YAML file, the environment and the
// command line, later sources winning
func loadConfig(v *viper.Viper, file string) (*config.Config, error) {
	cfg := config.NewConfig()
	if file != "" {
		if err := config.Load(file, cfg); err != nil {
			return nil, err
		}
	}
	for _, b := range bindings {
		if v.IsSet(b.flag) {
			b.apply(v, b.flag, cfg)
		}
	}
	return cfg, nil
}
