// Package config provides the configuration of a nanoconv run.
//
// A run is described by one Config value, organized into sections:
//   - Input: the tab-delimited file and its header-line marker
//   - Output: sink kind, destination descriptor, serialization format
//   - Conversion: subtype, base URL, schema profile, assembly mapping
//   - Remote, Postgres: remote store connection parameters
//   - Publication: run-level provenance and publication-info constants
//   - Reliability: throttling of remote writes
//   - Observability: logging, metrics file, tracing
//
// # Usage
//
//	cfg := config.NewConfig()
//	if err := config.Load("nanoconv.yaml", cfg); err != nil {
//		log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// # Environment Variable Substitution
//
//	# nanoconv.yaml
//	conversion:
//	  subtype: cage_clusters
//	remote:
//	  username: ${AGRAPH_USER}
//	  password: ${AGRAPH_PASSWORD}
package config
