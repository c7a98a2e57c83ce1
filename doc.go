// Package nanoconv converts genomics tables into RDF nanopublications.
//
// Every data row of an NCBI genome assembly report or a FANTOM5 table
// becomes one nanopublication: a head graph that links an assertion graph,
// a provenance graph and a publication-info graph. Rows are numbered
// contiguously from 1 and each nanopublication URI is minted as
// <base-url><subtype>/<row>.
//
// # Architecture
//
// A run is a single pass over one input file:
//
//	input ──▶ classify ──▶ parse ──▶ assemble ──▶ sink
//	          (header/     (subtype   (head,        (file, AllegroGraph,
//	           data)        strategy)  provenance,   PostgreSQL)
//	                                   pubinfo)
//
// Rows that cannot be converted are logged and skipped. Configuration
// problems, I/O errors and sink failures end the run.
//
// # Quick Start
//
//	nanoconv list
//	nanoconv convert -t assembly_report --assembly-name GRCh37 \
//	    -i GCF_000001405.25_GRCh37.p13_assembly_report.txt -o GRCh37.trig.gz
//	nanoconv convert -t ff_expressions -i hg19.cage_peak_tpm.osc.txt.gz \
//	    --min-expression 1 --sink agraph --host localhost --repository fantom5 --clear
//
// From Go:
//
//	cfg := config.NewConfig()
//	cfg.Conversion.Subtype = "cage_clusters"
//	cfg.Input.Path = "hg19.cage_peak_ann.txt.gz"
//	cfg.Output.Destination = "cage_clusters.nq.zst"
//
//	driver, err := pipeline.Setup(ctx, cfg, time.Now().UTC(), nil, logger)
//	if err != nil {
//	    return err
//	}
//	stats, err := driver.RunFile(ctx, cfg.Input.Path)
//
// # Key Packages
//
//	pkg/converters   - Row strategies per subtype and their registry
//	pkg/nanopub      - URI minting and nanopublication graph assembly
//	pkg/parse        - Field, location, transcript and expression parsing
//	pkg/vocab        - Namespaces and RDF term construction
//	pkg/serialize    - Turtle, TriG, N-Triples and N-Quads writers
//	pkg/sink         - Buffered file output and remote store loading
//	pkg/triplestore  - AllegroGraph HTTP client
//	pkg/output       - Local, S3 and GCS destinations with compression
//	pkg/config       - Run configuration
//	pkg/errors       - Structured error handling
//	pkg/logger       - Structured logging
//	pkg/metrics      - Prometheus run metrics
//	pkg/observability - OpenTelemetry tracing
package nanoconv
