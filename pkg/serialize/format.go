// Package serialize writes quads as Turtle, TriG, N-Triples or N-Quads.
//
// Turtle, TriG and N-Quads go through the geoknoesis rdf-go encoders and
// N-Triples through the knakk/rdf encoder. Turtle and TriG output starts
// with the @base and @prefix directives; IRIs in a bound namespace are
// abbreviated when the local part is a valid prefixed name. Turtle has no
// named graphs: writing quads as Turtle merges every graph into one.
package serialize

import (
	"path/filepath"
	"strings"

	"github.com/biosemantics/nanoconv/pkg/errors"
)

// Format is a textual RDF serialization
type Format string

const (
	Turtle   Format = "turtle"
	TriG     Format = "trig"
	NTriples Format = "ntriples"
	NQuads   Format = "nquads"
)

var extensions = map[string]Format{
	".ttl":  Turtle,
	".trig": TriG,
	".nt":   NTriples,
	".nq":   NQuads,
}

// ParseFormat returns the format named s
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Turtle, TriG, NTriples, NQuads:
		return f, nil
	}
	return "", errors.Newf(errors.ErrorTypeConfig, "unknown output format %q", s)
}

// FormatFor infers the format from a file name. Unknown extensions, and
// "-" for standard output, give TriG, the only text format that keeps the
// nanopublication graphs apart besides N-Quads.
func FormatFor(name string) Format {
	if f, ok := extensions[strings.ToLower(filepath.Ext(name))]; ok {
		return f
	}
	return TriG
}

// KeepsGraphs reports whether the format preserves named graphs
func (f Format) KeepsGraphs() bool {
	return f == TriG || f == NQuads
}

// Extension returns the usual file extension of the format
func (f Format) Extension() string {
	for ext, format := range extensions {
		if format == f {
			return ext
		}
	}
	return ""
}

// ContentType returns the media type of the format
func (f Format) ContentType() string {
	switch f {
	case Turtle:
		return "text/turtle"
	case NTriples:
		return "application/n-triples"
	case NQuads:
		return "application/n-quads"
	default:
		return "application/trig"
	}
}
