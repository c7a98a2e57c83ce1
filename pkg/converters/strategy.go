// Package converters defines the capability every source format implements.
//
// A Strategy is selected once at startup by subtype. The driver hands it
// each classified line: header lines may yield document-level triples,
// data lines are parsed into a Row, and a Row knows how to write its own
// assertion once the driver has minted a nanopublication for it.
//
// Concrete strategies live in subpackages and register themselves with
// package registry from an init function:
//
//	import _ "github.com/biosemantics/nanoconv/pkg/converters/fantom5"
package converters

import (
	"time"

	"github.com/knakk/rdf"
	"go.uber.org/zap"

	"github.com/biosemantics/nanoconv/pkg/models"
	"github.com/biosemantics/nanoconv/pkg/nanopub"
)

// Strategy converts one source format
type Strategy interface {
	// Subtype names the nanopublication subtype minted by this strategy
	Subtype() string

	// Classify may reclassify a line, e.g. a column-header row that does
	// not carry the header prefix
	Classify(line models.Line) models.Line

	// Document returns the triples describing the whole input, emitted
	// once before the first line
	Document() ([]rdf.Triple, error)

	// Header handles a header line. Returned triples go to the default graph.
	Header(line models.Line) ([]rdf.Triple, error)

	// Parse turns a data record into a Row or a *parse.Failure
	Parse(rec models.Record) (Row, error)
}

// Row is a successfully parsed data record
type Row interface {
	// Assert returns the assertion triples of the row inside np
	Assert(np nanopub.Nanopub) ([]rdf.Triple, error)
}

// Options are the run settings a strategy is built from
type Options struct {
	AssemblyMapping string
	AssemblyName    string
	MinExpression   float64
	HeaderPrefix    string
	// Publication is the resolved run-level publication settings
	Publication nanopub.Publication
	// Created is the run start time
	Created time.Time
	Logger  *zap.Logger
}

// Defaults are the per-subtype fallbacks for unset configuration
type Defaults struct {
	BaseURL     string
	Publication nanopub.Publication
}

// Base implements the optional hooks of Strategy as no-ops. Strategies
// embed it and override what they need.
type Base struct{}

// Classify returns line unchanged
func (Base) Classify(line models.Line) models.Line { return line }

// Document returns no triples
func (Base) Document() ([]rdf.Triple, error) { return nil, nil }

// Header ignores the line
func (Base) Header(models.Line) ([]rdf.Triple, error) { return nil, nil }
