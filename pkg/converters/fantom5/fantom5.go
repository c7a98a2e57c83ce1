// Package fantom5 converts RIKEN FANTOM5 CAGE peak annotation and
// expression tables.
//
// A table row holds seven fixed columns, followed by one column per
// sample in expression tables:
//
//	annotation  short_description  description  association_with_transcript
//	entrezgene_id  hgnc_id  uniprot_id  [sample...]
//
// Only rows whose annotation is a location (chrN:start..end,strand) are
// records. Statistics rows such as "01STAT:MAPPED" are skipped.
package fantom5

import (
	"strings"

	"github.com/knakk/rdf"
	"go.uber.org/zap"

	"github.com/biosemantics/nanoconv/pkg/converters"
	"github.com/biosemantics/nanoconv/pkg/converters/registry"
	"github.com/biosemantics/nanoconv/pkg/models"
	"github.com/biosemantics/nanoconv/pkg/nanopub"
	"github.com/biosemantics/nanoconv/pkg/parse"
	"github.com/biosemantics/nanoconv/pkg/vocab"
)

// Subtypes
const (
	SubtypeCageClusters     = "cage_clusters"
	SubtypeGeneAssociations = "gene_associations"
	SubtypeExpressions      = "ff_expressions"
)

// Column positions of the fixed part of a row
const (
	colAnnotation = iota
	colShortDescription
	colDescription
	colTranscript
	colEntrez
	colHGNC
	colUniProt
	fixedColumns
)

// recordPrefix starts the annotation of every record row
const recordPrefix = "chr"

var defaults = converters.Defaults{
	BaseURL: "http://rdf.biosemantics.org/nanopubs/riken/fantom5/",
	Publication: nanopub.Publication{
		DatasetURI:   "http://rdf.biosemantics.org/dataset/riken/fantom5/void/",
		ProcessURI:   "http://rdf.biosemantics.org/data/riken/fantom5/experiment",
		Rights:       "http://creativecommons.org/licenses/by/3.0/",
		RightsHolder: "http://www.riken.jp/",
		Authors:      []string{"http://rdf.biosemantics.org/data/riken/fantom5/project"},
		Creators:     []string{"Andrew Gibson", "Mark Thompson", "Zuotian Tatum"},
	},
}

func init() {
	_ = registry.Register(&registry.Info{
		Subtype:     SubtypeCageClusters,
		Description: "CAGE peak locations and orientation",
		Format:      "FANTOM5 CAGE peak annotation table",
		Defaults:    defaults,
		Factory:     NewCageClusters,
	})
	_ = registry.Register(&registry.Info{
		Subtype:     SubtypeGeneAssociations,
		Description: "CAGE peak to RefSeq transcript and gene associations",
		Format:      "FANTOM5 CAGE peak annotation table",
		Defaults:    defaults,
		Factory:     NewGeneAssociations,
	})
	_ = registry.Register(&registry.Info{
		Subtype:     SubtypeExpressions,
		Description: "CAGE peak expression per FANTOM5 sample library",
		Format:      "FANTOM5 expression table with a 00Annotation column header",
		Defaults:    defaults,
		Factory:     NewExpressions,
	})
}

var (
	cagePeak          = vocab.SO.Must("SO_0001917")
	sequenceLocation  = vocab.RS.Must("SequenceLocation")
	mapsTo            = vocab.RS.Must("mapsTo")
	start             = vocab.RS.Must("start")
	end               = vocab.RS.Must("end")
	hasOrientation    = vocab.RS.Must("hasOrientation")
	regionOf          = vocab.RS.Must("regionOf")
	isAssociatedWith  = vocab.RS.Must("isAssociatedWith")
	forward           = vocab.RS.Must("forward")
	reverse           = vocab.RS.Must("reverse")
	distanceToTSS     = vocab.FANTOM5.Must("distanceToTranscriptStart")
	expressionMeasure = vocab.FANTOM5.Must("ExpressionMeasurement")
	ofCluster         = vocab.FANTOM5.Must("ofCluster")
	inSample          = vocab.FANTOM5.Must("inSample")
	tpm               = vocab.FANTOM5.Must("tpm")
)

// table holds what the FANTOM5 strategies share
type table struct {
	converters.Base
	subtype string
	header  *parse.HeaderParser
	logger  *zap.Logger
}

func newTable(subtype string, opts converters.Options) table {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	prefix := opts.HeaderPrefix
	if prefix == "" {
		prefix = "#"
	}
	return table{
		subtype: subtype,
		header:  parse.NewHeaderParser(prefix),
		logger:  log.With(zap.String("component", "fantom5_converter"), zap.String("subtype", subtype)),
	}
}

// Subtype implements converters.Strategy
func (t *table) Subtype() string {
	return t.subtype
}

// Header accepts the "##Key=Value" metadata and "# Label: Value" comment
// lines of OSC tables. Neither carries triples.
func (t *table) Header(line models.Line) ([]rdf.Triple, error) {
	if key, _, err := t.header.ParseAssignment(line.Text); err == nil {
		t.logger.Debug("table metadata", zap.Int("line", line.Number), zap.String("key", key))
		return nil, nil
	}
	if _, _, err := t.header.Parse(line.Text); err != nil {
		return nil, err
	}
	return nil, nil
}

// annotation is the fixed part of a record row
type annotation struct {
	ID          string
	Short       string
	Description string
	fields      parse.Fields
}

// parseAnnotation checks that rec is a record with at least want fields
func parseAnnotation(rec models.Record, want int) (annotation, error) {
	f := parse.Split(rec.Text)
	id := f.Get(colAnnotation)
	if !strings.HasPrefix(id, recordPrefix) {
		return annotation{}, parse.Fail(parse.NotARecord, "%q", id)
	}
	if err := f.Require(want); err != nil {
		return annotation{}, err
	}
	short, _ := f.Value(colShortDescription)
	desc, _ := f.Value(colDescription)
	return annotation{ID: id, Short: short, Description: desc, fields: f}, nil
}

// subject mints f5:<annotation>
func (a annotation) subject(b *vocab.Builder) vocab.IRI {
	return b.Term(vocab.FANTOM5, a.ID)
}

// describe adds the English label and comment when present
func (a annotation) describe(b *vocab.Builder, s vocab.IRI) {
	if a.Short != "" {
		b.Add(s, vocab.Label, b.Lang(a.Short, "en"))
	}
	if a.Description != "" {
		b.Add(s, vocab.Comment, b.Lang(a.Description, "en"))
	}
}
