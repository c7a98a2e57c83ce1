// Package assembly converts NCBI genome assembly reports. Each reference
// sequence row becomes one nanopublication; the "# Label: Value" header
// lines describe the assembly itself and go to the default graph.
//
// Assembly reports are available at
// ftp://ftp.ncbi.nlm.nih.gov/genomes/ASSEMBLY_REPORTS/.
package assembly

import (
	"strings"
	"time"

	"github.com/knakk/rdf"
	"go.uber.org/zap"

	"github.com/biosemantics/nanoconv/pkg/converters"
	"github.com/biosemantics/nanoconv/pkg/converters/registry"
	"github.com/biosemantics/nanoconv/pkg/errors"
	"github.com/biosemantics/nanoconv/pkg/models"
	"github.com/biosemantics/nanoconv/pkg/nanopub"
	"github.com/biosemantics/nanoconv/pkg/parse"
	"github.com/biosemantics/nanoconv/pkg/vocab"
)

// Subtype is the registered subtype name
const Subtype = "assembly_report"

// Mapping names
const (
	// MappingRolePredicate relates a sequence to its chromosome with
	// rs:represents for chromosomes and rs:isAssociatedWith otherwise
	MappingRolePredicate = "role-predicate"
	// MappingRoleClass types a sequence by its role and uses rs:locatesIn
	MappingRoleClass = "role-class"
)

// DataNamespace is where assembly resources are minted, per assembly name
const DataNamespace = "http://rdf.biosemantics.org/data/genomeassemblies/"

func init() {
	_ = registry.Register(&registry.Info{
		Subtype:     Subtype,
		Description: "NCBI genome assembly report, one nanopublication per reference sequence",
		Format:      "assembly report (6 tab-separated columns, '# Label: Value' header)",
		Defaults: converters.Defaults{
			BaseURL: "http://rdf.biosemantics.org/nanopubs/ncbi/assembly/",
			Publication: nanopub.Publication{
				DatasetURI:   "http://rdf.biosemantics.org/dataset/ncbi/assembly/void/",
				ProcessURI:   "http://rdf.biosemantics.org/data/ncbi/assembly/conversion",
				Rights:       "http://creativecommons.org/licenses/by/3.0/",
				RightsHolder: "http://www.ncbi.nlm.nih.gov/",
				Authors:      []string{"http://www.ncbi.nlm.nih.gov/assembly/"},
				Creators:     []string{"Zuotian Tatum"},
			},
		},
		Factory: New,
	})
}

// Converter is the assembly report strategy
type Converter struct {
	converters.Base

	ns       vocab.Namespace
	assembly vocab.IRI
	mapping  mapping
	header   *parse.HeaderParser
	pub      nanopub.Publication
	created  time.Time
	logger   *zap.Logger
}

// New creates an assembly report converter. The assembly name selects the
// data namespace and is required.
func New(opts converters.Options) (converters.Strategy, error) {
	name := strings.TrimSpace(opts.AssemblyName)
	if name == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "assembly_name is required for "+Subtype)
	}

	m, err := lookupMapping(opts.AssemblyMapping)
	if err != nil {
		return nil, err
	}

	ns := vocab.Namespace(DataNamespace + name + "#")
	assembly, err := ns.IRI("Assembly")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid assembly name")
	}

	prefix := opts.HeaderPrefix
	if prefix == "" {
		prefix = "#"
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Converter{
		ns:       ns,
		assembly: assembly,
		mapping:  m,
		header:   parse.NewHeaderParser(prefix),
		pub:      opts.Publication,
		created:  opts.Created,
		logger:   log.With(zap.String("component", "assembly_converter")),
	}, nil
}

// Subtype implements converters.Strategy
func (c *Converter) Subtype() string {
	return Subtype
}

// Namespace returns the data namespace of the assembly
func (c *Converter) Namespace() vocab.Namespace {
	return c.ns
}

// Document describes the converted file: its type, creators and creation time
func (c *Converter) Document() ([]rdf.Triple, error) {
	b := vocab.NewBuilder(2 + len(c.pub.Creators))
	doc := b.IRI(string(c.ns))

	b.Add(doc, vocab.Type, vocab.FOAF.Must("Document"))
	for _, creator := range c.pub.Creators {
		if vocab.IsAbsolute(creator) {
			b.Add(doc, vocab.DCTerms.Must("creator"), b.IRI(creator))
		} else {
			b.AddString(doc, vocab.DCTerms.Must("creator"), creator)
		}
	}
	if !c.created.IsZero() {
		b.Add(doc, vocab.DCTerms.Must("created"), vocab.DateTime(c.created))
	}
	return b.Triples()
}

// Parse splits a reference sequence row. Missing trailing columns read as
// empty and emit nothing.
func (c *Converter) Parse(rec models.Record) (converters.Row, error) {
	f := parse.Split(rec.Text)
	seq := Sequence{
		Name:         f.Get(0),
		Role:         f.Get(1),
		Placement:    f.Get(2),
		GenBank:      f.Get(3),
		RefSeq:       f.Get(4),
		AssemblyUnit: f.Get(5),
	}
	if seq.Name == "" {
		return nil, parse.Fail(parse.ShortRow, "no sequence name")
	}
	return &row{conv: c, seq: seq}, nil
}

// Sequence is one reference sequence row
type Sequence struct {
	Name         string
	Role         string
	Placement    string
	GenBank      string
	RefSeq       string
	AssemblyUnit string
}

type row struct {
	conv *Converter
	seq  Sequence
}

func (r *row) Assert(nanopub.Nanopub) ([]rdf.Triple, error) {
	b := vocab.NewBuilder(8)
	r.conv.mapping.assert(b, r.conv.ns, r.conv.assembly, r.seq)
	return b.Triples()
}
