package fantom5

import (
	"github.com/knakk/rdf"

	"github.com/biosemantics/nanoconv/pkg/converters"
	"github.com/biosemantics/nanoconv/pkg/models"
	"github.com/biosemantics/nanoconv/pkg/nanopub"
	"github.com/biosemantics/nanoconv/pkg/parse"
	"github.com/biosemantics/nanoconv/pkg/vocab"
)

// CageClusters asserts the location and orientation of each CAGE peak
type CageClusters struct {
	table
}

// NewCageClusters creates the cage_clusters strategy
func NewCageClusters(opts converters.Options) (converters.Strategy, error) {
	return &CageClusters{table: newTable(SubtypeCageClusters, opts)}, nil
}

// Parse accepts rows whose annotation parses as a location
func (c *CageClusters) Parse(rec models.Record) (converters.Row, error) {
	a, err := parseAnnotation(rec, colAnnotation+1)
	if err != nil {
		return nil, err
	}
	loc, err := parse.ParseLocation(a.ID)
	if err != nil {
		return nil, err
	}
	return &cageRow{annotation: a, loc: loc}, nil
}

type cageRow struct {
	annotation
	loc parse.Location
}

func (r *cageRow) Assert(nanopub.Nanopub) ([]rdf.Triple, error) {
	b := vocab.NewBuilder(9)
	s := r.subject(b)
	loc := b.Term(vocab.FANTOM5, "loc_"+r.ID)

	orientation := forward
	if r.loc.Strand == parse.Reverse {
		orientation = reverse
	}

	b.Add(s, vocab.Type, cagePeak)
	b.Add(s, mapsTo, loc)
	b.Add(loc, vocab.Type, sequenceLocation)
	b.Add(loc, start, vocab.Integer(r.loc.Start))
	b.Add(loc, end, vocab.Integer(r.loc.End))
	b.Add(loc, hasOrientation, orientation)
	b.Add(loc, regionOf, b.Term(vocab.HG, "chr"+r.loc.Chromosome))
	r.describe(b, s)
	return b.Triples()
}
