package fantom5

import (
	"github.com/knakk/rdf"

	"github.com/biosemantics/nanoconv/pkg/converters"
	"github.com/biosemantics/nanoconv/pkg/models"
	"github.com/biosemantics/nanoconv/pkg/nanopub"
	"github.com/biosemantics/nanoconv/pkg/parse"
	"github.com/biosemantics/nanoconv/pkg/vocab"
)

// geneColumns map the gene columns to the prefix of their values and the
// namespace their identifiers resolve in
var geneColumns = []struct {
	col    int
	prefix string
	ns     vocab.Namespace
}{
	{colEntrez, "entrezgene", vocab.NCBIGene},
	{colHGNC, "HGNC", vocab.HGNC},
	{colUniProt, "uniprot", vocab.UniProt},
}

// GeneAssociations asserts which RefSeq transcripts and genes a CAGE peak
// is associated with
type GeneAssociations struct {
	table
}

// NewGeneAssociations creates the gene_associations strategy
func NewGeneAssociations(opts converters.Options) (converters.Strategy, error) {
	return &GeneAssociations{table: newTable(SubtypeGeneAssociations, opts)}, nil
}

// Parse requires a transcript association column. NA there skips the row
// with TranscriptAssociationAbsent.
func (g *GeneAssociations) Parse(rec models.Record) (converters.Row, error) {
	a, err := parseAnnotation(rec, colTranscript+1)
	if err != nil {
		return nil, err
	}
	assoc, err := parse.ParseTranscriptAssociation(a.fields.Get(colTranscript))
	if err != nil {
		return nil, err
	}

	r := &geneRow{annotation: a, offset: assoc.Offset, transcripts: assoc.Filter(parse.RefSeqMRNA)}
	for _, gc := range geneColumns {
		for _, id := range parse.ParseIdentifierList(a.fields.Get(gc.col), gc.prefix) {
			r.genes = append(r.genes, gc.ns.Term(id))
		}
	}
	return r, nil
}

type geneRow struct {
	annotation
	offset      int64
	transcripts []string
	genes       []string
}

func (r *geneRow) Assert(nanopub.Nanopub) ([]rdf.Triple, error) {
	b := vocab.NewBuilder(len(r.transcripts) + len(r.genes) + 1)
	s := r.subject(b)

	for _, id := range r.transcripts {
		b.Add(s, isAssociatedWith, b.Term(vocab.RefSeq, id))
	}
	if len(r.transcripts) > 0 {
		b.Add(s, distanceToTSS, vocab.Integer(r.offset))
	}
	for _, gene := range r.genes {
		b.Add(s, isAssociatedWith, b.IRI(gene))
	}
	return b.Triples()
}
